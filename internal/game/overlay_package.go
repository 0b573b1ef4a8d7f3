package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/futuremud/futuremud/internal/storage"
)

// PackageKey identifies one revision of an overlay package.
type PackageKey struct {
	ID       int64
	Revision int
}

func (k PackageKey) String() string {
	return fmt.Sprintf("%d r%d", k.ID, k.Revision)
}

// RevisionStatus is the approval state of a package revision.
type RevisionStatus int

const (
	UnderDesign RevisionStatus = iota
	PendingRevision
	Current
	Rejected
	Revised
	Obsolete
)

var revisionStatusNames = map[RevisionStatus]string{
	UnderDesign:     "under design",
	PendingRevision: "pending revision",
	Current:         "current",
	Rejected:        "rejected",
	Revised:         "revised",
	Obsolete:        "obsolete",
}

func (s RevisionStatus) String() string {
	if n, ok := revisionStatusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// OverlayPackage groups the overlays of one revision of a building project.
type OverlayPackage struct {
	key    PackageKey
	name   string
	status RevisionStatus

	changed bool
}

func (p *OverlayPackage) Key() PackageKey        { return p.key }
func (p *OverlayPackage) ID() int64              { return p.key.ID }
func (p *OverlayPackage) Revision() int          { return p.key.Revision }
func (p *OverlayPackage) Name() string           { return p.name }
func (p *OverlayPackage) Status() RevisionStatus { return p.status }

func (p *OverlayPackage) SetName(w *World, name string) {
	p.name = name
	p.markChanged(w.Saves)
}

func (p *OverlayPackage) markChanged(saves *SaveManager) {
	p.changed = true
	if saves != nil {
		saves.Add(p)
	}
}

func (p *OverlayPackage) SaveKey() string {
	return fmt.Sprintf("package:%d:%d", p.key.ID, p.key.Revision)
}

func (p *OverlayPackage) Save(tx *storage.Tx) error {
	return tx.SaveOverlayPackage(p.Record())
}

func (p *OverlayPackage) Saved() {
	p.changed = false
}

func (p *OverlayPackage) Record() storage.OverlayPackageRecord {
	return storage.OverlayPackageRecord{ID: p.key.ID, Revision: p.key.Revision, Name: p.name, Status: int(p.status)}
}

func (p *OverlayPackage) transition(w *World, to RevisionStatus, from ...RevisionStatus) error {
	for _, f := range from {
		if p.status == f {
			slog.Debug("overlay package transition", "package", p.key.String(), "from", p.status.String(), "to", to.String())
			p.status = to
			p.markChanged(w.Saves)
			return nil
		}
	}
	return NewUserError(fmt.Sprintf("Package %s is %s and cannot become %s.", p.name, p.status, to))
}

// Submit sends a package for review.
func (p *OverlayPackage) Submit(w *World) error {
	return p.transition(w, PendingRevision, UnderDesign)
}

// Approve makes this revision current and switches its cells onto it. The
// previous current revision of the same package becomes revised.
func (p *OverlayPackage) Approve(w *World) error {
	if err := p.transition(w, Current, UnderDesign, PendingRevision); err != nil {
		return err
	}
	for _, other := range w.PackageRevisions(p.key.ID) {
		if other != p && other.status == Current {
			other.status = Revised
			other.markChanged(w.Saves)
		}
	}
	w.ApplyPackage(p)
	return nil
}

// Reject refuses a submitted revision.
func (p *OverlayPackage) Reject(w *World) error {
	return p.transition(w, Rejected, PendingRevision)
}

// Obsolete retires a current or revised revision.
func (p *OverlayPackage) Obsolete(w *World) error {
	return p.transition(w, Obsolete, Current, Revised)
}

// CreateNewRevision copies every overlay of p into a new revision that is
// under design. The revision number is one more than any existing revision.
func (p *OverlayPackage) CreateNewRevision(ctx context.Context, w *World) (*OverlayPackage, error) {
	next := 0
	for _, other := range w.PackageRevisions(p.key.ID) {
		next = max(next, other.key.Revision)
	}
	np := &OverlayPackage{
		key:    PackageKey{ID: p.key.ID, Revision: next + 1},
		name:   p.name,
		status: UnderDesign,
	}
	w.packages[np.key] = np

	sources := w.OverlaysFor(p.key)
	clones := make([]*CellOverlay, 0, len(sources))
	for _, o := range sources {
		c, err := o.cloneInto(ctx, w, np)
		if err != nil {
			delete(w.packages, np.key)
			return nil, err
		}
		clones = append(clones, c)
	}
	err := w.db.Tx(ctx, func(tx *storage.Tx) error {
		if err := tx.SaveOverlayPackage(np.Record()); err != nil {
			return err
		}
		for _, c := range clones {
			if err := tx.SaveOverlay(c.Record()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		delete(w.packages, np.key)
		return nil, fmt.Errorf("creating revision %d of package %d: %w", np.key.Revision, p.key.ID, err)
	}
	for _, c := range clones {
		w.registerOverlay(c)
	}
	slog.Info("created overlay package revision", "package", np.key.ID, "revision", np.key.Revision, "overlays", len(clones))
	return np, nil
}
