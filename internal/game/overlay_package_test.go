package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestOverlayPackage_CreateNewRevision(t *testing.T) {
	f := newFixture(t)
	_, second := f.mustRoom(t, 1, 0, 0)

	rev1, err := f.pkg.CreateNewRevision(f.ctx, f.w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "revision", rev1.Revision(), 1)
	testutil.AssertEqual(t, "id", rev1.ID(), f.pkg.ID())
	testutil.AssertEqual(t, "status", rev1.Status(), UnderDesign)
	testutil.AssertEqual(t, "overlays", len(f.w.OverlaysFor(rev1.Key())), 2)
	testutil.AssertEqual(t, "source overlays", len(f.w.OverlaysFor(f.pkg.Key())), 2)

	// Revising an older revision still numbers after the newest one.
	rev2, err := f.pkg.CreateNewRevision(f.ctx, f.w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "revision", rev2.Revision(), 2)
	testutil.AssertEqual(t, "revisions", len(f.w.PackageRevisions(f.pkg.ID())), 3)

	for _, c := range []*Cell{f.cell, second} {
		testutil.AssertEqual(t, "cell overlays", len(c.Overlays()), 3)
		testutil.AssertEqual(t, "current", c.CurrentOverlay().Package() == f.pkg, true)
	}
}

func TestOverlayPackage_Approve(t *testing.T) {
	f := newFixture(t)
	if err := f.pkg.Approve(f.w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rev, err := f.pkg.CreateNewRevision(f.ctx, f.w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o, ok := f.cell.OverlayFor(rev.Key())
	if !ok {
		t.Fatalf("cell has no overlay for %s", rev.Key())
	}
	if _, err := o.BuildingCommand(f.w, NewStringStack("name A Quiet Glade")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "name before approval", f.cell.Name(), "An Unnamed Cell")

	if err := rev.Submit(f.w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rev.Approve(f.w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "new status", rev.Status(), Current)
	testutil.AssertEqual(t, "old status", f.pkg.Status(), Revised)
	testutil.AssertEqual(t, "current", f.cell.CurrentOverlay() == o, true)
	testutil.AssertEqual(t, "name after approval", f.cell.Name(), "A Quiet Glade")

	_, err = o.BuildingCommand(f.w, NewStringStack("name Elsewhere"))
	testutil.AssertErrorContains(t, err, "cannot be edited")
}

func TestOverlayPackage_Transitions(t *testing.T) {
	tests := map[string]struct {
		steps  []func(*OverlayPackage, *World) error
		exp    RevisionStatus
		expErr string
	}{
		"submit then reject": {
			steps: []func(*OverlayPackage, *World) error{(*OverlayPackage).Submit, (*OverlayPackage).Reject},
			exp:   Rejected,
		},
		"reject under design": {
			steps:  []func(*OverlayPackage, *World) error{(*OverlayPackage).Reject},
			exp:    UnderDesign,
			expErr: "cannot become",
		},
		"approve then obsolete": {
			steps: []func(*OverlayPackage, *World) error{(*OverlayPackage).Approve, (*OverlayPackage).Obsolete},
			exp:   Obsolete,
		},
		"obsolete under design": {
			steps:  []func(*OverlayPackage, *World) error{(*OverlayPackage).Obsolete},
			exp:    UnderDesign,
			expErr: "cannot become",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			var err error
			for _, step := range tt.steps {
				if err = step(f.pkg, f.w); err != nil {
					break
				}
			}
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "status", f.pkg.Status(), tt.exp)
		})
	}
}

func TestCell_SetCurrentOverlay(t *testing.T) {
	f := newFixture(t)
	other, err := f.w.CreatePackage(f.ctx, "unrelated")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := f.cell.CurrentOverlay()

	testutil.AssertEqual(t, "switched", f.cell.SetCurrentOverlay(other), false)
	testutil.AssertEqual(t, "current", f.cell.CurrentOverlay() == before, true)

	testutil.AssertEqual(t, "switched", f.cell.SetCurrentOverlay(f.pkg), true)
	found := false
	for _, o := range f.cell.Overlays() {
		if o == f.cell.CurrentOverlay() {
			found = true
		}
	}
	testutil.AssertEqual(t, "current is an overlay", found, true)
}

func TestCell_GetOverlayFor(t *testing.T) {
	f := newFixture(t)
	rev, err := f.pkg.CreateNewRevision(f.ctx, f.w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	draft, _ := f.cell.OverlayFor(rev.Key())
	key := rev.Key()
	missing := PackageKey{ID: 99}

	tests := map[string]struct {
		voyeur any
		exp    *CellOverlay
	}{
		"no voyeur": {
			voyeur: nil,
			exp:    f.cell.CurrentOverlay(),
		},
		"previewing the revision": {
			voyeur: &testCharacter{preview: &key},
			exp:    draft,
		},
		"previewing a package the cell lacks": {
			voyeur: &testCharacter{preview: &missing},
			exp:    f.cell.CurrentOverlay(),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "overlay", f.cell.GetOverlayFor(tt.voyeur) == tt.exp, true)
		})
	}
}
