package game

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/storage"
)

// CellOverlay is the variant of a cell that belongs to one package revision.
type CellOverlay struct {
	id   int64
	cell *Cell
	pkg  *OverlayPackage

	Name               string
	Description        string
	Terrain            *Terrain
	OutdoorsType       CellOutdoorsType
	HearingProfileID   int64
	AmbientLightFactor float64
	AddedLight         float64
	Atmosphere         *Fluid
	SafeQuit           bool
	ExitIDs            []int64

	changed bool
}

func (o *CellOverlay) ID() int64                { return o.id }
func (o *CellOverlay) Cell() *Cell              { return o.cell }
func (o *CellOverlay) Package() *OverlayPackage { return o.pkg }

// ExitVisible reports whether the exit is shown under this overlay.
func (o *CellOverlay) ExitVisible(id int64) bool {
	return slices.Contains(o.ExitIDs, id)
}

func (o *CellOverlay) markChanged(saves *SaveManager) {
	o.changed = true
	if saves != nil {
		saves.Add(o)
	}
}

func (o *CellOverlay) SaveKey() string {
	return fmt.Sprintf("overlay:%d", o.id)
}

func (o *CellOverlay) Save(tx *storage.Tx) error {
	return tx.SaveOverlay(o.Record())
}

func (o *CellOverlay) Saved() {
	o.changed = false
}

func (o *CellOverlay) Record() storage.OverlayRecord {
	r := storage.OverlayRecord{
		ID:                 o.id,
		CellID:             o.cell.ID(),
		PackageID:          o.pkg.key.ID,
		PackageRevision:    o.pkg.key.Revision,
		Name:               o.Name,
		Description:        o.Description,
		OutdoorsType:       int(o.OutdoorsType),
		HearingProfileID:   o.HearingProfileID,
		AmbientLightFactor: o.AmbientLightFactor,
		AddedLight:         o.AddedLight,
		SafeQuit:           o.SafeQuit,
		ExitIDs:            slices.Clone(o.ExitIDs),
	}
	if o.Terrain != nil {
		r.TerrainID = o.Terrain.ID()
	}
	if o.Atmosphere != nil {
		r.AtmosphereID = o.Atmosphere.ID()
	}
	return r
}

func (o *CellOverlay) copyFor(id int64, pkg *OverlayPackage) *CellOverlay {
	return &CellOverlay{
		id:                 id,
		cell:               o.cell,
		pkg:                pkg,
		Name:               o.Name,
		Description:        o.Description,
		Terrain:            o.Terrain,
		OutdoorsType:       o.OutdoorsType,
		HearingProfileID:   o.HearingProfileID,
		AmbientLightFactor: o.AmbientLightFactor,
		AddedLight:         o.AddedLight,
		Atmosphere:         o.Atmosphere,
		SafeQuit:           o.SafeQuit,
		ExitIDs:            slices.Clone(o.ExitIDs),
	}
}

// cloneInto allocates a copy bound to pkg without saving or registering it.
func (o *CellOverlay) cloneInto(ctx context.Context, w *World, pkg *OverlayPackage) (*CellOverlay, error) {
	id, err := w.db.NextID(ctx, "cell_overlays")
	if err != nil {
		return nil, fmt.Errorf("allocating overlay id: %w", err)
	}
	return o.copyFor(id, pkg), nil
}

// CreateClone makes an editable copy of the overlay for the same cell bound
// to pkg. The copy is inserted and registered before it is returned.
func (o *CellOverlay) CreateClone(ctx context.Context, w *World, pkg *OverlayPackage) (*CellOverlay, error) {
	if _, ok := o.cell.OverlayFor(pkg.Key()); ok {
		return nil, NewUserError(fmt.Sprintf("Cell %d already has an overlay for package %s.", o.cell.ID(), pkg.Name()))
	}
	c, err := o.cloneInto(ctx, w, pkg)
	if err != nil {
		return nil, err
	}
	err = w.db.Tx(ctx, func(tx *storage.Tx) error {
		return tx.SaveOverlay(c.Record())
	})
	if err != nil {
		return nil, fmt.Errorf("inserting overlay %d: %w", c.id, err)
	}
	w.registerOverlay(c)
	return c, nil
}

const overlayBuildingHelp = `You can use the following options with this command:

	name <name> - sets the cell name
	desc <description> - sets the cell description
	terrain <terrain> - sets the terrain
	outdoors <type> - sets the outdoors type
	light <factor> - sets the ambient light factor
	addedlight <lux> - sets the added light
	atmosphere <fluid>|none - sets the atmosphere
	safequit - toggles safe quitting
	exit <id> - toggles whether an exit is visible`

// BuildingCommand edits the overlay. Only overlays in a package under
// design can be edited.
func (o *CellOverlay) BuildingCommand(w *World, ss *StringStack) (string, error) {
	if o.pkg.Status() != UnderDesign {
		return "", NewUserError(fmt.Sprintf("Package %s revision %d is %s and cannot be edited.", o.pkg.Name(), o.pkg.Revision(), o.pkg.Status()))
	}
	switch ss.PopLower() {
	case "name":
		name := ss.RemainingArgument()
		if name == "" {
			return "", NewUserError("What name should this cell have?")
		}
		o.Name = name
		o.markChanged(w.Saves)
		return fmt.Sprintf("The cell is now called %s.", name), nil
	case "desc", "description":
		desc := ss.RemainingArgument()
		if desc == "" {
			return "", NewUserError("What description should this cell have?")
		}
		o.Description = desc
		o.markChanged(w.Saves)
		return "You change the description of the cell.", nil
	case "terrain":
		arg := ss.RemainingArgument()
		t, ok := w.Terrains.GetByIDOrName(arg)
		if !ok {
			return "", NewUserError(fmt.Sprintf("There is no terrain identified by %q.", arg))
		}
		o.Terrain = t
		o.OutdoorsType = t.OutdoorsType
		if t.Atmosphere != nil {
			o.Atmosphere = t.Atmosphere
		}
		o.markChanged(w.Saves)
		o.cell.terrainChanged()
		return fmt.Sprintf("The cell now has the %s terrain.", t.Name()), nil
	case "outdoors", "indoors":
		ot, err := ParseOutdoorsType(ss.Pop())
		if err != nil {
			return "", NewUserError("You must choose indoors, indoorswithwindows, outdoors, indoorsnolight or indoorsclimateexposed.")
		}
		o.OutdoorsType = ot
		o.markChanged(w.Saves)
		return fmt.Sprintf("The cell is now %s.", ot), nil
	case "light", "ambient":
		v, err := strconv.ParseFloat(ss.Pop(), 64)
		if err != nil || v < 0 {
			return "", NewUserError("You must enter a non-negative ambient light factor.")
		}
		o.AmbientLightFactor = v
		o.markChanged(w.Saves)
		return fmt.Sprintf("The cell now receives %.2f of the ambient light.", v), nil
	case "addedlight", "added":
		v, err := strconv.ParseFloat(ss.Pop(), 64)
		if err != nil || v < 0 {
			return "", NewUserError("You must enter a non-negative amount of added light.")
		}
		o.AddedLight = v
		o.markChanged(w.Saves)
		return fmt.Sprintf("The cell now has %.2f lux of added light.", v), nil
	case "atmosphere", "atmos":
		arg := ss.RemainingArgument()
		if strings.EqualFold(arg, "none") {
			o.Atmosphere = nil
			o.markChanged(w.Saves)
			return "The cell now has no atmosphere.", nil
		}
		f, ok := w.Fluids.GetByIDOrName(arg)
		if !ok {
			return "", NewUserError(fmt.Sprintf("There is no fluid identified by %q.", arg))
		}
		o.Atmosphere = f
		o.markChanged(w.Saves)
		return fmt.Sprintf("The cell now has an atmosphere of %s.", f.Name()), nil
	case "safequit", "quit":
		o.SafeQuit = !o.SafeQuit
		o.markChanged(w.Saves)
		if o.SafeQuit {
			return "Players can now safely quit in this cell.", nil
		}
		return "Players can no longer safely quit in this cell.", nil
	case "exit":
		id, ok := parseID(ss.Pop())
		if !ok {
			return "", NewUserError("Which exit id do you want to toggle?")
		}
		if _, ok := w.Exits.Get(id); !ok {
			return "", NewUserError(fmt.Sprintf("There is no exit with id %d.", id))
		}
		if i := slices.Index(o.ExitIDs, id); i >= 0 {
			o.ExitIDs = slices.Delete(o.ExitIDs, i, i+1)
			o.markChanged(w.Saves)
			return fmt.Sprintf("Exit %d is no longer visible under this overlay.", id), nil
		}
		o.ExitIDs = append(o.ExitIDs, id)
		o.markChanged(w.Saves)
		return fmt.Sprintf("Exit %d is now visible under this overlay.", id), nil
	default:
		return "", NewUserError(overlayBuildingHelp)
	}
}

func overlayFromRecord(w *World, cell *Cell, r storage.OverlayRecord) (*CellOverlay, error) {
	pkg, ok := w.Package(PackageKey{ID: r.PackageID, Revision: r.PackageRevision})
	if !ok {
		return nil, fmt.Errorf("overlay %d: package %d r%d: %w", r.ID, r.PackageID, r.PackageRevision, ErrNotFound)
	}
	o := &CellOverlay{
		id:                 r.ID,
		cell:               cell,
		pkg:                pkg,
		Name:               r.Name,
		Description:        r.Description,
		OutdoorsType:       CellOutdoorsType(r.OutdoorsType),
		HearingProfileID:   r.HearingProfileID,
		AmbientLightFactor: r.AmbientLightFactor,
		AddedLight:         r.AddedLight,
		SafeQuit:           r.SafeQuit,
		ExitIDs:            slices.Clone(r.ExitIDs),
	}
	if r.TerrainID != 0 {
		t, ok := w.Terrains.Get(r.TerrainID)
		if !ok {
			return nil, fmt.Errorf("overlay %d: terrain %d: %w", r.ID, r.TerrainID, ErrNotFound)
		}
		o.Terrain = t
	}
	if r.AtmosphereID != 0 {
		f, ok := w.Fluids.Get(r.AtmosphereID)
		if !ok {
			return nil, fmt.Errorf("overlay %d: atmosphere %d: %w", r.ID, r.AtmosphereID, ErrNotFound)
		}
		o.Atmosphere = f
	}
	return o, nil
}
