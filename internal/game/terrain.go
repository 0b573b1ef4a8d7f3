package game

import (
	"fmt"
	"slices"

	"github.com/futuremud/futuremud/internal/storage"
)

// Terrain is shared configuration describing a kind of location.
type Terrain struct {
	id   int64
	name string

	MovementRate        float64
	StaminaCost         float64
	HideDifficulty      Difficulty
	SpotDifficulty      Difficulty
	InfectionType       int
	InfectionVirulence  Difficulty
	InfectionMultiplier float64
	OutdoorsType        CellOutdoorsType
	WeatherController   WeatherController
	Atmosphere          *Fluid
	ForagableProfile    *ForagableProfile
	Covers              []*RangedCover
	Model               TerrainModel
	MapColour           string
	EditorColour        string
	DefaultTerrain      bool

	changed bool
}

// NewTerrain creates an outdoors terrain with neutral modifiers.
func NewTerrain(id int64, name string) *Terrain {
	return &Terrain{
		id:                  id,
		name:                name,
		MovementRate:        1,
		InfectionMultiplier: 1,
		OutdoorsType:        Outdoors,
		Model:               TerrainModel{Kind: ModelOutdoors},
	}
}

func (t *Terrain) ID() int64    { return t.id }
func (t *Terrain) Name() string { return t.name }

// Layers are the valid layers of the terrain, lowest first.
func (t *Terrain) Layers() []RoomLayer {
	return t.Model.Layers()
}

// HasLayer reports whether l is one of the terrain's layers.
func (t *Terrain) HasLayer(l RoomLayer) bool {
	return slices.Contains(t.Layers(), l)
}

// HandleEnterLayers snaps an arriving occupant's layer onto the terrain.
// A valid layer is kept, anything above the highest valid layer becomes
// the highest, anything else becomes the lowest.
func (t *Terrain) HandleEnterLayers(l RoomLayer) RoomLayer {
	layers := t.Layers()
	if len(layers) == 0 || slices.Contains(layers, l) {
		return l
	}
	highest := layers[len(layers)-1]
	if l.IsHigherThan(highest) {
		return highest
	}
	return layers[0]
}

// Liquid is the water of a water model.
func (t *Terrain) Liquid(fluids *Registry[*Fluid]) (*Fluid, bool) {
	if !t.Model.IsWater() {
		return nil, false
	}
	return fluids.Get(t.Model.LiquidID)
}

// Changed marks the terrain for the next save.
func (t *Terrain) Changed() bool {
	return t.changed
}

func (t *Terrain) markChanged(saves *SaveManager) {
	t.changed = true
	if saves != nil {
		saves.Add(t)
	}
}

func (t *Terrain) SaveKey() string {
	return fmt.Sprintf("terrain:%d", t.id)
}

func (t *Terrain) Save(tx *storage.Tx) error {
	return tx.SaveTerrain(t.Record())
}

func (t *Terrain) Saved() {
	t.changed = false
}

// Record converts the terrain to its row.
func (t *Terrain) Record() storage.TerrainRecord {
	r := storage.TerrainRecord{
		ID:                  t.id,
		Name:                t.name,
		MovementRate:        t.MovementRate,
		StaminaCost:         t.StaminaCost,
		HideDifficulty:      int(t.HideDifficulty),
		SpotDifficulty:      int(t.SpotDifficulty),
		InfectionType:       t.InfectionType,
		InfectionVirulence:  int(t.InfectionVirulence),
		InfectionMultiplier: t.InfectionMultiplier,
		OutdoorsType:        int(t.OutdoorsType),
		Model:               t.Model.String(),
		MapColour:           t.MapColour,
		EditorColour:        t.EditorColour,
		DefaultTerrain:      t.DefaultTerrain,
	}
	if t.WeatherController != nil {
		r.WeatherControllerID = t.WeatherController.ID()
	}
	if t.Atmosphere != nil {
		r.AtmosphereID = t.Atmosphere.ID()
	}
	if t.ForagableProfile != nil {
		r.ForagableProfileID = t.ForagableProfile.ID()
	}
	for _, c := range t.Covers {
		r.CoverIDs = append(r.CoverIDs, c.ID())
	}
	return r
}

// terrainFromRecord resolves a terrain row against the world registries.
func terrainFromRecord(w *World, r storage.TerrainRecord) (*Terrain, error) {
	model, err := ParseTerrainModel(r.Model, nil)
	if err != nil {
		return nil, fmt.Errorf("terrain %d model: %w", r.ID, err)
	}
	t := &Terrain{
		id:                  r.ID,
		name:                r.Name,
		MovementRate:        r.MovementRate,
		StaminaCost:         r.StaminaCost,
		HideDifficulty:      Difficulty(r.HideDifficulty).Clamp(),
		SpotDifficulty:      Difficulty(r.SpotDifficulty).Clamp(),
		InfectionType:       r.InfectionType,
		InfectionVirulence:  Difficulty(r.InfectionVirulence).Clamp(),
		InfectionMultiplier: r.InfectionMultiplier,
		OutdoorsType:        CellOutdoorsType(r.OutdoorsType),
		Model:               model,
		MapColour:           r.MapColour,
		EditorColour:        r.EditorColour,
		DefaultTerrain:      r.DefaultTerrain,
	}
	if r.WeatherControllerID != 0 {
		wc, ok := w.WeatherControllers.Get(r.WeatherControllerID)
		if !ok {
			return nil, fmt.Errorf("terrain %d: weather controller %d: %w", r.ID, r.WeatherControllerID, ErrNotFound)
		}
		t.WeatherController = wc
	}
	if r.AtmosphereID != 0 {
		f, ok := w.Fluids.Get(r.AtmosphereID)
		if !ok {
			return nil, fmt.Errorf("terrain %d: atmosphere %d: %w", r.ID, r.AtmosphereID, ErrNotFound)
		}
		t.Atmosphere = f
	}
	if r.ForagableProfileID != 0 {
		p, ok := w.ForagableProfiles.Get(r.ForagableProfileID)
		if !ok {
			return nil, fmt.Errorf("terrain %d: foragable profile %d: %w", r.ID, r.ForagableProfileID, ErrNotFound)
		}
		t.ForagableProfile = p
	}
	for _, id := range r.CoverIDs {
		c, ok := w.Covers.Get(id)
		if !ok {
			return nil, fmt.Errorf("terrain %d: cover %d: %w", r.ID, id, ErrNotFound)
		}
		t.Covers = append(t.Covers, c)
	}
	return t, nil
}
