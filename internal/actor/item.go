package actor

import (
	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/storage"
)

// Item is a plain object built and placed by builders.
type Item struct {
	id          int64
	name        string
	layer       game.RoomLayer
	loc         *game.Cell
	weight      float64
	density     float64
	light       float64
	temperature float64
	anchored    bool
}

// ItemFromRecord builds an item from its stored row. It satisfies
// game.ItemFactory.
func ItemFromRecord(r storage.ItemRecord) game.Item {
	return &Item{
		id:          r.ID,
		name:        r.Name,
		weight:      r.Weight,
		density:     r.Density,
		light:       r.Light,
		temperature: r.Temperature,
		anchored:    r.Anchored,
	}
}

// NewItem creates an unplaced item.
func NewItem(id int64, name string, weight, density float64) *Item {
	return &Item{id: id, name: name, layer: game.GroundLevel, weight: weight, density: density}
}

// SetLight changes the lux the item gives off.
func (i *Item) SetLight(lux float64) { i.light = lux }

func (i *Item) ID() int64                 { return i.id }
func (i *Item) Name() string              { return i.name }
func (i *Item) Layer() game.RoomLayer     { return i.layer }
func (i *Item) SetLayer(l game.RoomLayer) { i.layer = l }
func (i *Item) Location() *game.Cell      { return i.loc }
func (i *Item) SetLocation(c *game.Cell)  { i.loc = c }
func (i *Item) Weight() float64           { return i.weight }
func (i *Item) Density() float64          { return i.density }
func (i *Item) Anchored() bool            { return i.anchored }
func (i *Item) Illumination() float64     { return i.light }
func (i *Item) TemperatureDelta() float64 { return i.temperature }

func (i *Item) Record() storage.ItemRecord {
	return storage.ItemRecord{
		ID:          i.id,
		Name:        i.name,
		Weight:      i.weight,
		Density:     i.density,
		Light:       i.light,
		Temperature: i.temperature,
		Anchored:    i.anchored,
	}
}
