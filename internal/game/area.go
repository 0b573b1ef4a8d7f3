package game

import (
	"fmt"
	"slices"

	"github.com/futuremud/futuremud/internal/storage"
)

// Area is a named group of rooms that may override the weather.
type Area struct {
	world *World
	id    int64
	name  string

	WeatherController WeatherController

	rooms    []*Room
	cellSubs map[int64]func()

	changed bool
}

func newArea(w *World, id int64, name string) *Area {
	return &Area{world: w, id: id, name: name, cellSubs: make(map[int64]func())}
}

func (a *Area) ID() int64      { return a.id }
func (a *Area) Name() string   { return a.name }
func (a *Area) Rooms() []*Room { return slices.Clone(a.rooms) }

func (a *Area) SetName(name string) {
	a.name = name
	a.markChanged()
}

// Cells returns every cell of every member room.
func (a *Area) Cells() []*Cell {
	var out []*Cell
	for _, r := range a.rooms {
		out = append(out, r.cells...)
	}
	return out
}

// Zones returns the distinct zones of the member rooms in room order.
func (a *Area) Zones() []*Zone {
	var out []*Zone
	for _, r := range a.rooms {
		if r.zone != nil && !slices.Contains(out, r.zone) {
			out = append(out, r.zone)
		}
	}
	return out
}

func (a *Area) firstZone() *Zone {
	if zs := a.Zones(); len(zs) > 0 {
		return zs[0]
	}
	return nil
}

// CurrentTimeOfDay is the time of day of the first member zone.
func (a *Area) CurrentTimeOfDay() (TimeOfDay, bool) {
	if z := a.firstZone(); z != nil {
		return z.CurrentTimeOfDay()
	}
	return Night, false
}

// Celestials are those of the first member zone's shard.
func (a *Area) Celestials() []Celestial {
	if z := a.firstZone(); z != nil && z.shard != nil {
		return z.shard.Celestials()
	}
	return nil
}

// AddRoom adds a room, returning false when it is already a member.
func (a *Area) AddRoom(r *Room) bool {
	if slices.Contains(a.rooms, r) {
		return false
	}
	a.rooms = append(a.rooms, r)
	r.areas = append(r.areas, a)
	for _, c := range r.cells {
		a.watchCell(c)
		c.SubscribeWeather()
	}
	a.markChanged()
	return true
}

// RemoveRoom drops a room, returning false when it was not a member.
func (a *Area) RemoveRoom(r *Room) bool {
	if !slices.Contains(a.rooms, r) {
		return false
	}
	a.rooms = slices.DeleteFunc(a.rooms, func(x *Room) bool { return x == r })
	r.areas = slices.DeleteFunc(r.areas, func(x *Area) bool { return x == a })
	for _, c := range r.cells {
		if unsub, ok := a.cellSubs[c.ID()]; ok {
			unsub()
			delete(a.cellSubs, c.ID())
		}
		c.SubscribeWeather()
	}
	a.markChanged()
	return true
}

func (a *Area) watchCell(c *Cell) {
	if _, ok := a.cellSubs[c.ID()]; ok {
		return
	}
	a.cellSubs[c.ID()] = c.OnRequestsDeletion(a.cellRequestsDeletion)
}

func (a *Area) cellRequestsDeletion(c *Cell) {
	delete(a.cellSubs, c.ID())
	if c.room != nil {
		a.RemoveRoom(c.room)
	}
}

// SetWeatherController changes the override and resubscribes member cells.
func (a *Area) SetWeatherController(wc WeatherController) {
	a.WeatherController = wc
	for _, c := range a.Cells() {
		c.SubscribeWeather()
	}
	a.markChanged()
}

// Destroy removes the area from all of its rooms.
func (a *Area) Destroy() {
	for _, r := range a.Rooms() {
		a.RemoveRoom(r)
	}
	a.world.Areas.Remove(a.id)
	a.world.Saves.Remove(a.SaveKey())
	id := a.id
	a.world.Saves.AddDeferred(fmt.Sprintf("delete area %d", id), func(tx *storage.Tx) error {
		return tx.DeleteArea(id)
	})
}

func (a *Area) markChanged() {
	a.changed = true
	a.world.Saves.Add(a)
}

func (a *Area) SaveKey() string {
	return fmt.Sprintf("area:%d", a.id)
}

func (a *Area) Save(tx *storage.Tx) error {
	return tx.SaveArea(a.Record())
}

func (a *Area) Saved() {
	a.changed = false
}

func (a *Area) Record() storage.AreaRecord {
	r := storage.AreaRecord{ID: a.id, Name: a.name}
	if a.WeatherController != nil {
		r.WeatherControllerID = a.WeatherController.ID()
	}
	for _, room := range a.rooms {
		r.RoomIDs = append(r.RoomIDs, room.ID())
	}
	return r
}
