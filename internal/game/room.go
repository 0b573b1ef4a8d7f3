package game

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/futuremud/futuremud/internal/storage"
)

// Room is a coordinate in a zone holding one or more cells.
type Room struct {
	world *World
	id    int64
	zone  *Zone

	X, Y, Z int

	cells    []*Cell
	areas    []*Area
	contents contentView
	indexed  *roomKey

	changed bool
}

func newRoom(w *World, id int64, zone *Zone, x, y, z int) *Room {
	return &Room{world: w, id: id, zone: zone, X: x, Y: y, Z: z, contents: newContentView()}
}

func (r *Room) ID() int64 { return r.id }

// Name is the name of the room's first cell.
func (r *Room) Name() string {
	if len(r.cells) == 0 {
		return fmt.Sprintf("room %d", r.id)
	}
	return r.cells[0].Name()
}

func (r *Room) Zone() *Zone             { return r.zone }
func (r *Room) Cells() []*Cell          { return slices.Clone(r.cells) }
func (r *Room) Areas() []*Area          { return slices.Clone(r.areas) }
func (r *Room) Items() []Item           { return r.contents.Items() }
func (r *Room) Characters() []Character { return r.contents.Characters() }

func (r *Room) itemAdded(it Item) {
	r.contents.addItem(it)
	if r.zone != nil {
		r.zone.itemAdded(it)
	}
}

func (r *Room) itemRemoved(it Item) {
	r.contents.removeItem(it)
	if r.zone != nil {
		r.zone.itemRemoved(it)
	}
}

func (r *Room) characterAdded(ch Character) {
	r.contents.addCharacter(ch)
	if r.zone != nil {
		r.zone.characterAdded(ch)
	}
}

func (r *Room) characterRemoved(ch Character) {
	r.contents.removeCharacter(ch)
	if r.zone != nil {
		r.zone.characterRemoved(ch)
	}
}

func (r *Room) addCell(c *Cell) {
	if slices.Contains(r.cells, c) {
		return
	}
	r.cells = append(r.cells, c)
	for _, a := range r.areas {
		a.watchCell(c)
	}
}

func (r *Room) removeCell(c *Cell) {
	r.cells = slices.DeleteFunc(r.cells, func(x *Cell) bool { return x == c })
}

// SetCoordinates moves the room and updates the shard index.
func (r *Room) SetCoordinates(x, y, z int) {
	r.X, r.Y, r.Z = x, y, z
	r.markChanged()
	if r.zone != nil && r.zone.shard != nil {
		r.zone.shard.indexRoom(r)
	}
}

// SetNewZone moves the room, carrying its contents views across.
func (r *Room) SetNewZone(z *Zone) {
	if z == r.zone {
		return
	}
	old := r.zone
	if old != nil {
		for _, it := range r.contents.Items() {
			old.itemRemoved(it)
		}
		for _, ch := range r.contents.Characters() {
			old.characterRemoved(ch)
		}
		old.unregisterRoom(r)
	}
	r.zone = z
	z.registerRoom(r)
	for _, it := range r.contents.Items() {
		z.itemAdded(it)
	}
	for _, ch := range r.contents.Characters() {
		z.characterAdded(ch)
	}
	for _, c := range r.cells {
		c.SubscribeWeather()
	}
	r.markChanged()
	slog.Info("room changed zone", "room", r.id, "zone", z.ID())
}

// DestroyRoom destroys every cell of the room, moving contents to fallback.
func (r *Room) DestroyRoom(fallback *Cell) error {
	if fallback == nil || fallback.room == r {
		return fmt.Errorf("destroying room %d: fallback cell must be in another room", r.id)
	}
	for _, c := range r.Cells() {
		if err := c.Destroy(fallback); err != nil {
			return fmt.Errorf("destroying room %d: %w", r.id, err)
		}
	}
	for _, a := range r.Areas() {
		a.RemoveRoom(r)
	}
	if r.zone != nil {
		r.zone.unregisterRoom(r)
	}
	r.world.Rooms.Remove(r.id)
	r.world.Saves.Remove(r.SaveKey())
	id := r.id
	r.world.Saves.AddDeferred(fmt.Sprintf("delete room %d", id), func(tx *storage.Tx) error {
		return tx.DeleteRoom(id)
	})
	return nil
}

func (r *Room) markChanged() {
	r.changed = true
	r.world.Saves.Add(r)
}

func (r *Room) SaveKey() string {
	return fmt.Sprintf("room:%d", r.id)
}

func (r *Room) Save(tx *storage.Tx) error {
	return tx.SaveRoom(r.Record())
}

func (r *Room) Saved() {
	r.changed = false
}

func (r *Room) Record() storage.RoomRecord {
	rec := storage.RoomRecord{ID: r.id, X: r.X, Y: r.Y, Z: r.Z}
	if r.zone != nil {
		rec.ZoneID = r.zone.ID()
	}
	return rec
}
