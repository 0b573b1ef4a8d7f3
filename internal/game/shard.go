package game

import (
	"fmt"
	"math"
	"slices"

	"github.com/petar/GoLLRB/llrb"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/storage"
)

// roomKey orders rooms by zone then coordinates, with the room id breaking ties.
type roomKey struct {
	zone    int64
	x, y, z int
	room    int64
	ref     *Room
}

func (k *roomKey) Less(than llrb.Item) bool {
	o := than.(*roomKey)
	switch {
	case k.zone != o.zone:
		return k.zone < o.zone
	case k.x != o.x:
		return k.x < o.x
	case k.y != o.y:
		return k.y < o.y
	case k.z != o.z:
		return k.z < o.z
	}
	return k.room < o.room
}

// Shard is a plane of existence with its own zones, clocks and sky.
type Shard struct {
	world *World
	id    int64
	name  string

	MinimumTerrestrialLux float64

	zones      []*Zone
	clocks     []*celestial.Clock
	calendars  []*celestial.Calendar
	celestials []Celestial
	contents   contentView

	index *llrb.LLRB

	changed bool
}

func newShard(w *World, id int64, name string) *Shard {
	return &Shard{world: w, id: id, name: name, contents: newContentView(), index: llrb.New()}
}

func (s *Shard) ID() int64                        { return s.id }
func (s *Shard) Name() string                     { return s.name }
func (s *Shard) Zones() []*Zone                   { return slices.Clone(s.zones) }
func (s *Shard) Clocks() []*celestial.Clock       { return slices.Clone(s.clocks) }
func (s *Shard) Calendars() []*celestial.Calendar { return slices.Clone(s.calendars) }
func (s *Shard) Celestials() []Celestial          { return slices.Clone(s.celestials) }
func (s *Shard) Items() []Item                    { return s.contents.Items() }
func (s *Shard) Characters() []Character          { return s.contents.Characters() }

func (s *Shard) SetName(name string) {
	s.name = name
	s.markChanged()
}

func (s *Shard) itemAdded(it Item)                 { s.contents.addItem(it) }
func (s *Shard) itemRemoved(it Item)               { s.contents.removeItem(it) }
func (s *Shard) characterAdded(ch Character)       { s.contents.addCharacter(ch) }
func (s *Shard) characterRemoved(ch Character)     { s.contents.removeCharacter(ch) }
func (s *Shard) addZone(z *Zone)                   { s.zones = append(s.zones, z) }
func (s *Shard) addClock(c *celestial.Clock)       { s.clocks = append(s.clocks, c) }
func (s *Shard) addCalendar(c *celestial.Calendar) { s.calendars = append(s.calendars, c) }

// AddCelestial adds a body to the sky and resubscribes every zone.
func (s *Shard) AddCelestial(c Celestial) {
	s.celestials = append(s.celestials, c)
	for _, z := range s.zones {
		z.subscribeCelestials()
	}
}

func (s *Shard) indexRoom(r *Room) {
	s.unindexRoom(r)
	if r.zone == nil {
		return
	}
	k := &roomKey{zone: r.zone.ID(), x: r.X, y: r.Y, z: r.Z, room: r.id, ref: r}
	s.index.ReplaceOrInsert(k)
	r.indexed = k
}

func (s *Shard) unindexRoom(r *Room) {
	if r.indexed == nil {
		return
	}
	s.index.Delete(r.indexed)
	r.indexed = nil
}

// RoomsAt returns the rooms of a zone at a coordinate.
func (s *Shard) RoomsAt(zone *Zone, x, y, z int) []*Room {
	var out []*Room
	pivot := &roomKey{zone: zone.ID(), x: x, y: y, z: z, room: math.MinInt64}
	s.index.AscendGreaterOrEqual(pivot, func(i llrb.Item) bool {
		k := i.(*roomKey)
		if k.zone != pivot.zone || k.x != x || k.y != y || k.z != z {
			return false
		}
		out = append(out, k.ref)
		return true
	})
	return out
}

// RoomInDirection is the room reached by an exit in dir from any cell of
// from, or else the room at the neighbouring coordinate.
func (s *Shard) RoomInDirection(from *Room, dir Direction) (*Room, bool) {
	for _, c := range from.cells {
		if e, ok := s.world.Exits.ExitFrom(c, dir); ok {
			if dest := e.Destination(c); dest != nil && dest.room != nil {
				return dest.room, true
			}
		}
	}
	if from.zone == nil {
		return nil, false
	}
	dx, dy, dz := dir.Offset()
	rooms := s.RoomsAt(from.zone, from.X+dx, from.Y+dy, from.Z+dz)
	if len(rooms) == 0 {
		return nil, false
	}
	return rooms[0], true
}

func (s *Shard) minimumLux() float64 {
	if s.MinimumTerrestrialLux > 0 {
		return s.MinimumTerrestrialLux
	}
	return s.world.tuning.MinimumTerrestrialLux
}

// SkyMagnitude converts illuminance to sky brightness in magnitudes per
// square arcsecond. Illuminance is floored at the minimum terrestrial lux.
func (s *Shard) SkyMagnitude(lux float64) float64 {
	lux = max(lux, s.minimumLux())
	return 12.58 - 2.5*math.Log10(lux*1.08/3.4)
}

// DescribeSky describes how the sky looks at the given illuminance.
func (s *Shard) DescribeSky(lux float64) string {
	mag := s.SkyMagnitude(lux)
	var desc string
	switch {
	case mag < 10:
		desc = "The sky is bright with daylight."
	case mag < 15:
		desc = "The sky is lit by twilight and only the brightest stars show."
	case mag < 18:
		desc = "The sky glows faintly, hiding all but a scattering of stars."
	case mag < 20:
		desc = "Many stars are visible, though a glow lingers at the horizon."
	case mag < 21.5:
		desc = "The sky is dark and thick with stars."
	default:
		desc = "The sky is utterly dark, countless stars and the band of the galaxy stretching overhead."
	}
	return fmt.Sprintf("%s (%.2f mag/arcsec²)", desc, mag)
}

func (s *Shard) markChanged() {
	s.changed = true
	s.world.Saves.Add(s)
}

func (s *Shard) SaveKey() string {
	return fmt.Sprintf("shard:%d", s.id)
}

func (s *Shard) Save(tx *storage.Tx) error {
	return tx.SaveShard(s.Record())
}

func (s *Shard) Saved() {
	s.changed = false
}

func (s *Shard) Record() storage.ShardRecord {
	return storage.ShardRecord{ID: s.id, Name: s.name, MinimumTerrestrialLux: s.MinimumTerrestrialLux}
}
