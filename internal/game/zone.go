package game

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/storage"
)

// TimeOfDay is the broad period of the day at a zone.
type TimeOfDay int

const (
	Dawn TimeOfDay = iota
	Morning
	Afternoon
	Dusk
	Night
)

var timeOfDayNames = map[TimeOfDay]string{
	Dawn:      "dawn",
	Morning:   "morning",
	Afternoon: "afternoon",
	Dusk:      "dusk",
	Night:     "night",
}

func (t TimeOfDay) String() string {
	if s, ok := timeOfDayNames[t]; ok {
		return s
	}
	return fmt.Sprintf("timeofday(%d)", int(t))
}

func (t TimeOfDay) Title() string {
	return titleCaser.String(t.String())
}

func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	s = strings.ToLower(s)
	for t, name := range timeOfDayNames {
		if name == s {
			return t, true
		}
	}
	return Night, false
}

const (
	// daylightElevation is the sun elevation in radians above which it is day.
	daylightElevation = 0.05
	// nightElevation is twelve degrees below the horizon.
	nightElevation = -0.20944
)

// TimeOfDayFor classifies a sun elevation angle.
func TimeOfDayFor(elevation float64, ascending bool) TimeOfDay {
	switch {
	case elevation > daylightElevation:
		if ascending {
			return Morning
		}
		return Afternoon
	case elevation < nightElevation:
		return Night
	case ascending:
		return Dawn
	default:
		return Dusk
	}
}

// Zone is a geographic region of rooms sharing weather, light and timezones.
type Zone struct {
	world *World
	id    int64
	name  string
	shard *Shard

	Geography             celestial.Geography
	AmbientLightPollution float64
	WeatherController     WeatherController

	timezones map[int64]celestial.Timezone

	rooms    []*Room
	contents contentView

	lightLevel    float64
	celestialSubs []func()

	changed bool
}

func newZone(w *World, id int64, name string, shard *Shard) *Zone {
	return &Zone{
		world:     w,
		id:        id,
		name:      name,
		shard:     shard,
		timezones: make(map[int64]celestial.Timezone),
		contents:  newContentView(),
	}
}

func (z *Zone) ID() int64               { return z.id }
func (z *Zone) Name() string            { return z.name }
func (z *Zone) Shard() *Shard           { return z.shard }
func (z *Zone) Rooms() []*Room          { return slices.Clone(z.rooms) }
func (z *Zone) Items() []Item           { return z.contents.Items() }
func (z *Zone) Characters() []Character { return z.contents.Characters() }

func (z *Zone) SetName(name string) {
	z.name = name
	z.markChanged()
}

// Cells returns every cell in the zone.
func (z *Zone) Cells() []*Cell {
	var out []*Cell
	for _, r := range z.rooms {
		out = append(out, r.cells...)
	}
	return out
}

func (z *Zone) itemAdded(it Item) {
	z.contents.addItem(it)
	if z.shard != nil {
		z.shard.itemAdded(it)
	}
}

func (z *Zone) itemRemoved(it Item) {
	z.contents.removeItem(it)
	if z.shard != nil {
		z.shard.itemRemoved(it)
	}
}

func (z *Zone) characterAdded(ch Character) {
	z.contents.addCharacter(ch)
	if z.shard != nil {
		z.shard.characterAdded(ch)
	}
}

func (z *Zone) characterRemoved(ch Character) {
	z.contents.removeCharacter(ch)
	if z.shard != nil {
		z.shard.characterRemoved(ch)
	}
}

func (z *Zone) registerRoom(r *Room) {
	if !slices.Contains(z.rooms, r) {
		z.rooms = append(z.rooms, r)
	}
	if z.shard != nil {
		z.shard.indexRoom(r)
	}
}

func (z *Zone) unregisterRoom(r *Room) {
	z.rooms = slices.DeleteFunc(z.rooms, func(x *Room) bool { return x == r })
	if z.shard != nil {
		z.shard.unindexRoom(r)
	}
}

// Timezone is the zone's timezone for a clock.
func (z *Zone) Timezone(clockID int64) (celestial.Timezone, bool) {
	tz, ok := z.timezones[clockID]
	return tz, ok
}

func (z *Zone) SetTimezone(clockID int64, tz celestial.Timezone) {
	z.timezones[clockID] = tz
	z.markChanged()
}

// LocalTime is the clock's time in the zone's timezone.
func (z *Zone) LocalTime(c *celestial.Clock) celestial.Time {
	return c.LocalTime(z.timezones[c.ID()])
}

// PrimaryClock is the first clock of the shard.
func (z *Zone) PrimaryClock() (*celestial.Clock, bool) {
	if z.shard == nil || len(z.shard.clocks) == 0 {
		return nil, false
	}
	return z.shard.clocks[0], true
}

// CurrentTimeOfDay is derived from the first celestial of the shard.
func (z *Zone) CurrentTimeOfDay() (TimeOfDay, bool) {
	if z.shard == nil || len(z.shard.celestials) == 0 {
		return Night, false
	}
	sun := z.shard.celestials[0]
	return TimeOfDayFor(sun.ElevationAngle(z.Geography), sun.IsAscending(z.Geography)), true
}

// CurrentSeason is the season of the shard's first calendar at this zone.
func (z *Zone) CurrentSeason() (celestial.Season, bool) {
	clock, ok := z.PrimaryClock()
	if !ok || len(z.shard.calendars) == 0 {
		return celestial.Spring, false
	}
	return z.shard.calendars[0].SeasonFor(z.LocalTime(clock).Day, z.Geography.Latitude), true
}

// CurrentLightLevel is the ambient light as of the last celestial update.
func (z *Zone) CurrentLightLevel() float64 {
	return z.lightLevel
}

// RecalculateLightLevel sums light pollution, celestial light and zone-wide
// area light effects.
func (z *Zone) RecalculateLightLevel() {
	lux := z.AmbientLightPollution
	if z.shard != nil {
		for _, c := range z.shard.celestials {
			lux += c.CurrentIllumination(z.Geography)
		}
	}
	for _, c := range z.Cells() {
		lux += c.Effects.AddedLight(true)
	}
	z.lightLevel = lux
}

// subscribeCelestials recalculates light whenever a celestial moves.
func (z *Zone) subscribeCelestials() {
	z.unsubscribeCelestials()
	if z.shard == nil {
		return
	}
	for _, c := range z.shard.celestials {
		z.celestialSubs = append(z.celestialSubs, c.Subscribe(z.RecalculateLightLevel))
	}
	z.RecalculateLightLevel()
}

func (z *Zone) unsubscribeCelestials() {
	for _, unsub := range z.celestialSubs {
		unsub()
	}
	z.celestialSubs = nil
}

// SetWeatherController changes the zone weather and resubscribes its cells.
func (z *Zone) SetWeatherController(wc WeatherController) {
	z.WeatherController = wc
	for _, c := range z.Cells() {
		c.SubscribeWeather()
	}
	z.markChanged()
}

// CalculateCoordinates lays out the zone's rooms by walking exits outward
// from start, which keeps its own coordinates. It returns how many rooms
// were placed.
func (z *Zone) CalculateCoordinates(start *Room) int {
	if start == nil || start.zone != z {
		return 0
	}
	placed := map[*Room]bool{start: true}
	queue := []*Room{start}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, c := range r.cells {
			for _, e := range z.world.Exits.ExitsFor(c) {
				dest := e.Destination(c)
				if dest == nil || dest.room == nil || dest.room.zone != z || placed[dest.room] {
					continue
				}
				dx, dy, dz := e.DirectionFrom(c).Offset()
				dest.room.SetCoordinates(r.X+dx, r.Y+dy, r.Z+dz)
				placed[dest.room] = true
				queue = append(queue, dest.room)
			}
		}
	}
	slog.Info("calculated zone coordinates", "zone", z.id, "rooms", len(placed))
	return len(placed)
}

func (z *Zone) markChanged() {
	z.changed = true
	z.world.Saves.Add(z)
}

func (z *Zone) SaveKey() string {
	return fmt.Sprintf("zone:%d", z.id)
}

func (z *Zone) Save(tx *storage.Tx) error {
	return tx.SaveZone(z.Record())
}

func (z *Zone) Saved() {
	z.changed = false
}

func (z *Zone) Record() storage.ZoneRecord {
	r := storage.ZoneRecord{
		ID:                    z.id,
		Name:                  z.name,
		Latitude:              z.Geography.Latitude,
		Longitude:             z.Geography.Longitude,
		Elevation:             z.Geography.Elevation,
		AmbientLightPollution: z.AmbientLightPollution,
	}
	if z.shard != nil {
		r.ShardID = z.shard.ID()
	}
	if z.WeatherController != nil {
		r.WeatherControllerID = z.WeatherController.ID()
	}
	for _, clockID := range sortedKeys(z.timezones) {
		tz := z.timezones[clockID]
		r.Timezones = append(r.Timezones, storage.TimezoneRecord{ClockID: clockID, Name: tz.Name, Offset: tz.Offset})
	}
	return r
}
