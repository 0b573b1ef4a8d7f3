package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/storage"
)

// ItemFactory builds the runtime item for a stored row.
type ItemFactory func(storage.ItemRecord) Item

// ItemRecorder items can be written back to the items table.
type ItemRecorder interface {
	Record() storage.ItemRecord
}

// Load populates an empty world from data. Only terrains that lose a
// duplicate default flag are marked for saving afterwards.
func (w *World) Load(ctx context.Context, data *storage.WorldData, items ItemFactory) error {
	for _, r := range data.Fluids {
		w.Fluids.Add(NewFluid(r))
	}
	for _, r := range data.RangedCovers {
		w.Covers.Add(NewRangedCover(r))
	}
	for _, r := range data.ForagableProfiles {
		w.ForagableProfiles.Add(NewForagableProfile(r))
	}
	for _, r := range data.WeatherControllers {
		w.WeatherControllers.Add(newWeatherController(r))
	}
	for _, r := range data.Terrains {
		t, err := terrainFromRecord(w, r)
		if err != nil {
			return err
		}
		w.Terrains.Add(t)
	}
	if w.Terrains.Len() > 0 {
		def, err := w.RequireDefaultTerrain()
		if err != nil {
			return fmt.Errorf("loading terrains: %w", err)
		}
		for _, t := range w.Terrains.All() {
			if t != def && t.DefaultTerrain {
				slog.WarnContext(ctx, "clearing extra default terrain", "terrain", t.ID(), "default", def.ID())
				t.DefaultTerrain = false
				t.markChanged(w.Saves)
			}
		}
	}

	if err := w.loadSky(data); err != nil {
		return err
	}
	if err := w.loadZones(data); err != nil {
		return err
	}

	for _, r := range data.OverlayPackages {
		p := &OverlayPackage{key: PackageKey{ID: r.ID, Revision: r.Revision}, name: r.Name, status: RevisionStatus(r.Status)}
		w.packages[p.key] = p
	}

	cellRecords := make(map[int64]storage.CellRecord, len(data.Cells))
	for _, r := range data.Cells {
		room, ok := w.Rooms.Get(r.RoomID)
		if !ok {
			return fmt.Errorf("cell %d: room %d: %w", r.ID, r.RoomID, ErrNotFound)
		}
		c, err := cellFromRecord(w, room, r)
		if err != nil {
			return err
		}
		w.Cells.Add(c)
		room.addCell(c)
		cellRecords[r.ID] = r
	}

	for _, r := range data.Overlays {
		cell, ok := w.Cells.Get(r.CellID)
		if !ok {
			return fmt.Errorf("overlay %d: cell %d: %w", r.ID, r.CellID, ErrNotFound)
		}
		o, err := overlayFromRecord(w, cell, r)
		if err != nil {
			return err
		}
		w.registerOverlay(o)
	}
	for _, c := range w.Cells.All() {
		if err := c.attachCurrentOverlay(cellRecords[c.id].CurrentOverlayID); err != nil {
			return err
		}
	}

	for _, r := range data.Exits {
		e, err := exitFromRecord(w, r)
		if err != nil {
			return err
		}
		w.Exits.add(e)
	}

	if err := w.loadAreas(data); err != nil {
		return err
	}
	if err := w.loadItems(data, cellRecords, items); err != nil {
		return err
	}

	for _, c := range w.Cells.All() {
		c.SubscribeWeather()
		c.CheckFallExitStatus()
		c.checkForageStatus()
	}
	for _, z := range w.Zones.All() {
		z.subscribeCelestials()
	}
	w.Saves.Discard()

	slog.InfoContext(ctx, "world loaded",
		"terrains", w.Terrains.Len(),
		"zones", w.Zones.Len(),
		"rooms", w.Rooms.Len(),
		"cells", w.Cells.Len(),
		"packages", len(w.packages),
		"items", w.Items.Len())
	return nil
}

func (w *World) loadSky(data *storage.WorldData) error {
	for _, r := range data.Shards {
		s := newShard(w, r.ID, r.Name)
		s.MinimumTerrestrialLux = r.MinimumTerrestrialLux
		w.Shards.Add(s)
	}
	for _, r := range data.Clocks {
		s, ok := w.Shards.Get(r.ShardID)
		if !ok {
			return fmt.Errorf("clock %d: shard %d: %w", r.ID, r.ShardID, ErrNotFound)
		}
		c := celestial.NewClock(r.ID, r.Name, r.DaysPerYear, celestial.Time{Year: r.Year, Day: r.Day, Minute: r.Minute})
		s.addClock(c)
		w.clocks[r.ID] = &clockEntry{clock: c, shard: s.id}
	}
	for _, r := range data.Calendars {
		s, ok := w.Shards.Get(r.ShardID)
		if !ok {
			return fmt.Errorf("calendar %d: shard %d: %w", r.ID, r.ShardID, ErrNotFound)
		}
		s.addCalendar(&celestial.Calendar{ID: r.ID, Name: r.Name, DaysPerYear: r.DaysPerYear})
	}
	for _, r := range data.Celestials {
		s, ok := w.Shards.Get(r.ShardID)
		if !ok {
			return fmt.Errorf("celestial %d: shard %d: %w", r.ID, r.ShardID, ErrNotFound)
		}
		e, ok := w.clocks[r.ClockID]
		if !ok {
			return fmt.Errorf("celestial %d: clock %d: %w", r.ID, r.ClockID, ErrNotFound)
		}
		s.AddCelestial(celestial.NewSun(r.ID, r.Name, e.clock, r.PeakIlluminance))
		w.celestials[r.ID] = r
	}
	return nil
}

func (w *World) loadZones(data *storage.WorldData) error {
	for _, r := range data.Zones {
		s, ok := w.Shards.Get(r.ShardID)
		if !ok {
			return fmt.Errorf("zone %d: shard %d: %w", r.ID, r.ShardID, ErrNotFound)
		}
		z := newZone(w, r.ID, r.Name, s)
		z.Geography = celestial.Geography{Latitude: r.Latitude, Longitude: r.Longitude, Elevation: r.Elevation}
		z.AmbientLightPollution = r.AmbientLightPollution
		if r.WeatherControllerID != 0 {
			wc, ok := w.WeatherControllers.Get(r.WeatherControllerID)
			if !ok {
				return fmt.Errorf("zone %d: weather controller %d: %w", r.ID, r.WeatherControllerID, ErrNotFound)
			}
			z.WeatherController = wc
		}
		for _, tz := range r.Timezones {
			z.timezones[tz.ClockID] = celestial.Timezone{Name: tz.Name, Offset: tz.Offset}
		}
		w.Zones.Add(z)
		s.addZone(z)
	}
	for _, r := range data.Rooms {
		z, ok := w.Zones.Get(r.ZoneID)
		if !ok {
			return fmt.Errorf("room %d: zone %d: %w", r.ID, r.ZoneID, ErrNotFound)
		}
		room := newRoom(w, r.ID, z, r.X, r.Y, r.Z)
		w.Rooms.Add(room)
		z.registerRoom(room)
	}
	return nil
}

func (w *World) loadAreas(data *storage.WorldData) error {
	for _, r := range data.Areas {
		a := newArea(w, r.ID, r.Name)
		if r.WeatherControllerID != 0 {
			wc, ok := w.WeatherControllers.Get(r.WeatherControllerID)
			if !ok {
				return fmt.Errorf("area %d: weather controller %d: %w", r.ID, r.WeatherControllerID, ErrNotFound)
			}
			a.WeatherController = wc
		}
		for _, id := range r.RoomIDs {
			room, ok := w.Rooms.Get(id)
			if !ok {
				return fmt.Errorf("area %d: room %d: %w", r.ID, id, ErrNotFound)
			}
			a.rooms = append(a.rooms, room)
			room.areas = append(room.areas, a)
			for _, c := range room.cells {
				a.watchCell(c)
			}
		}
		w.Areas.Add(a)
	}
	return nil
}

func (w *World) loadItems(data *storage.WorldData, cells map[int64]storage.CellRecord, factory ItemFactory) error {
	if factory == nil {
		if len(data.Items) > 0 {
			return fmt.Errorf("loading %d items: no item factory", len(data.Items))
		}
		return nil
	}
	for _, r := range data.Items {
		w.Items.Add(factory(r))
	}
	for _, id := range sortedKeys(cells) {
		c, _ := w.Cells.Get(id)
		for _, content := range cells[id].Contents {
			it, ok := w.Items.Get(content.ItemID)
			if !ok {
				return fmt.Errorf("cell %d: item %d: %w", id, content.ItemID, ErrNotFound)
			}
			it.SetLayer(RoomLayer(content.Layer))
			if err := c.Insert(it); err != nil {
				return err
			}
		}
	}
	return nil
}

// attachCurrentOverlay selects the stored current overlay once every
// overlay of the cell is registered.
func (c *Cell) attachCurrentOverlay(id int64) error {
	for _, o := range c.overlays {
		if o.id == id {
			c.current = o
			return nil
		}
	}
	if len(c.overlays) == 0 {
		return fmt.Errorf("cell %d has no overlays", c.id)
	}
	return fmt.Errorf("cell %d: current overlay %d: %w", c.id, id, ErrNotFound)
}

// Export converts the whole world back to rows, for snapshots.
func (w *World) Export() (*storage.WorldData, error) {
	data := &storage.WorldData{}
	for _, f := range w.Fluids.All() {
		data.Fluids = append(data.Fluids, f.Record())
	}
	for _, c := range w.Covers.All() {
		data.RangedCovers = append(data.RangedCovers, c.Record())
	}
	for _, p := range w.ForagableProfiles.All() {
		data.ForagableProfiles = append(data.ForagableProfiles, p.Record())
	}
	for _, wc := range w.WeatherControllers.All() {
		data.WeatherControllers = append(data.WeatherControllers, weatherControllerRecord(wc))
	}
	for _, t := range w.Terrains.All() {
		data.Terrains = append(data.Terrains, t.Record())
	}
	for _, s := range w.Shards.All() {
		data.Shards = append(data.Shards, s.Record())
		for _, cal := range s.calendars {
			data.Calendars = append(data.Calendars, storage.CalendarRecord{ID: cal.ID, ShardID: s.id, Name: cal.Name, DaysPerYear: cal.DaysPerYear})
		}
	}
	for _, id := range sortedKeys(w.clocks) {
		data.Clocks = append(data.Clocks, w.clocks[id].Record())
	}
	for _, id := range sortedKeys(w.celestials) {
		data.Celestials = append(data.Celestials, w.celestials[id])
	}
	for _, z := range w.Zones.All() {
		data.Zones = append(data.Zones, z.Record())
	}
	for _, r := range w.Rooms.All() {
		data.Rooms = append(data.Rooms, r.Record())
	}
	for _, c := range w.Cells.All() {
		rec, err := c.Record()
		if err != nil {
			return nil, err
		}
		data.Cells = append(data.Cells, rec)
	}
	for _, p := range w.Packages() {
		data.OverlayPackages = append(data.OverlayPackages, p.Record())
		for _, o := range w.OverlaysFor(p.key) {
			data.Overlays = append(data.Overlays, o.Record())
		}
	}
	for _, e := range w.Exits.All() {
		data.Exits = append(data.Exits, e.Record())
	}
	for _, a := range w.Areas.All() {
		data.Areas = append(data.Areas, a.Record())
	}
	for _, it := range w.Items.All() {
		if r, ok := TryGetCapability[ItemRecorder](it); ok {
			data.Items = append(data.Items, r.Record())
		}
	}
	return data, nil
}
