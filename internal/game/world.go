package game

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/effects"
	"github.com/futuremud/futuremud/internal/heartbeat"
	"github.com/futuremud/futuremud/internal/storage"
	"github.com/futuremud/futuremud/internal/tuning"
	"github.com/futuremud/futuremud/internal/weather"
)

const (
	DefaultFlushInterval = time.Minute
	defaultMarkupEntries = 4096
)

// Ticker is driven by the MudDriver on every tick.
type Ticker interface {
	Tick(context.Context) error
}

// World owns every registry and is the single point of mutation. Callers
// outside the game loop must go through Do.
type World struct {
	mu sync.Mutex

	db        *storage.DB
	tuning    *tuning.Tuning
	heartbeat Heartbeat
	shops     ShopLookup
	markup    *MarkupCache
	publisher Publisher
	scheduler *effects.Scheduler

	Saves *SaveManager
	Exits *ExitManager

	Fluids             *Registry[*Fluid]
	Covers             *Registry[*RangedCover]
	ForagableProfiles  *Registry[*ForagableProfile]
	WeatherControllers *Registry[WeatherController]
	Terrains           *Registry[*Terrain]
	Shards             *Registry[*Shard]
	Zones              *Registry[*Zone]
	Rooms              *Registry[*Room]
	Cells              *Registry[*Cell]
	Areas              *Registry[*Area]
	Items              *Registry[Item]
	Characters         *Registry[Character]

	packages map[PackageKey]*OverlayPackage
	overlays map[PackageKey]map[int64]*CellOverlay

	clocks     map[int64]*clockEntry
	celestials map[int64]storage.CelestialRecord

	fallbackTerrain *Terrain
	flushInterval   time.Duration
	lastFlush       time.Time
	unsubs          []func()
}

type WorldOpt func(*World)

func WithTuning(t *tuning.Tuning) WorldOpt {
	return func(w *World) { w.tuning = t }
}

func WithHeartbeat(h Heartbeat) WorldOpt {
	return func(w *World) { w.heartbeat = h }
}

func WithShops(s ShopLookup) WorldOpt {
	return func(w *World) { w.shops = s }
}

func WithPublisher(p Publisher) WorldOpt {
	return func(w *World) { w.publisher = p }
}

func WithScheduler(s *effects.Scheduler) WorldOpt {
	return func(w *World) { w.scheduler = s }
}

func WithMarkupCache(m *MarkupCache) WorldOpt {
	return func(w *World) { w.markup = m }
}

func WithFlushInterval(d time.Duration) WorldOpt {
	return func(w *World) { w.flushInterval = d }
}

// NewWorld creates an empty world over db.
func NewWorld(db *storage.DB, opts ...WorldOpt) (*World, error) {
	w := &World{
		db:                 db,
		Saves:              NewSaveManager(db),
		Fluids:             NewRegistry[*Fluid](),
		Covers:             NewRegistry[*RangedCover](),
		ForagableProfiles:  NewRegistry[*ForagableProfile](),
		WeatherControllers: NewRegistry[WeatherController](),
		Terrains:           NewRegistry[*Terrain](),
		Shards:             NewRegistry[*Shard](),
		Zones:              NewRegistry[*Zone](),
		Rooms:              NewRegistry[*Room](),
		Cells:              NewRegistry[*Cell](),
		Areas:              NewRegistry[*Area](),
		Items:              NewRegistry[Item](),
		Characters:         NewRegistry[Character](),
		packages:           make(map[PackageKey]*OverlayPackage),
		overlays:           make(map[PackageKey]map[int64]*CellOverlay),
		clocks:             make(map[int64]*clockEntry),
		celestials:         make(map[int64]storage.CelestialRecord),
		fallbackTerrain:    NewTerrain(0, "void"),
		flushInterval:      DefaultFlushInterval,
	}
	w.Exits = newExitManager(w)

	for _, opt := range opts {
		opt(w)
	}

	if w.tuning == nil {
		w.tuning = tuning.Default()
	}
	if w.heartbeat == nil {
		w.heartbeat = heartbeat.NewManager()
	}
	if w.scheduler == nil {
		w.scheduler = effects.NewScheduler()
	}
	if w.markup == nil {
		m, err := NewMarkupCache(defaultMarkupEntries)
		if err != nil {
			return nil, err
		}
		w.markup = m
	}
	return w, nil
}

func (w *World) Tuning() *tuning.Tuning        { return w.tuning }
func (w *World) Scheduler() *effects.Scheduler { return w.scheduler }
func (w *World) Publisher() Publisher          { return w.publisher }
func (w *World) DB() *storage.DB               { return w.db }

// Do runs fn holding the world lock.
func (w *World) Do(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn()
}

// DefaultTerrain is the terrain flagged default, or a bare outdoors
// terrain when none is.
func (w *World) DefaultTerrain() *Terrain {
	if t, err := w.RequireDefaultTerrain(); err == nil {
		return t
	}
	return w.fallbackTerrain
}

// RequireDefaultTerrain returns ErrNoDefaultTerrain if no terrain is flagged.
func (w *World) RequireDefaultTerrain() (*Terrain, error) {
	for _, t := range w.Terrains.All() {
		if t.DefaultTerrain {
			return t, nil
		}
	}
	return nil, ErrNoDefaultTerrain
}

// Package returns the package revision with key.
func (w *World) Package(key PackageKey) (*OverlayPackage, bool) {
	p, ok := w.packages[key]
	return p, ok
}

// Packages returns every package revision ordered by id then revision.
func (w *World) Packages() []*OverlayPackage {
	out := make([]*OverlayPackage, 0, len(w.packages))
	for _, p := range w.packages {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *OverlayPackage) int {
		if c := cmp.Compare(a.key.ID, b.key.ID); c != 0 {
			return c
		}
		return cmp.Compare(a.key.Revision, b.key.Revision)
	})
	return out
}

// PackageRevisions returns every revision of a package id, oldest first.
func (w *World) PackageRevisions(id int64) []*OverlayPackage {
	var out []*OverlayPackage
	for _, p := range w.Packages() {
		if p.key.ID == id {
			out = append(out, p)
		}
	}
	return out
}

// OverlaysFor returns the overlays of a package revision in cell order.
func (w *World) OverlaysFor(key PackageKey) []*CellOverlay {
	byCell := w.overlays[key]
	out := make([]*CellOverlay, 0, len(byCell))
	for _, id := range sortedKeys(byCell) {
		out = append(out, byCell[id])
	}
	return out
}

func (w *World) registerOverlay(o *CellOverlay) {
	key := o.pkg.Key()
	if w.overlays[key] == nil {
		w.overlays[key] = make(map[int64]*CellOverlay)
	}
	w.overlays[key][o.cell.ID()] = o
	o.cell.addOverlay(o)
}

func (w *World) unregisterOverlay(o *CellOverlay) {
	key := o.pkg.Key()
	delete(w.overlays[key], o.cell.ID())
	if len(w.overlays[key]) == 0 {
		delete(w.overlays, key)
	}
}

// ApplyPackage makes pkg the current overlay of every cell it covers.
func (w *World) ApplyPackage(pkg *OverlayPackage) int {
	n := 0
	for _, o := range w.OverlaysFor(pkg.Key()) {
		if o.cell.SetCurrentOverlay(pkg) {
			n++
		}
	}
	return n
}

func (w *World) refreshForage() {
	for _, c := range w.Cells.All() {
		c.checkForageStatus()
	}
}

func (w *World) resubscribeWeather() {
	for _, c := range w.Cells.All() {
		c.SubscribeWeather()
	}
}

// CreatePackage starts a new package at revision zero, under design.
func (w *World) CreatePackage(ctx context.Context, name string) (*OverlayPackage, error) {
	id, err := w.db.NextID(ctx, "overlay_packages")
	if err != nil {
		return nil, fmt.Errorf("allocating package id: %w", err)
	}
	p := &OverlayPackage{key: PackageKey{ID: id}, name: name, status: UnderDesign}
	err = w.db.Tx(ctx, func(tx *storage.Tx) error {
		return tx.SaveOverlayPackage(p.Record())
	})
	if err != nil {
		return nil, fmt.Errorf("inserting package %d: %w", id, err)
	}
	w.packages[p.key] = p
	slog.Info("overlay package created", "package", id, "name", name)
	return p, nil
}

// CreateTerrain adds an outdoors terrain with neutral modifiers.
func (w *World) CreateTerrain(ctx context.Context, name string) (*Terrain, error) {
	if _, ok := w.Terrains.GetByIDOrName(name); ok {
		return nil, NewUserError(fmt.Sprintf("There is already a terrain called %s.", name))
	}
	id, err := w.db.NextID(ctx, "terrains")
	if err != nil {
		return nil, fmt.Errorf("allocating terrain id: %w", err)
	}
	t := NewTerrain(id, name)
	if w.Terrains.Len() == 0 {
		t.DefaultTerrain = true
	}
	err = w.db.Tx(ctx, func(tx *storage.Tx) error {
		return tx.SaveTerrain(t.Record())
	})
	if err != nil {
		return nil, fmt.Errorf("inserting terrain %d: %w", id, err)
	}
	w.Terrains.Add(t)
	return t, nil
}

// CreateShard adds a new plane of existence.
func (w *World) CreateShard(ctx context.Context, name string) (*Shard, error) {
	id, err := w.db.NextID(ctx, "shards")
	if err != nil {
		return nil, fmt.Errorf("allocating shard id: %w", err)
	}
	s := newShard(w, id, name)
	err = w.db.Tx(ctx, func(tx *storage.Tx) error {
		return tx.SaveShard(s.Record())
	})
	if err != nil {
		return nil, fmt.Errorf("inserting shard %d: %w", id, err)
	}
	w.Shards.Add(s)
	return s, nil
}

// CreateZone adds a zone to a shard.
func (w *World) CreateZone(ctx context.Context, shard *Shard, name string, geo celestial.Geography) (*Zone, error) {
	id, err := w.db.NextID(ctx, "zones")
	if err != nil {
		return nil, fmt.Errorf("allocating zone id: %w", err)
	}
	z := newZone(w, id, name, shard)
	z.Geography = geo
	err = w.db.Tx(ctx, func(tx *storage.Tx) error {
		return tx.SaveZone(z.Record())
	})
	if err != nil {
		return nil, fmt.Errorf("inserting zone %d: %w", id, err)
	}
	w.Zones.Add(z)
	shard.addZone(z)
	z.subscribeCelestials()
	return z, nil
}

// CreateRoom adds a room at a coordinate with one cell whose overlay
// belongs to pkg.
func (w *World) CreateRoom(ctx context.Context, zone *Zone, pkg *OverlayPackage, x, y, z int) (*Room, *Cell, error) {
	id, err := w.db.NextID(ctx, "rooms")
	if err != nil {
		return nil, nil, fmt.Errorf("allocating room id: %w", err)
	}
	r := newRoom(w, id, zone, x, y, z)
	err = w.db.Tx(ctx, func(tx *storage.Tx) error {
		return tx.SaveRoom(r.Record())
	})
	if err != nil {
		return nil, nil, fmt.Errorf("inserting room %d: %w", id, err)
	}
	w.Rooms.Add(r)
	zone.registerRoom(r)

	c, err := w.CreateCell(ctx, r, pkg, false)
	if err != nil {
		return r, nil, err
	}
	return r, c, nil
}

// CreateCell adds a cell to a room with a fresh overlay in pkg using the
// default terrain.
func (w *World) CreateCell(ctx context.Context, room *Room, pkg *OverlayPackage, temporary bool) (*Cell, error) {
	terrain, err := w.RequireDefaultTerrain()
	if err != nil {
		return nil, fmt.Errorf("creating cell: %w", err)
	}
	cellID, err := w.db.NextID(ctx, "cells")
	if err != nil {
		return nil, fmt.Errorf("allocating cell id: %w", err)
	}
	overlayID, err := w.db.NextID(ctx, "cell_overlays")
	if err != nil {
		return nil, fmt.Errorf("allocating overlay id: %w", err)
	}

	c := newCell(w, cellID, room)
	c.temporary = temporary
	o := &CellOverlay{
		id:                 overlayID,
		cell:               c,
		pkg:                pkg,
		Name:               "An Unnamed Cell",
		Description:        "An undescribed location.",
		Terrain:            terrain,
		OutdoorsType:       terrain.OutdoorsType,
		AmbientLightFactor: 1,
	}
	c.overlays = []*CellOverlay{o}
	c.current = o

	rec, err := c.Record()
	if err != nil {
		return nil, err
	}
	err = w.db.Tx(ctx, func(tx *storage.Tx) error {
		if err := tx.InsertCell(rec); err != nil {
			return err
		}
		return tx.SaveOverlay(o.Record())
	})
	if err != nil {
		return nil, fmt.Errorf("inserting cell %d: %w", cellID, err)
	}

	w.Cells.Add(c)
	w.registerOverlay(o)
	room.addCell(c)
	c.SubscribeWeather()
	c.CheckFallExitStatus()
	c.checkForageStatus()
	return c, nil
}

// CreateArea starts a new area seeded with one room.
func (w *World) CreateArea(ctx context.Context, name string, seed *Room) (*Area, error) {
	id, err := w.db.NextID(ctx, "areas")
	if err != nil {
		return nil, fmt.Errorf("allocating area id: %w", err)
	}
	a := newArea(w, id, name)
	a.rooms = []*Room{seed}
	err = w.db.Tx(ctx, func(tx *storage.Tx) error {
		return tx.SaveArea(a.Record())
	})
	if err != nil {
		return nil, fmt.Errorf("inserting area %d: %w", id, err)
	}
	a.rooms = nil
	w.Areas.Add(a)
	a.AddRoom(seed)
	w.Saves.Remove(a.SaveKey())
	return a, nil
}

// Start subscribes the world to the heartbeat.
func (w *World) Start() {
	w.unsubs = append(w.unsubs,
		w.heartbeat.Subscribe(heartbeat.OneMinute, w.advanceClocks),
		w.heartbeat.Subscribe(heartbeat.TenMinutes, w.weatherRoomTick),
		w.heartbeat.Subscribe(heartbeat.Hourly, w.advanceWeather),
	)
	for _, z := range w.Zones.All() {
		z.subscribeCelestials()
	}
	w.lastFlush = time.Now()
	slog.Info("world started",
		"zones", w.Zones.Len(),
		"rooms", w.Rooms.Len(),
		"cells", w.Cells.Len(),
		"terrains", w.Terrains.Len())
}

// Stop drops the heartbeat subscriptions.
func (w *World) Stop() {
	for _, fn := range w.unsubs {
		fn()
	}
	w.unsubs = nil
	w.markup.Close()
}

// Tick drives the heartbeat and flushes pending saves once the flush
// interval has passed. Save failures are logged and retried next flush.
func (w *World) Tick(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.heartbeat.(Ticker); ok {
		if err := t.Tick(ctx); err != nil {
			return err
		}
	}
	if time.Since(w.lastFlush) < w.flushInterval {
		return nil
	}
	w.lastFlush = time.Now()
	if err := w.Saves.Flush(ctx); err != nil {
		slog.WarnContext(ctx, "pending saves kept for retry", "error", err)
	}
	return nil
}

func (w *World) advanceClocks() {
	for _, id := range sortedKeys(w.clocks) {
		e := w.clocks[id]
		e.clock.Advance(1)
		w.Saves.Add(e)
	}
}

type advancer interface {
	Advance()
}

type roomTicker interface {
	RoomTick()
}

func (w *World) advanceWeather() {
	for _, wc := range w.WeatherControllers.All() {
		if a, ok := wc.(advancer); ok {
			a.Advance()
			w.Saves.Add(controllerSave{wc})
		}
	}
}

func (w *World) weatherRoomTick() {
	for _, wc := range w.WeatherControllers.All() {
		if rt, ok := wc.(roomTicker); ok {
			rt.RoomTick()
		}
	}
}

// AddWeatherController registers a controller and resubscribes every cell.
func (w *World) AddWeatherController(wc WeatherController) {
	w.WeatherControllers.Add(wc)
	w.Saves.Add(controllerSave{wc})
	w.resubscribeWeather()
}

// WeatherChanged queues a controller whose weather was set by hand.
func (w *World) WeatherChanged(wc WeatherController) {
	w.Saves.Add(controllerSave{wc})
}

type controllerSave struct {
	wc WeatherController
}

func (s controllerSave) SaveKey() string {
	return fmt.Sprintf("weather:%d", s.wc.ID())
}

func (s controllerSave) Save(tx *storage.Tx) error {
	return tx.SaveWeatherController(weatherControllerRecord(s.wc))
}

func (s controllerSave) Saved() {}

func weatherControllerRecord(wc WeatherController) storage.WeatherControllerRecord {
	st := wc.CurrentWeather()
	return storage.WeatherControllerRecord{
		ID:            wc.ID(),
		Name:          wc.Name(),
		Precipitation: int(st.Precipitation),
		Wind:          int(st.Wind),
		Temperature:   st.Temperature,
	}
}

func newWeatherController(r storage.WeatherControllerRecord) *weather.Controller {
	return weather.NewController(r.ID, r.Name, weather.State{
		Precipitation: weather.Precipitation(r.Precipitation),
		Wind:          weather.Wind(r.Wind),
		Temperature:   r.Temperature,
	}, r.ID)
}

// clockEntry remembers which shard a clock belongs to.
type clockEntry struct {
	clock *celestial.Clock
	shard int64
}

func (e *clockEntry) SaveKey() string {
	return fmt.Sprintf("clock:%d", e.clock.ID())
}

func (e *clockEntry) Save(tx *storage.Tx) error {
	return tx.SaveClock(e.Record())
}

func (e *clockEntry) Saved() {}

func (e *clockEntry) Record() storage.ClockRecord {
	now := e.clock.Now()
	return storage.ClockRecord{
		ID:          e.clock.ID(),
		ShardID:     e.shard,
		Name:        e.clock.Name(),
		DaysPerYear: e.clock.DaysPerYear(),
		Year:        now.Year,
		Day:         now.Day,
		Minute:      now.Minute,
	}
}

// AddItem registers an item. Items that can record themselves are queued
// for saving so cell contents can find them on the next load.
func (w *World) AddItem(it Item) {
	w.Items.Add(it)
	if r, ok := TryGetCapability[ItemRecorder](it); ok {
		w.Saves.Add(itemSave{r: r, id: it.ID()})
	}
}

type itemSave struct {
	r  ItemRecorder
	id int64
}

func (s itemSave) SaveKey() string {
	return fmt.Sprintf("item:%d", s.id)
}

func (s itemSave) Save(tx *storage.Tx) error {
	return tx.SaveItem(s.r.Record())
}

func (s itemSave) Saved() {}
