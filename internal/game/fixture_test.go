package game

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/heartbeat"
	"github.com/futuremud/futuremud/internal/storage"
)

type testItem struct {
	id       int64
	name     string
	layer    RoomLayer
	loc      *Cell
	weight   float64
	density  float64
	anchored bool
	light    float64
}

func (i *testItem) ID() int64             { return i.id }
func (i *testItem) Name() string          { return i.name }
func (i *testItem) Layer() RoomLayer      { return i.layer }
func (i *testItem) SetLayer(l RoomLayer)  { i.layer = l }
func (i *testItem) Location() *Cell       { return i.loc }
func (i *testItem) SetLocation(c *Cell)   { i.loc = c }
func (i *testItem) Weight() float64       { return i.weight }
func (i *testItem) Density() float64      { return i.density }
func (i *testItem) Anchored() bool        { return i.anchored }
func (i *testItem) Illumination() float64 { return i.light }
func (i *testItem) Record() storage.ItemRecord {
	return storage.ItemRecord{ID: i.id, Name: i.name, Weight: i.weight, Density: i.density, Light: i.light, Anchored: i.anchored}
}

func itemFromRecord(r storage.ItemRecord) Item {
	return &testItem{id: r.ID, name: r.Name, weight: r.Weight, density: r.Density, light: r.Light, anchored: r.Anchored}
}

type testCharacter struct {
	id      int64
	name    string
	layer   RoomLayer
	loc     *Cell
	msgs    []string
	preview *PackageKey
	admin   bool
	flier   bool
	resist  bool
	ended   bool
}

func (c *testCharacter) ID() int64            { return c.id }
func (c *testCharacter) Name() string         { return c.name }
func (c *testCharacter) Layer() RoomLayer     { return c.layer }
func (c *testCharacter) SetLayer(l RoomLayer) { c.layer = l }
func (c *testCharacter) Location() *Cell      { return c.loc }
func (c *testCharacter) SetLocation(l *Cell)  { c.loc = l }
func (c *testCharacter) Send(msg string)      { c.msgs = append(c.msgs, msg) }
func (c *testCharacter) IsAdministrator() bool {
	return c.admin
}
func (c *testCharacter) CanFly() bool                       { return c.flier }
func (c *testCharacter) AvoidFallDueToWind(Difficulty) bool { return c.resist }
func (c *testCharacter) EndCombat()                         { c.ended = true }

func (c *testCharacter) PreviewPackage() (PackageKey, bool) {
	if c.preview == nil {
		return PackageKey{}, false
	}
	return *c.preview, true
}

// fixture is a world with one shard, zone, package and a single-cell room.
type fixture struct {
	ctx     context.Context
	w       *World
	hb      *heartbeat.Manager
	terrain *Terrain
	shard   *Shard
	zone    *Zone
	pkg     *OverlayPackage
	room    *Room
	cell    *Cell
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DriverSQLite, filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	hb := heartbeat.NewManager()
	w, err := NewWorld(db, WithHeartbeat(hb))
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	t.Cleanup(w.Stop)

	f := &fixture{ctx: ctx, w: w, hb: hb}
	f.terrain = f.mustTerrain(t, "grassland")
	if f.shard, err = w.CreateShard(ctx, "prime"); err != nil {
		t.Fatalf("creating shard: %v", err)
	}
	if f.zone, err = w.CreateZone(ctx, f.shard, "meadows", celestial.Geography{}); err != nil {
		t.Fatalf("creating zone: %v", err)
	}
	if f.pkg, err = w.CreatePackage(ctx, "initial"); err != nil {
		t.Fatalf("creating package: %v", err)
	}
	f.room, f.cell = f.mustRoom(t, 0, 0, 0)
	return f
}

func (f *fixture) mustTerrain(t *testing.T, name string) *Terrain {
	t.Helper()
	tr, err := f.w.CreateTerrain(f.ctx, name)
	if err != nil {
		t.Fatalf("creating terrain: %v", err)
	}
	return tr
}

func (f *fixture) mustRoom(t *testing.T, x, y, z int) (*Room, *Cell) {
	t.Helper()
	r, c, err := f.w.CreateRoom(f.ctx, f.zone, f.pkg, x, y, z)
	if err != nil {
		t.Fatalf("creating room: %v", err)
	}
	return r, c
}

func (f *fixture) mustFlush(t *testing.T) {
	t.Helper()
	if err := f.w.Saves.Flush(f.ctx); err != nil {
		t.Fatalf("flushing: %v", err)
	}
}

// reload reads the database into a fresh world sharing nothing with f.w.
func (f *fixture) reload(t *testing.T) *World {
	t.Helper()
	f.mustFlush(t)
	data, err := f.w.db.Load(f.ctx)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	w, err := NewWorld(f.w.db, WithHeartbeat(heartbeat.NewManager()))
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	t.Cleanup(w.Stop)
	if err := w.Load(f.ctx, data, itemFromRecord); err != nil {
		t.Fatalf("loading world: %v", err)
	}
	return w
}
