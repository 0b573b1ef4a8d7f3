package game

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/effects"
	"github.com/futuremud/futuremud/internal/storage"
	"github.com/futuremud/futuremud/internal/weather"
)

func TestCell_InsertExtract(t *testing.T) {
	f := newFixture(t)
	rock := &testItem{id: 1, name: "rock", layer: InTrees}
	bob := &testCharacter{id: 2, name: "Bob", layer: GroundLevel}

	if err := f.cell.Insert(rock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.cell.Enter(bob); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "snapped layer", rock.Layer(), GroundLevel)
	testutil.AssertEqual(t, "location", rock.Location() == f.cell, true)
	testutil.AssertEqual(t, "room items", len(f.room.Items()), 1)
	testutil.AssertEqual(t, "zone items", len(f.zone.Items()), 1)
	testutil.AssertEqual(t, "shard items", len(f.shard.Items()), 1)
	testutil.AssertEqual(t, "zone characters", len(f.zone.Characters()), 1)
	testutil.AssertEqual(t, "pending", f.cell.PendingChanges()&storage.CellContentsChanged != 0, true)

	err := f.cell.Insert(rock)
	if !errors.Is(err, ErrDuplicateContent) {
		t.Errorf("expected duplicate error, got %v", err)
	}

	if err := f.cell.Extract(rock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "location", rock.Location(), (*Cell)(nil))
	testutil.AssertEqual(t, "zone items", len(f.zone.Items()), 0)
	if err := f.cell.Extract(rock); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCell_Destroy(t *testing.T) {
	f := newFixture(t)
	_, other := f.mustRoom(t, 1, 0, 0)
	area, err := f.w.CreateArea(f.ctx, "valley", f.room)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := []*testItem{{id: 1, name: "rock"}, {id: 2, name: "stick"}}
	for _, it := range items {
		if err := f.cell.Insert(it); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	bob := &testCharacter{id: 3, name: "Bob"}
	if err := f.cell.Enter(bob); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	totalItems := len(f.zone.Items())
	totalChars := len(f.zone.Characters())

	if err := f.cell.Destroy(other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "zone items", len(f.zone.Items()), totalItems)
	testutil.AssertEqual(t, "zone characters", len(f.zone.Characters()), totalChars)
	testutil.AssertEqual(t, "fallback items", len(other.Items()), 2)
	testutil.AssertEqual(t, "fallback characters", len(other.Characters()), 1)
	testutil.AssertEqual(t, "bob location", bob.Location() == other, true)
	testutil.AssertEqual(t, "combat ended", bob.ended, true)
	testutil.AssertEqual(t, "destroyed", f.cell.IsDestroyed(), true)
	testutil.AssertEqual(t, "registered", func() bool { _, ok := f.w.Cells.Get(f.cell.ID()); return ok }(), false)
	testutil.AssertEqual(t, "area rooms", len(area.Rooms()), 0)
	testutil.AssertEqual(t, "weather subs", f.cell.WeatherSubscriptionCount(), 0)

	_, deferred := f.w.Saves.Pending()
	testutil.AssertEqual(t, "deferred", deferred, 1)
	f.mustFlush(t)
	_, deferred = f.w.Saves.Pending()
	testutil.AssertEqual(t, "deferred", deferred, 0)
}

func TestCell_DestroyInvalidFallback(t *testing.T) {
	f := newFixture(t)
	err := f.cell.Destroy(f.cell)
	testutil.AssertErrorContains(t, err, "fallback cell is not valid")
	testutil.AssertEqual(t, "destroyed", f.cell.IsDestroyed(), false)
}

func TestCell_WeatherEcho(t *testing.T) {
	f := newFixture(t)
	zoneWeather := weather.NewController(1, "temperate", weather.State{Temperature: 12}, 1)
	stormWeather := weather.NewController(2, "squall", weather.State{Temperature: 4}, 2)
	f.w.AddWeatherController(zoneWeather)
	f.w.AddWeatherController(stormWeather)
	f.zone.SetWeatherController(zoneWeather)

	storm := f.mustTerrain(t, "stormcoast")
	if _, err := storm.BuildingCommand(f.w, NewStringStack("weather squall")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, coastCell := f.mustRoom(t, 1, 0, 0)
	if _, err := coastCell.CurrentOverlay().BuildingCommand(f.w, NewStringStack("terrain stormcoast")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, cellar := f.mustRoom(t, 2, 0, 0)
	if _, err := cellar.CurrentOverlay().BuildingCommand(f.w, NewStringStack("outdoors indoors")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meadow := &testCharacter{id: 1, name: "meadow"}
	coast := &testCharacter{id: 2, name: "coast"}
	below := &testCharacter{id: 3, name: "below"}
	for ch, c := range map[*testCharacter]*Cell{meadow: f.cell, coast: coastCell, below: cellar} {
		if err := c.Enter(ch); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	tests := map[string]struct {
		ctrl *weather.Controller
		exp  map[*testCharacter]int
	}{
		"zone controller": {
			ctrl: zoneWeather,
			exp:  map[*testCharacter]int{meadow: 1, coast: 0, below: 0},
		},
		"terrain override": {
			ctrl: stormWeather,
			exp:  map[*testCharacter]int{meadow: 0, coast: 1, below: 0},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for ch := range tt.exp {
				ch.msgs = nil
			}
			tt.ctrl.Echo("The wind picks up.")
			for ch, n := range tt.exp {
				testutil.AssertEqual(t, ch.name, len(ch.msgs), n)
			}
		})
	}

	testutil.AssertEqual(t, "coast subscriptions", coastCell.WeatherSubscriptionCount(), 2)
	testutil.AssertEqual(t, "coast controller", coastCell.WeatherControllerFor(nil).ID(), int64(2))
}

func TestCell_SaveReload(t *testing.T) {
	f := newFixture(t)
	rock := &testItem{id: 7, name: "rock", weight: 3, density: 2.5}
	f.w.AddItem(rock)
	if err := f.cell.Insert(rock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.cell.ToggleTag(42)
	f.cell.ToggleTag(7)
	f.cell.SetYield("grass", 12.5)
	f.cell.Effects.Add(&effects.TemperatureChange{Delta: -3})
	f.cell.Effects.Add(&effects.AreaLight{Lux: 20})
	if _, err := f.cell.CurrentOverlay().BuildingCommand(f.w, NewStringStack("desc A wide meadow.")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	overlayID := f.cell.CurrentOverlay().ID()
	temp := f.cell.CurrentTemperature(nil)

	w := f.reload(t)
	c, ok := w.Cells.Get(f.cell.ID())
	if !ok {
		t.Fatalf("cell %d not loaded", f.cell.ID())
	}
	testutil.AssertEqual(t, "overlay", c.CurrentOverlay().ID(), overlayID)
	testutil.AssertEqual(t, "description", c.CurrentOverlay().Description, "A wide meadow.")
	testutil.AssertEqual(t, "tags", slices.Equal(c.Tags(), []int64{7, 42}), true)
	testutil.AssertEqual(t, "yields", maps.Equal(c.Yields(), map[string]float64{"grass": 12.5}), true)
	testutil.AssertEqual(t, "effects", len(c.Effects.Effects()), 2)
	testutil.AssertEqual(t, "temperature", c.CurrentTemperature(nil), temp)
	testutil.AssertEqual(t, "items", len(c.Items()), 1)
	testutil.AssertEqual(t, "item", c.Items()[0].Name(), "rock")
	testutil.AssertEqual(t, "zone items", len(c.Zone().Items()), 1)

	saves, deferred := w.Saves.Pending()
	testutil.AssertEqual(t, "saves after load", saves, 0)
	testutil.AssertEqual(t, "deferred after load", deferred, 0)
}

func TestCell_PartialSave(t *testing.T) {
	tests := map[string]struct {
		mutate func(c *Cell)
		exp    storage.CellChanges
	}{
		"tag": {
			mutate: func(c *Cell) { c.ToggleTag(1) },
			exp:    storage.CellTagsChanged,
		},
		"yield": {
			mutate: func(c *Cell) { c.SetYield("herbs", 2) },
			exp:    storage.CellYieldsChanged,
		},
		"hook": {
			mutate: func(c *Cell) { c.InstallHook(3) },
			exp:    storage.CellHooksChanged,
		},
		"effect": {
			mutate: func(c *Cell) { c.Effects.Add(&effects.TemperatureChange{Delta: 1}) },
			exp:    storage.CellEffectsChanged,
		},
		"resource": {
			mutate: func(c *Cell) { c.SetMagicResource(9, 1) },
			exp:    storage.CellResourcesChanged,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.mustFlush(t)
			tt.mutate(f.cell)
			testutil.AssertEqual(t, "changes", f.cell.PendingChanges(), tt.exp)
			testutil.AssertEqual(t, "queued", f.w.Saves.IsPending(f.cell.SaveKey()), true)
			f.mustFlush(t)
			testutil.AssertEqual(t, "changes", f.cell.PendingChanges(), storage.CellChanges(0))
		})
	}
}
