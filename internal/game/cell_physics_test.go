package game

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/heartbeat"
	"github.com/futuremud/futuremud/internal/storage"
	"github.com/futuremud/futuremud/internal/weather"
)

func setTerrain(t *testing.T, f *fixture, c *Cell, name string) {
	t.Helper()
	if _, err := c.CurrentOverlay().BuildingCommand(f.w, NewStringStack("terrain "+name)); err != nil {
		t.Fatalf("setting terrain: %v", err)
	}
}

func TestCell_FallFromAir(t *testing.T) {
	tests := map[string]struct {
		flier    bool
		expLayer RoomLayer
		expFall  bool
	}{
		"walker falls": {
			expLayer: GroundLevel,
			expFall:  true,
		},
		"flier stays aloft": {
			flier:    true,
			expLayer: HighInAir,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			ch := &testCharacter{id: 1, name: "Ana", layer: HighInAir, flier: tt.flier}
			if err := f.cell.Enter(ch); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			fall, _, _ := f.cell.TickSubscriptions()
			testutil.AssertEqual(t, "fall subscribed", fall, tt.expFall)

			f.hb.Fire(heartbeat.FiveSeconds)
			testutil.AssertEqual(t, "layer", ch.Layer(), tt.expLayer)
			if tt.expFall {
				testutil.AssertEqual(t, "message", ch.msgs[len(ch.msgs)-1], "Ana falls to the ground.")
			}
			fall, _, _ = f.cell.TickSubscriptions()
			testutil.AssertEqual(t, "fall subscribed after", fall, false)
		})
	}
}

func TestCell_FallThroughExit(t *testing.T) {
	f := newFixture(t)
	_, below := f.mustRoom(t, 0, 0, -1)
	if _, err := f.w.Exits.Link(f.ctx, f.cell, Down, below); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rock := &testItem{id: 1, name: "a rock"}
	if err := f.cell.Insert(rock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fall, _, _ := f.cell.TickSubscriptions()
	testutil.AssertEqual(t, "fall subscribed", fall, true)

	f.hb.Fire(heartbeat.FiveSeconds)
	testutil.AssertEqual(t, "location", rock.Location() == below, true)
	testutil.AssertEqual(t, "layer", rock.Layer(), HighInAir)
	fall, _, _ = f.cell.TickSubscriptions()
	testutil.AssertEqual(t, "upper still falling", fall, false)

	f.hb.Fire(heartbeat.FiveSeconds)
	testutil.AssertEqual(t, "landed", rock.Layer(), GroundLevel)
	testutil.AssertEqual(t, "zone items", len(f.zone.Items()), 1)
}

func TestCell_Sink(t *testing.T) {
	f := newFixture(t)
	f.w.Fluids.Add(NewFluid(storage.FluidRecord{ID: 1, Name: "water", Density: 1}))
	lake := f.mustTerrain(t, "lake")
	if _, err := lake.BuildingCommand(f.w, NewStringStack("model deepwater water")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	setTerrain(t, f, f.cell, "lake")

	anchor := &testItem{id: 1, name: "an anchor", layer: Underwater, density: 7}
	cork := &testItem{id: 2, name: "a cork", layer: Underwater, density: 0.2}
	chained := &testItem{id: 3, name: "a buoy", layer: Underwater, density: 7, anchored: true}
	diver := &testCharacter{id: 4, name: "Ivo", layer: Underwater}
	for _, it := range []*testItem{anchor, cork, chained} {
		if err := f.cell.Insert(it); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := f.cell.Enter(diver); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, sink := f.cell.TickSubscriptions()
	testutil.AssertEqual(t, "sink subscribed", sink, true)

	f.hb.Fire(heartbeat.ThirtySeconds)
	testutil.AssertEqual(t, "anchor", anchor.Layer(), DeepUnderwater)
	testutil.AssertEqual(t, "cork", cork.Layer(), Underwater)
	testutil.AssertEqual(t, "chained", chained.Layer(), Underwater)
	testutil.AssertEqual(t, "diver", diver.Layer(), Underwater)
	testutil.AssertEqual(t, "message", diver.msgs[len(diver.msgs)-1], "an anchor settles on the bottom.")
	testutil.AssertEqual(t, "contents queued", f.cell.PendingChanges()&storage.CellContentsChanged != 0, true)
}

func TestCell_WindInTrees(t *testing.T) {
	tests := map[string]struct {
		wind    weather.Wind
		resist  bool
		weight  float64
		expChar RoomLayer
		expItem RoomLayer
	}{
		"breeze keeps everything up": {
			wind:    weather.Breeze,
			resist:  true,
			weight:  10,
			expChar: InTrees,
			expItem: InTrees,
		},
		"gale brings down heavy items": {
			wind:    weather.GaleWind,
			resist:  true,
			weight:  60,
			expChar: InTrees,
			expItem: GroundLevel,
		},
		"poor grip": {
			wind:    weather.GaleWind,
			weight:  10,
			expChar: GroundLevel,
			expItem: InTrees,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			wc := weather.NewController(1, "forest", weather.State{Wind: tt.wind, Temperature: 10}, 1)
			f.w.AddWeatherController(wc)
			f.zone.SetWeatherController(wc)
			woods := f.mustTerrain(t, "woods")
			if _, err := woods.BuildingCommand(f.w, NewStringStack("model trees")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			setTerrain(t, f, f.cell, "woods")

			climber := &testCharacter{id: 1, name: "Mira", layer: InTrees, resist: tt.resist}
			nest := &testItem{id: 2, name: "a nest", layer: InTrees, weight: tt.weight}
			if err := f.cell.Enter(climber); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := f.cell.Insert(nest); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_, wind, _ := f.cell.TickSubscriptions()
			testutil.AssertEqual(t, "wind subscribed", wind, true)

			f.hb.Fire(heartbeat.OneMinute)
			testutil.AssertEqual(t, "climber", climber.Layer(), tt.expChar)
			testutil.AssertEqual(t, "nest", nest.Layer(), tt.expItem)
		})
	}
}

func TestCell_RegenerateYields(t *testing.T) {
	f := newFixture(t)
	profile := NewForagableProfile(storage.ForagableProfileRecord{
		ID:     1,
		Name:   "meadow",
		Yields: []storage.ProfileYieldRecord{
			{Type: "grass", Maximum: 10, HourlyRegain: 2},
			{Type: "herbs", Maximum: 4, HourlyRegain: 1},
		},
	})
	f.w.ForagableProfiles.Add(profile)
	if _, err := f.terrain.BuildingCommand(f.w, NewStringStack("forage meadow")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.cell.SetYield("grass", 3)

	f.hb.Fire(heartbeat.Hourly)
	testutil.AssertEqual(t, "grass", f.cell.Yield("grass"), 5.0)
	testutil.AssertEqual(t, "unvisited starts full", f.cell.Yield("herbs"), 4.0)

	testutil.AssertEqual(t, "consumed", f.cell.ConsumeYield("herbs", 6), 4.0)
	for range 10 {
		f.hb.Fire(heartbeat.Hourly)
	}
	testutil.AssertEqual(t, "grass capped", f.cell.Yield("grass"), 10.0)
	testutil.AssertEqual(t, "herbs capped", f.cell.Yield("herbs"), 4.0)
}
