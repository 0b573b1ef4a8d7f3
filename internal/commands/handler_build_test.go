package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/weather"
)

func TestRoomHandler(t *testing.T) {
	tests := map[string]struct {
		setup  func(t *testing.T, f *fixture)
		args   []string
		check  func(t *testing.T, f *fixture)
		expErr string
	}{
		"dig creates a linked room": {
			args: []string{"dig", "east"},
			check: func(t *testing.T, f *fixture) {
				exit, ok := f.w.Exits.ExitFrom(f.cell, game.East)
				testutil.AssertEqual(t, "exit exists", ok, true)
				dest := exit.Destination(f.cell)
				testutil.AssertEqual(t, "x", dest.Room().X, 1)
				testutil.AssertEqual(t, "zone", dest.Zone() == f.zone, true)
				back, ok := f.w.Exits.ExitFrom(dest, game.West)
				testutil.AssertEqual(t, "return exit", ok && back == exit, true)
			},
		},
		"dig refuses an existing exit": {
			setup: func(t *testing.T, f *fixture) {
				f.mustBuild(t, NewRoomHandlerFactory(f.w), "dig", "up")
			},
			args:   []string{"dig", "up"},
			expErr: "There is already an exit up.",
		},
		"dig refuses an occupied square": {
			setup: func(t *testing.T, f *fixture) {
				if _, _, err := f.w.CreateRoom(f.ctx, f.zone, f.pkg, 0, 1, 0); err != nil {
					t.Fatalf("creating room: %v", err)
				}
			},
			args:   []string{"dig", "north"},
			expErr: "Use room link instead.",
		},
		"dig needs a direction": {
			args:   []string{"dig", "sideways"},
			expErr: `"sideways" is not a direction.`,
		},
		"door closes an exit": {
			setup: func(t *testing.T, f *fixture) {
				f.mustBuild(t, NewRoomHandlerFactory(f.w), "dig", "south")
			},
			args: []string{"door", "s", "closed"},
			check: func(t *testing.T, f *fixture) {
				exit, _ := f.w.Exits.ExitFrom(f.cell, game.South)
				testutil.AssertEqual(t, "has door", exit.HasDoor, true)
				testutil.AssertEqual(t, "open", exit.IsOpen(), false)
			},
		},
		"unlink removes an exit": {
			setup: func(t *testing.T, f *fixture) {
				f.mustBuild(t, NewRoomHandlerFactory(f.w), "dig", "west")
			},
			args: []string{"unlink", "west"},
			check: func(t *testing.T, f *fixture) {
				_, ok := f.w.Exits.ExitFrom(f.cell, game.West)
				testutil.AssertEqual(t, "exit exists", ok, false)
			},
		},
		"unlink without an exit": {
			args:   []string{"unlink", "west"},
			expErr: "There is no exit west.",
		},
		"set coordinates": {
			args: []string{"set", "coords", "4", "5", "-1"},
			check: func(t *testing.T, f *fixture) {
				testutil.AssertEqual(t, "x", f.room.X, 4)
				testutil.AssertEqual(t, "y", f.room.Y, 5)
				testutil.AssertEqual(t, "z", f.room.Z, -1)
			},
		},
		"destroy needs a cell outside the room": {
			args:   []string{"destroy", "1"},
			expErr: "cannot receive the contents of this room",
		},
		"unknown option shows help": {
			args:   []string{"paint"},
			expErr: "dig <direction>",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}
			err := f.build(t, NewRoomHandlerFactory(f.w), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestPackageHandler(t *testing.T) {
	f := newFixture(t)
	h := NewPackageHandlerFactory(f.w)

	out := f.mustBuild(t, h, "new", "Spring Floods")
	testutil.AssertEqual(t, "created", strings.Contains(out, "Spring Floods"), true)
	key, ok := f.admin.PreviewPackage()
	testutil.AssertEqual(t, "previewing", ok, true)

	pkg, ok := f.w.Package(key)
	if !ok {
		t.Fatalf("package %s not found", key)
	}
	testutil.AssertEqual(t, "status", pkg.Status(), game.UnderDesign)

	// The previewed package receives new overlays.
	f.mustBuild(t, NewOverlayHandlerFactory(f.w), "add")
	_, ok = f.cell.OverlayFor(key)
	testutil.AssertEqual(t, "overlay added", ok, true)

	ref := fmt.Sprintf("%d:%d", key.ID, key.Revision)
	f.mustBuild(t, h, "submit", ref)
	testutil.AssertEqual(t, "submitted", pkg.Status(), game.PendingRevision)
	f.mustBuild(t, h, "approve", strconv.FormatInt(key.ID, 10))
	testutil.AssertEqual(t, "approved", pkg.Status(), game.Current)
	testutil.AssertEqual(t, "cell uses it", f.cell.CurrentOverlay().Package() == pkg, true)

	f.mustBuild(t, h, "preview", "none")
	_, ok = f.admin.PreviewPackage()
	testutil.AssertEqual(t, "preview cleared", ok, false)

	testutil.AssertErrorContains(t, f.build(t, h, "show", "Nonexistent"), `There is no package identified by "Nonexistent".`)
	testutil.AssertErrorContains(t, f.build(t, h, "show", "99:0"), `There is no package revision "99:0".`)
}

func TestCellHandler(t *testing.T) {
	f := newFixture(t)
	h := NewCellHandlerFactory(f.w)

	home := strconv.FormatInt(f.cell.ID(), 10)
	testutil.AssertErrorContains(t, f.build(t, h, "delete", home), "cannot receive the contents of this cell")

	f.mustBuild(t, h, "new")
	testutil.AssertEqual(t, "cells", len(f.room.Cells()), 2)

	var other *game.Cell
	for _, c := range f.room.Cells() {
		if c != f.cell {
			other = c
		}
	}
	f.mustBuild(t, h, "set", "tag", "7")
	testutil.AssertEqual(t, "tagged", slices.Contains(f.cell.Tags(), 7), true)

	if err := f.admin.MoveTo(other); err != nil {
		t.Fatalf("moving: %v", err)
	}
	out := f.mustBuild(t, h, "delete", home)
	testutil.AssertEqual(t, "deleted", strings.HasPrefix(out, "You delete cell"), true)
	testutil.AssertEqual(t, "actor moved", f.admin.Location() == f.cell, true)
	testutil.AssertErrorContains(t, f.build(t, h, "delete", home), "cannot receive")
}

func TestOverlayHandler(t *testing.T) {
	f := newFixture(t)
	h := NewOverlayHandlerFactory(f.w)

	testutil.AssertErrorContains(t, f.build(t, h, "add"), "You must be previewing a package")

	out := f.mustBuild(t, h, "show")
	testutil.AssertEqual(t, "shows overlay", strings.HasPrefix(out, "Overlay #"), true)

	f.mustBuild(t, h, "name", "A Quiet Glade")
	testutil.AssertEqual(t, "renamed", f.cell.CurrentOverlay().Name, "A Quiet Glade")
}

func TestTerrainHandler(t *testing.T) {
	f := newFixture(t)
	h := NewTerrainHandlerFactory(f.w)

	out := f.mustBuild(t, h, "new", "swamp")
	testutil.AssertEqual(t, "created", strings.Contains(out, "swamp"), true)
	_, ok := f.w.Terrains.GetByIDOrName("swamp")
	testutil.AssertEqual(t, "registered", ok, true)

	out = f.mustBuild(t, h, "list")
	testutil.AssertEqual(t, "lists default", strings.Contains(out, "(default)"), true)

	testutil.AssertErrorContains(t, f.build(t, h, "new", "swamp"), "There is already a terrain called swamp.")
	testutil.AssertErrorContains(t, f.build(t, h, "show", "lava"), `There is no terrain identified by "lava".`)
	testutil.AssertErrorContains(t, f.build(t, h, "show"), "Which terrain do you mean?")
}

func TestZoneHandler(t *testing.T) {
	f := newFixture(t)
	h := NewZoneHandlerFactory(f.w)

	f.mustBuild(t, h, "new", "Highlands")
	z, ok := f.w.Zones.GetByIDOrName("Highlands")
	if !ok {
		t.Fatalf("zone not created")
	}
	testutil.AssertEqual(t, "shard", z.Shard() == f.shard, true)

	f.mustBuild(t, h, "set", "name", "Lowlands")
	testutil.AssertEqual(t, "renamed", f.zone.Name(), "Lowlands")

	f.mustBuild(t, h, "edit", "Highlands", "pollution", "2.5")
	testutil.AssertEqual(t, "pollution", z.AmbientLightPollution, 2.5)

	testutil.AssertErrorContains(t, f.build(t, h, "edit", "Atlantis", "name", "x"), `There is no zone identified by "Atlantis".`)
}

func TestShardHandler(t *testing.T) {
	f := newFixture(t)
	h := NewShardHandlerFactory(f.w)

	f.mustBuild(t, h, "clock", "Imperial", "360")
	testutil.AssertEqual(t, "clocks", len(f.shard.Clocks()), 1)
	f.mustBuild(t, h, "calendar", "Farmers", "360")
	testutil.AssertEqual(t, "calendars", len(f.shard.Calendars()), 1)

	f.mustBuild(t, h, "sun", "Sol", "Imperial", "98000")
	testutil.AssertEqual(t, "celestials", len(f.shard.Celestials()), 1)

	out := f.mustBuild(t, h, "show")
	testutil.AssertEqual(t, "shows clock", strings.Contains(out, "Clock #"), true)
	testutil.AssertEqual(t, "shows sun", strings.Contains(out, "Sol"), true)

	testutil.AssertErrorContains(t, f.build(t, h, "sun", "Luna", "Lunar"), `There is no clock identified by "Lunar" in this shard.`)
	testutil.AssertErrorContains(t, f.build(t, h, "clock", "Broken", "many"), "a number of days per year")

	// Time is told by the shard's clocks.
	if err := f.run(t, NewTimeHandlerFactory(), f.admin, nil); err != nil {
		t.Fatalf("telling time: %v", err)
	}
	testutil.AssertEqual(t, "time", strings.HasPrefix(f.pub.last(f.admin.ID()), "Imperial: year"), true)
}

func TestAreaHandler(t *testing.T) {
	f := newFixture(t)
	h := NewAreaHandlerFactory(f.w)

	f.mustBuild(t, h, "new", "Oldtown")
	a, ok := f.w.Areas.GetByIDOrName("Oldtown")
	if !ok {
		t.Fatalf("area not created")
	}
	testutil.AssertEqual(t, "rooms", len(a.Rooms()), 1)

	f.mustBuild(t, h, "delete", "Oldtown")
	_, ok = f.w.Areas.GetByIDOrName("Oldtown")
	testutil.AssertEqual(t, "removed", ok, false)

	testutil.AssertErrorContains(t, f.build(t, h, "show", "Nowhere"), `There is no area identified by "Nowhere".`)
}

func TestWeatherHandler(t *testing.T) {
	f := newFixture(t)
	h := NewWeatherHandlerFactory(f.w)

	out := f.mustBuild(t, h, "show")
	testutil.AssertEqual(t, "no weather", strings.HasPrefix(out, "No weather reaches this cell."), true)

	f.mustBuild(t, h, "new", "Temperate", "14", "7")
	found, ok := f.w.WeatherControllers.GetByIDOrName("Temperate")
	if !ok {
		t.Fatalf("controller not created")
	}
	f.mustBuild(t, NewZoneHandlerFactory(f.w), "set", "weather", "Temperate")

	if err := f.build(t, h, "set", "Temperate", "heavyrain", "still", "9"); err != nil {
		t.Fatalf("setting weather: %v", err)
	}
	state := found.CurrentWeather()
	testutil.AssertEqual(t, "precipitation", state.Precipitation, weather.HeavyRain)
	testutil.AssertEqual(t, "wind", state.Wind, weather.Still)
	testutil.AssertEqual(t, "temperature", state.Temperature, 9.0)

	out = f.mustBuild(t, h, "show")
	testutil.AssertEqual(t, "shows controller", strings.HasPrefix(out, "Temperate"), true)

	testutil.AssertErrorContains(t, f.build(t, h, "set", "Temperate", "hail", "still"), "unknown precipitation")
	testutil.AssertErrorContains(t, f.build(t, h, "set", "Arctic", "dry", "still"), `There is no weather controller identified by "Arctic".`)
}

func TestItemHandler(t *testing.T) {
	f := newFixture(t)
	h := NewItemHandlerFactory(f.w)

	f.mustBuild(t, h, "new", "lantern", "1.5", "800", "40")
	items := f.cell.Items()
	testutil.AssertEqual(t, "items", len(items), 1)
	testutil.AssertEqual(t, "registered", f.w.Items.Len(), 1)
	testutil.AssertEqual(t, "lit", f.cell.CurrentIllumination(items[0].Layer()) >= 40, true)

	out := f.mustBuild(t, h, "list")
	testutil.AssertEqual(t, "listed", strings.Contains(out, "lantern"), true)

	testutil.AssertErrorContains(t, f.build(t, h, "new", "rock", "heavy", "2"), "a weight and a positive density")
	testutil.AssertErrorContains(t, f.build(t, h, "new", "rock", "2", "2", "-1"), "non-negative number of lux")
}

func TestPropHandler(t *testing.T) {
	tests := map[string]struct {
		path   string
		exp    string
		expErr string
	}{
		"cell property": {
			path: "zone.name",
			exp:  "zone.name = meadows",
		},
		"nested property": {
			path: "zone.shard.name",
			exp:  "zone.shard.name = prime",
		},
		"lists names": {
			exp: "Properties of a cell: ",
		},
		"unknown property": {
			path:   "zone.colour",
			expErr: `property "colour"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			err := f.run(t, NewPropHandlerFactory(), f.admin, map[string]string{"path": tt.path})
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "output", strings.HasPrefix(f.pub.last(f.admin.ID()), tt.exp), true)
		})
	}
}

func TestMoveHandler(t *testing.T) {
	f := newFixture(t)
	bob := f.character(t, 2, "Bob", false)
	f.mustBuild(t, NewRoomHandlerFactory(f.w), "dig", "north")

	move := NewMoveHandlerFactory(f.w)
	testutil.AssertErrorContains(t,
		f.run(t, move, bob, map[string]string{"direction": "south"}),
		"You cannot go south from here.")

	f.mustBuild(t, NewRoomHandlerFactory(f.w), "door", "north", "closed")
	testutil.AssertErrorContains(t,
		f.run(t, move, bob, map[string]string{"direction": "north"}),
		"The door north is closed.")

	f.mustBuild(t, NewRoomHandlerFactory(f.w), "door", "north", "open")
	if err := f.run(t, move, bob, map[string]string{"direction": "n"}); err != nil {
		t.Fatalf("moving: %v", err)
	}
	testutil.AssertEqual(t, "moved", bob.Location() != f.cell, true)
	testutil.AssertEqual(t, "departure seen", f.pub.last(f.admin.ID()), "Bob leaves north.")

	if err := f.run(t, NewGotoHandlerFactory(f.w), bob, map[string]string{"cell": strconv.FormatInt(f.cell.ID(), 10)}); err != nil {
		t.Fatalf("going: %v", err)
	}
	testutil.AssertEqual(t, "returned", bob.Location() == f.cell, true)
}
