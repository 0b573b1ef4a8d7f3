package game

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/weather"
)

func TestZone_BuildingCommand(t *testing.T) {
	tests := map[string]struct {
		input  string
		check  func(t *testing.T, f *fixture)
		expErr string
	}{
		"rename": {
			input: "name High Meadows",
			check: func(t *testing.T, f *fixture) {
				testutil.AssertEqual(t, "name", f.zone.Name(), "High Meadows")
			},
		},
		"latitude is stored in radians": {
			input: "latitude 45",
			check: func(t *testing.T, f *fixture) {
				testutil.AssertEqual(t, "latitude", math.Abs(f.zone.Geography.Latitude-math.Pi/4) < 1e-9, true)
			},
		},
		"latitude out of range": {
			input:  "latitude 91",
			expErr: "between -90 and 90",
		},
		"pollution": {
			input: "pollution 0.5",
			check: func(t *testing.T, f *fixture) {
				testutil.AssertEqual(t, "pollution", f.zone.AmbientLightPollution, 0.5)
			},
		},
		"unknown weather controller": {
			input:  "weather monsoon",
			expErr: "no weather controller",
		},
		"weather controller": {
			input: "weather temperate",
			check: func(t *testing.T, f *fixture) {
				testutil.AssertEqual(t, "controller", f.zone.WeatherController.Name(), "temperate")
			},
		},
		"timezone": {
			input: "timezone imperial 120 Eastern",
			check: func(t *testing.T, f *fixture) {
				clock := f.shard.Clocks()[0]
				tz, ok := f.zone.Timezone(clock.ID())
				testutil.AssertEqual(t, "found", ok, true)
				testutil.AssertEqual(t, "name", tz.Name, "Eastern")
				testutil.AssertEqual(t, "offset", tz.Offset, 120)
			},
		},
		"timezone unknown clock": {
			input:  "timezone lunar 0",
			expErr: "no clock",
		},
		"help": {
			input:  "",
			expErr: "following options",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.w.AddWeatherController(weather.NewController(1, "temperate", weather.State{Temperature: 10}, 1))
			if _, err := f.w.CreateClock(f.ctx, f.shard, "imperial", 365); err != nil {
				t.Fatalf("creating clock: %v", err)
			}

			_, err := f.zone.BuildingCommand(f.w, NewStringStack(tt.input))
			if tt.expErr != "" {
				var ue *UserError
				testutil.AssertEqual(t, "user error", errors.As(err, &ue), true)
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, f)
			testutil.AssertEqual(t, "pending save", f.w.Saves.IsPending(f.zone.SaveKey()), true)
		})
	}
}

func TestRoom_BuildingCommand(t *testing.T) {
	f := newFixture(t)
	north, _ := f.mustRoom(t, 5, 5, 5)
	if _, err := f.w.Exits.Link(f.ctx, f.cell, North, north.Cells()[0]); err != nil {
		t.Fatalf("linking: %v", err)
	}

	if _, err := north.BuildingCommand(f.w, NewStringStack("coords x 1 2")); err == nil {
		t.Fatalf("expected an error for bad coordinates")
	}

	if _, err := f.room.BuildingCommand(f.w, NewStringStack("coords 10 0 0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.room.BuildingCommand(f.w, NewStringStack("recalculate")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dx, dy, dz := North.Offset()
	testutil.AssertEqual(t, "x", north.X, 10+dx)
	testutil.AssertEqual(t, "y", north.Y, dy)
	testutil.AssertEqual(t, "z", north.Z, dz)
}

func TestArea_BuildingCommand(t *testing.T) {
	f := newFixture(t)
	other, _ := f.mustRoom(t, 1, 0, 0)
	a, err := f.w.CreateArea(f.ctx, "village", f.room)
	if err != nil {
		t.Fatalf("creating area: %v", err)
	}

	tests := []struct {
		input  string
		expErr string
		expLen int
	}{
		{input: "add 999", expErr: "no such room", expLen: 1},
		{input: "add " + strconv.FormatInt(f.room.ID(), 10), expErr: "already part", expLen: 1},
		{input: "add " + strconv.FormatInt(other.ID(), 10), expLen: 2},
		{input: "remove " + strconv.FormatInt(f.room.ID(), 10), expLen: 1},
		{input: "remove " + strconv.FormatInt(f.room.ID(), 10), expErr: "not part", expLen: 1},
	}
	for _, tt := range tests {
		_, err := a.BuildingCommand(f.w, NewStringStack(tt.input))
		if tt.expErr != "" {
			testutil.AssertErrorContains(t, err, tt.expErr)
		} else if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.input, err)
		}
		testutil.AssertEqual(t, tt.input, len(a.Rooms()), tt.expLen)
	}
}

func TestCell_BuildingCommand(t *testing.T) {
	f := newFixture(t)

	run := func(input string) string {
		t.Helper()
		out, err := f.cell.BuildingCommand(f.w, NewStringStack(input))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", input, err)
		}
		return out
	}

	run("tag 7")
	testutil.AssertEqual(t, "tags", len(f.cell.Tags()), 1)
	run("tag 7")
	testutil.AssertEqual(t, "tags after toggle", len(f.cell.Tags()), 0)

	run("yield Berries 12.5")
	testutil.AssertEqual(t, "yield", f.cell.Yield("berries"), 12.5)

	run("magic 3 4")
	testutil.AssertEqual(t, "magic", f.cell.MagicResource(3), 4.0)

	testutil.AssertEqual(t, "install", run("hook 9"), "You install hook #9 in this cell.")
	testutil.AssertEqual(t, "remove", run("hook 9"), "You remove hook #9 from this cell.")

	_, err := f.cell.BuildingCommand(f.w, NewStringStack("yield berries -1"))
	testutil.AssertErrorContains(t, err, "non-negative")
}

func TestShard_BuildingCommand(t *testing.T) {
	f := newFixture(t)
	if _, err := f.shard.BuildingCommand(f.w, NewStringStack("lux 2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "lux", f.shard.MinimumTerrestrialLux, 2.0)

	_, err := f.shard.BuildingCommand(f.w, NewStringStack("lux dim"))
	testutil.AssertErrorContains(t, err, "non-negative")
}
