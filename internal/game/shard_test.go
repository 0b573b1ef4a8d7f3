package game

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestShard_DescribeSky(t *testing.T) {
	tests := map[string]struct {
		lux       float64
		minimum   float64
		expPrefix string
		expMag    string
	}{
		"no light clamps to the minimum": {
			lux:       0,
			expPrefix: "The sky is utterly dark",
			expMag:    "(24.58 mag/arcsec²)",
		},
		"below the minimum clamps": {
			lux:       0.00001,
			expPrefix: "The sky is utterly dark",
			expMag:    "(24.58 mag/arcsec²)",
		},
		"starlit": {
			lux:       0.001,
			expPrefix: "The sky is dark and thick with stars.",
			expMag:    "(21.33 mag/arcsec²)",
		},
		"twilight": {
			lux:       0.5,
			expPrefix: "The sky is lit by twilight",
			expMag:    "(14.58 mag/arcsec²)",
		},
		"daylight": {
			lux:       100000,
			expPrefix: "The sky is bright with daylight.",
			expMag:    "(1.33 mag/arcsec²)",
		},
		"shard minimum overrides tuning": {
			lux:       0,
			minimum:   0.001,
			expPrefix: "The sky is dark and thick with stars.",
			expMag:    "(21.33 mag/arcsec²)",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.shard.MinimumTerrestrialLux = tt.minimum
			got := f.shard.DescribeSky(tt.lux)
			testutil.AssertEqual(t, "prefix", strings.HasPrefix(got, tt.expPrefix), true)
			testutil.AssertEqual(t, "magnitude", strings.HasSuffix(got, tt.expMag), true)
		})
	}
}

func TestShard_RoomsAt(t *testing.T) {
	f := newFixture(t)
	east, _ := f.mustRoom(t, 1, 0, 0)
	stacked, _ := f.mustRoom(t, 1, 0, 0)
	up, _ := f.mustRoom(t, 0, 0, 1)

	testutil.AssertEqual(t, "origin", len(f.shard.RoomsAt(f.zone, 0, 0, 0)), 1)
	at := f.shard.RoomsAt(f.zone, 1, 0, 0)
	testutil.AssertEqual(t, "shared coordinate", len(at), 2)
	testutil.AssertEqual(t, "ordered by id", at[0] == east, true)
	testutil.AssertEqual(t, "ordered by id", at[1] == stacked, true)
	testutil.AssertEqual(t, "empty", len(f.shard.RoomsAt(f.zone, 5, 5, 5)), 0)

	up.SetCoordinates(3, 3, 3)
	testutil.AssertEqual(t, "old coordinate", len(f.shard.RoomsAt(f.zone, 0, 0, 1)), 0)
	testutil.AssertEqual(t, "new coordinate", len(f.shard.RoomsAt(f.zone, 3, 3, 3)), 1)
}

func TestShard_RoomInDirection(t *testing.T) {
	f := newFixture(t)
	east, _ := f.mustRoom(t, 1, 0, 0)
	far, farCell := f.mustRoom(t, 10, 10, 0)
	if _, err := f.w.Exits.Link(f.ctx, f.cell, North, farCell); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		dir   Direction
		exp   *Room
		expOK bool
	}{
		"exit wins over coordinates": {
			dir:   North,
			exp:   far,
			expOK: true,
		},
		"neighbouring coordinate": {
			dir:   East,
			exp:   east,
			expOK: true,
		},
		"nothing there": {
			dir: West,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := f.shard.RoomInDirection(f.room, tt.dir)
			testutil.AssertEqual(t, "found", ok, tt.expOK)
			testutil.AssertEqual(t, "room", got == tt.exp, true)
		})
	}
}

func TestShard_SaveReload(t *testing.T) {
	f := newFixture(t)
	f.shard.MinimumTerrestrialLux = 0.002
	f.shard.SetName("second age")

	w := f.reload(t)
	s, ok := w.Shards.Get(f.shard.ID())
	if !ok {
		t.Fatalf("shard %d not loaded", f.shard.ID())
	}
	testutil.AssertEqual(t, "name", s.Name(), "second age")
	testutil.AssertEqual(t, "minimum lux", s.MinimumTerrestrialLux, 0.002)
	testutil.AssertEqual(t, "zones", len(s.Zones()), 1)
	testutil.AssertEqual(t, "indexed", len(s.RoomsAt(s.Zones()[0], 0, 0, 0)), 1)
}
