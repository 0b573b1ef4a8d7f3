package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/celestial"
)

func TestResolveProperty(t *testing.T) {
	f := newFixture(t)
	f.zone.Geography = celestial.Geography{Latitude: 0.7, Longitude: -0.1, Elevation: 120}
	f.zone.AmbientLightPollution = 3

	tests := map[string]struct {
		root   PropertyHolder
		path   string
		exp    any
		expErr error
	}{
		"cell name": {
			root: f.cell,
			path: "name",
			exp:  "An Unnamed Cell",
		},
		"through room to zone": {
			root: f.cell,
			path: "room.zone.latitude",
			exp:  0.7,
		},
		"zone elevation": {
			root: f.zone,
			path: "elevation",
			exp:  120.0,
		},
		"case insensitive": {
			root: f.zone,
			path: "Pollution",
			exp:  3.0,
		},
		"terrain default": {
			root: f.cell,
			path: "terrain.default",
			exp:  true,
		},
		"terrain model": {
			root: f.terrain,
			path: "model",
			exp:  "outdoors",
		},
		"shard zone count": {
			root: f.cell,
			path: "zone.shard.zones",
			exp:  1,
		},
		"package key": {
			root: f.cell,
			path: "package",
			exp:  f.pkg.Key().String(),
		},
		"unknown property": {
			root:   f.cell,
			path:   "colour",
			expErr: ErrNotFound,
		},
		"unknown nested property": {
			root:   f.cell,
			path:   "room.flavour",
			expErr: ErrNotFound,
		},
		"zone without controller": {
			root: f.zone,
			path: "weather",
			exp:  "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ResolveProperty(tt.root, tt.path)
			if tt.expErr != nil {
				testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "value", got, tt.exp)
		})
	}
}

func TestResolveProperty_NotAHolder(t *testing.T) {
	f := newFixture(t)
	_, err := ResolveProperty(f.cell, "name.length")
	testutil.AssertErrorContains(t, err, "has no properties")
}

func TestPropertyNames(t *testing.T) {
	f := newFixture(t)
	tests := map[string]struct {
		holder PropertyHolder
		has    string
	}{
		"cell":    {holder: f.cell, has: "windlevel"},
		"room":    {holder: f.room, has: "cells"},
		"zone":    {holder: f.zone, has: "timeofday"},
		"shard":   {holder: f.shard, has: "minimumlux"},
		"terrain": {holder: f.terrain, has: "movementrate"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			names := PropertyNames(tt.holder)
			testutil.AssertEqual(t, "sorted", slices.IsSorted(names), true)
			testutil.AssertEqual(t, "has "+tt.has, slices.Contains(names, tt.has), true)
			for _, n := range names {
				if _, ok := tt.holder.GetProperty(n); !ok {
					t.Errorf("listed property %q is not resolvable", n)
				}
			}
		})
	}
}
