package game

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/effects"
	"github.com/futuremud/futuremud/internal/weather"
)

func setWeather(f *fixture, state weather.State) {
	wc := weather.NewController(1, "local", state, 1)
	f.w.AddWeatherController(wc)
	f.zone.SetWeatherController(wc)
}

func TestCell_CurrentTemperature(t *testing.T) {
	tests := map[string]struct {
		outdoors CellOutdoorsType
		exit     bool
		door     bool
		effect   float64
		exp      float64
	}{
		"outdoors feels rain and wind": {
			outdoors: Outdoors,
			exp:      7,
		},
		"climate exposed feels only rain": {
			outdoors: IndoorsClimateExposed,
			exp:      8,
		},
		"indoors is sheltered": {
			outdoors: Indoors,
			exp:      10,
		},
		"windows do not let weather in": {
			outdoors: IndoorsWithWindows,
			exp:      10,
		},
		"open exit to the outdoors": {
			outdoors: Indoors,
			exit:     true,
			exp:      7,
		},
		"closed door to the outdoors": {
			outdoors: Indoors,
			exit:     true,
			door:     true,
			exp:      10,
		},
		"temperature effects add": {
			outdoors: Outdoors,
			effect:   3,
			exp:      10,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			setWeather(f, weather.State{Precipitation: weather.Rain, Wind: weather.Breeze, Temperature: 10})
			f.cell.CurrentOverlay().OutdoorsType = tt.outdoors
			if tt.exit {
				_, yard := f.mustRoom(t, 1, 0, 0)
				exit, err := f.w.Exits.Link(f.ctx, f.cell, East, yard)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.door {
					f.w.Exits.SetDoor(exit, true, false)
				}
			}
			if tt.effect != 0 {
				f.cell.Effects.Add(&effects.TemperatureChange{Delta: tt.effect})
			}

			testutil.AssertEqual(t, "temperature", f.cell.CurrentTemperature(nil), tt.exp)
		})
	}
}

func TestCell_CurrentIllumination(t *testing.T) {
	tests := map[string]struct {
		outdoors  CellOutdoorsType
		pollution float64
		factor    float64
		added     float64
		rain      bool
		lights    map[RoomLayer]float64
		cellLight float64
		zoneLight float64
		expLux    float64
		expAirLux float64
	}{
		"zone light times ambient factor": {
			outdoors:  Outdoors,
			pollution: 100,
			factor:    0.5,
			expLux:    50,
			expAirLux: 50,
		},
		"added light": {
			outdoors:  Outdoors,
			pollution: 100,
			factor:    0.5,
			added:     10,
			expLux:    60,
			expAirLux: 60,
		},
		"rain dims ambient and added light": {
			outdoors:  Outdoors,
			pollution: 100,
			factor:    1,
			added:     20,
			rain:      true,
			expLux:    72,
			expAirLux: 72,
		},
		"emitters light their own layer": {
			outdoors:  Outdoors,
			factor:    1,
			lights:    map[RoomLayer]float64{GroundLevel: 5, InAir: 7},
			expLux:    5,
			expAirLux: 7,
		},
		"cell area light": {
			outdoors:  Outdoors,
			factor:    1,
			rain:      true,
			cellLight: 8,
			expLux:    8,
			expAirLux: 8,
		},
		"zone wide area light joins the zone": {
			outdoors:  Outdoors,
			factor:    0.5,
			zoneLight: 40,
			expLux:    20,
			expAirLux: 20,
		},
		"no ambient light indoors without light": {
			outdoors:  IndoorsNoLight,
			pollution: 100,
			factor:    1,
			added:     3,
			expLux:    3,
			expAirLux: 3,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			if tt.rain {
				setWeather(f, weather.State{Precipitation: weather.Rain, Temperature: 10})
			}
			o := f.cell.CurrentOverlay()
			o.OutdoorsType = tt.outdoors
			o.AmbientLightFactor = tt.factor
			o.AddedLight = tt.added

			var id int64
			for layer, lux := range tt.lights {
				id++
				lamp := &testItem{id: id, name: "a lamp", light: lux}
				if err := f.cell.Insert(lamp); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				lamp.layer = layer
			}
			if tt.cellLight != 0 {
				f.cell.Effects.Add(&effects.AreaLight{Lux: tt.cellLight})
			}
			if tt.zoneLight != 0 {
				f.cell.Effects.Add(&effects.AreaLight{Lux: tt.zoneLight, Zone: true})
			}
			f.zone.AmbientLightPollution = tt.pollution
			f.zone.RecalculateLightLevel()

			testutil.AssertEqual(t, "ground", f.cell.CurrentIllumination(GroundLevel), tt.expLux)
			testutil.AssertEqual(t, "air", f.cell.CurrentIllumination(InAir), tt.expAirLux)
		})
	}
}

func TestCell_SpotDifficulty(t *testing.T) {
	tests := map[string]struct {
		pollution     float64
		precipitation weather.Precipitation
		terrain       Difficulty
		exp           Difficulty
	}{
		"clear and bright": {
			pollution: 100,
			exp:       Automatic,
		},
		"dim light": {
			pollution: 0.5,
			exp:       VeryHard,
		},
		"darkness": {
			pollution:     0.001,
			precipitation: weather.TorrentialRain,
			exp:           Insane,
		},
		"terrain floor": {
			pollution: 100,
			terrain:   Hard,
			exp:       Hard,
		},
		"torrential rain beats gloom": {
			pollution:     100,
			precipitation: weather.TorrentialRain,
			terrain:       VeryEasy,
			exp:           Hard,
		},
		"light rain keeps the terrain floor": {
			pollution:     100,
			precipitation: weather.LightRain,
			terrain:       Normal,
			exp:           Normal,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			setWeather(f, weather.State{Precipitation: tt.precipitation, Temperature: 10})
			f.terrain.SpotDifficulty = tt.terrain
			f.zone.AmbientLightPollution = tt.pollution
			f.zone.RecalculateLightLevel()

			watcher := &testCharacter{id: 1, name: "Ivo"}
			if err := f.cell.Enter(watcher); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "difficulty", f.cell.SpotDifficulty(watcher), tt.exp)
		})
	}
}
