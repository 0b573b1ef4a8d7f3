package game

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/display"
	"github.com/futuremud/futuremud/internal/tuning"
	"github.com/futuremud/futuremud/internal/weather"
)

func TestRenderMarkup(t *testing.T) {
	tun := tuning.Default()
	morning := envContext{timeOfDay: Morning, hasTime: true}

	tests := map[string]struct {
		src string
		env envContext
		exp string
	}{
		"plain text": {
			src: "A quiet meadow.",
			exp: "A quiet meadow.",
		},
		"time of day branch": {
			src: "The grass is environment{morning=dewy}{afternoon=warm}{still}.",
			env: morning,
			exp: "The grass is dewy.",
		},
		"fallback without a clock": {
			src: "The grass is environment{morning=dewy}{afternoon=warm}{still}.",
			exp: "The grass is still.",
		},
		"negated time": {
			src: "environment{!night=Birds sing.}{Owls call.}",
			env: morning,
			exp: "Birds sing.",
		},
		"day covers the afternoon": {
			src: "environment{day=Sunlit.}{Dark.}",
			env: envContext{timeOfDay: Afternoon, hasTime: true},
			exp: "Sunlit.",
		},
		"every condition must hold": {
			src: "environment{night,winter=Frost glitters.}{Nothing stirs.}",
			env: envContext{timeOfDay: Night, hasTime: true, season: celestial.Summer, hasSeason: true},
			exp: "Nothing stirs.",
		},
		"season": {
			src: "environment{winter=Snow lies deep.}{autumn=Leaves fall.}",
			env: envContext{season: celestial.Autumn, hasSeason: true},
			exp: "Leaves fall.",
		},
		"wetter than dry": {
			src: "environment{>dry=Puddles gather.}{The ground is hard.}",
			env: envContext{weather: weather.State{Precipitation: weather.Rain}, hasWeather: true},
			exp: "Puddles gather.",
		},
		"snow is not rain": {
			src: "environment{rain=Rain falls.}{snow=Snow falls.}{Clear.}",
			env: envContext{weather: weather.State{Precipitation: weather.Snow}, hasWeather: true},
			exp: "Snow falls.",
		},
		"rain is not snow": {
			src: "environment{snow=Snow blankets the ground.}{Clear.}",
			env: envContext{weather: weather.State{Precipitation: weather.Rain}, hasWeather: true},
			exp: "Clear.",
		},
		"not snow while raining": {
			src: "environment{!snow=No snow.}{Snow.}",
			env: envContext{weather: weather.State{Precipitation: weather.Rain}, hasWeather: true},
			exp: "No snow.",
		},
		"snow is wetter than light rain": {
			src: "environment{>lightrain=Heavy weather.}{Light weather.}",
			env: envContext{weather: weather.State{Precipitation: weather.Snow}, hasWeather: true},
			exp: "Heavy weather.",
		},
		"recent rain": {
			src: "environment{*rain=The mud is deep.}{The path is firm.}",
			env: envContext{weather: weather.State{Precipitation: weather.Dry, HighestRecentPrecipitation: weather.HeavyRain}, hasWeather: true},
			exp: "The mud is deep.",
		},
		"darker than dim": {
			src: "environment{<dim=Shadows pool.}{You see clearly.}",
			env: envContext{lux: 0.5, tuning: tun},
			exp: "Shadows pool.",
		},
		"exact light level": {
			src: "environment{bright=Glare.}{No glare.}",
			env: envContext{lux: 2000, tuning: tun},
			exp: "Glare.",
		},
		"unknown qualifier uses fallback": {
			src: "environment{foggy=Mist.}{Clear.}",
			env: morning,
			exp: "Clear.",
		},
		"unterminated block stays literal": {
			src: "Broken environment{morning=dewy",
			env: morning,
			exp: "Broken environment{morning=dewy",
		},
		"invalid utf-8 before a block": {
			src: "\xff\xff\xff\xffenvironment{a}",
			env: morning,
			exp: "\xff\xff\xff\xffa",
		},
		"non-ascii text around a block": {
			src: "İİİ Environment{morning=dewy}{dry} çay",
			env: morning,
			exp: "İİİ dewy çay",
		},
		"two blocks": {
			src: "environment{morning=Dawn light}{Light}, environment{spring=new leaves}{bare branches}.",
			env: envContext{timeOfDay: Morning, hasTime: true, season: celestial.Spring, hasSeason: true},
			exp: "Dawn light, new leaves.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "rendered", renderMarkup(parseMarkup(tt.src), tt.env), tt.exp)
		})
	}
}

func TestMarkupCache_Parse(t *testing.T) {
	m, err := NewMarkupCache(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Close()

	src := "environment{morning=dewy}{still}"
	env := envContext{timeOfDay: Morning, hasTime: true}
	for range 3 {
		testutil.AssertEqual(t, "rendered", renderMarkup(m.parse(src), env), "dewy")
	}

	var nilCache *MarkupCache
	testutil.AssertEqual(t, "nil cache", renderMarkup(nilCache.parse(src), env), "dewy")
}

type shopNames map[int64]string

func (s shopNames) ShopName(id int64) (string, bool) {
	n, ok := s[id]
	return n, ok
}

type linguist struct{ testCharacter }

func (linguist) CurrentLanguage() string { return "Elvish" }
func (linguist) CurrentScript() string   { return "" }

func TestCell_RenderDescription(t *testing.T) {
	f := newFixture(t)
	f.w.shops = shopNames{f.cell.ID(): "Hald's Forge"}

	tests := map[string]struct {
		voyeur any
		desc   string
		exp    string
	}{
		"shop macro": {
			desc: "The sign reads @shop.",
			exp:  "The sign reads Hald's Forge.",
		},
		"language macro": {
			voyeur: &linguist{},
			desc:   "Runes in @language, written in @script.",
			exp:    "Runes in Elvish, written in an unknown script.",
		},
		"no clock uses the fallback": {
			desc: "environment{night=Stars.}{The sky is grey.}",
			exp:  "The sky is grey.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := display.StripColour(f.cell.RenderDescription(tt.voyeur, tt.desc))
			testutil.AssertEqual(t, "description", got, tt.exp)
		})
	}
}

func TestCell_HowSeen(t *testing.T) {
	f := newFixture(t)
	_, east := f.mustRoom(t, 1, 0, 0)
	if _, err := f.w.Exits.Link(f.ctx, f.cell, East, east); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.cell.CurrentOverlay().BuildingCommand(f.w, NewStringStack("name The Meadow")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		voyeur   any
		kind     DescriptionType
		expHas   []string
		expLacks []string
	}{
		"short": {
			kind:   DescShort,
			expHas: []string{"The Meadow"},
		},
		"long names the terrain": {
			kind:   DescLong,
			expHas: []string{"The Meadow (grassland)"},
		},
		"full lists exits": {
			kind:     DescFull,
			expHas:   []string{"The Meadow", "Obvious exits: east"},
			expLacks: []string{"[Cell #"},
		},
		"administrators see the cell line": {
			voyeur: &testCharacter{admin: true},
			kind:   DescFull,
			expHas: []string{"[Cell #", "Package: initial r0 (under design)", "Coords: 0,0,0"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := display.StripColour(f.cell.HowSeen(tt.voyeur, tt.kind))
			for _, s := range tt.expHas {
				testutil.AssertEqual(t, s, strings.Contains(got, s), true)
			}
			for _, s := range tt.expLacks {
				testutil.AssertEqual(t, s, strings.Contains(got, s), false)
			}
		})
	}
}
