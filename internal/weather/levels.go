package weather

import (
	"fmt"
	"strings"
)

// Precipitation is the intensity and kind of falling water in an area.
type Precipitation int

const (
	Parched Precipitation = iota
	Dry
	Humid
	LightRain
	Rain
	HeavyRain
	TorrentialRain
	LightSnow
	Snow
	HeavySnow
	Blizzard
	Sleet
)

var precipitationNames = map[Precipitation]string{
	Parched:        "parched",
	Dry:            "dry",
	Humid:          "humid",
	LightRain:      "lightrain",
	Rain:           "rain",
	HeavyRain:      "heavyrain",
	TorrentialRain: "torrentialrain",
	LightSnow:      "lightsnow",
	Snow:           "snow",
	HeavySnow:      "heavysnow",
	Blizzard:       "blizzard",
	Sleet:          "sleet",
}

func (p Precipitation) String() string {
	if s, ok := precipitationNames[p]; ok {
		return s
	}
	return fmt.Sprintf("precipitation(%d)", int(p))
}

// ParsePrecipitation accepts the lower case names used in descriptions and building commands.
func ParsePrecipitation(s string) (Precipitation, error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for p, name := range precipitationNames {
		if name == s {
			return p, nil
		}
	}
	return Parched, fmt.Errorf("unknown precipitation %q", s)
}

// Intensity orders precipitation by how much is falling, so rain and snow
// of the same strength compare equal.
func (p Precipitation) Intensity() int {
	switch p {
	case Parched:
		return 0
	case Dry:
		return 1
	case Humid:
		return 2
	case LightRain, LightSnow, Sleet:
		return 3
	case Rain, Snow:
		return 4
	case HeavyRain, HeavySnow:
		return 5
	case TorrentialRain, Blizzard:
		return 6
	default:
		return 0
	}
}

// IsPrecipitating is true when anything is actually falling.
func (p Precipitation) IsPrecipitating() bool {
	return p.Intensity() >= 3
}

// IsSnow is true for the frozen kinds.
func (p Precipitation) IsSnow() bool {
	switch p {
	case LightSnow, Snow, HeavySnow, Blizzard, Sleet:
		return true
	}
	return false
}

// TemperatureEffect is the delta in degrees celsius felt by someone exposed to it.
func (p Precipitation) TemperatureEffect() float64 {
	switch p {
	case LightRain:
		return -1
	case Rain, Sleet:
		return -2
	case HeavyRain, LightSnow:
		return -3
	case TorrentialRain, Snow:
		return -4
	case HeavySnow:
		return -6
	case Blizzard:
		return -8
	default:
		return 0
	}
}

// LightMultiplier is the fraction of ambient light that makes it through the cloud.
func (p Precipitation) LightMultiplier() float64 {
	switch p {
	case Humid:
		return 0.95
	case LightRain, LightSnow, Sleet:
		return 0.8
	case Rain, Snow:
		return 0.6
	case HeavyRain, HeavySnow:
		return 0.4
	case TorrentialRain, Blizzard:
		return 0.25
	default:
		return 1.0
	}
}

// Wind is the strength of the wind in an area.
type Wind int

const (
	NoWind Wind = iota
	Still
	OccasionalBreeze
	Breeze
	WindLevel
	StrongWind
	GaleWind
	HurricaneWind
	MaelstromWind
)

var windNames = map[Wind]string{
	NoWind:           "none",
	Still:            "still",
	OccasionalBreeze: "occasionalbreeze",
	Breeze:           "breeze",
	WindLevel:        "wind",
	StrongWind:       "strongwind",
	GaleWind:         "galewind",
	HurricaneWind:    "hurricanewind",
	MaelstromWind:    "maelstromwind",
}

func (w Wind) String() string {
	if s, ok := windNames[w]; ok {
		return s
	}
	return fmt.Sprintf("wind(%d)", int(w))
}

// ParseWind accepts the lower case wind names.
func ParseWind(s string) (Wind, error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for w, name := range windNames {
		if name == s {
			return w, nil
		}
	}
	return NoWind, fmt.Errorf("unknown wind level %q", s)
}

// TemperatureEffect is the wind chill in degrees celsius.
func (w Wind) TemperatureEffect() float64 {
	switch w {
	case OccasionalBreeze:
		return -0.5
	case Breeze:
		return -1
	case WindLevel:
		return -2
	case StrongWind:
		return -4
	case GaleWind:
		return -6
	case HurricaneWind:
		return -8
	case MaelstromWind:
		return -10
	default:
		return 0
	}
}
