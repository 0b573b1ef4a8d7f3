package game

import (
	"github.com/futuremud/futuremud/internal/weather"
)

// WeatherControllerFor is the controller supplying weather to the voyeur.
// A terrain override wins over the first area override, which wins over
// the zone.
func (c *Cell) WeatherControllerFor(voyeur any) WeatherController {
	if t := c.TerrainFor(voyeur); t != nil && t.WeatherController != nil {
		return t.WeatherController
	}
	if c.room != nil {
		for _, a := range c.room.Areas() {
			if a.WeatherController != nil {
				return a.WeatherController
			}
		}
	}
	if z := c.Zone(); z != nil && z.WeatherController != nil {
		return z.WeatherController
	}
	return nil
}

// CurrentWeather is the weather the voyeur experiences. The second result
// is false when no controller covers the cell.
func (c *Cell) CurrentWeather(voyeur any) (weather.State, bool) {
	wc := c.WeatherControllerFor(voyeur)
	if wc == nil {
		return weather.State{Temperature: c.world.tuning.DefaultTemperature}, false
	}
	return wc.CurrentWeather(), true
}

// CurrentIllumination is the light in lux on a layer of the cell.
func (c *Cell) CurrentIllumination(layer RoomLayer) float64 {
	return c.illuminationFor(nil, layer)
}

func (c *Cell) illuminationFor(voyeur any, layer RoomLayer) float64 {
	o := c.GetOverlayFor(voyeur)
	factor, added := 1.0, 0.0
	outdoors := Outdoors
	if o != nil {
		factor, added, outdoors = o.AmbientLightFactor, o.AddedLight, o.OutdoorsType
	}

	ambient := 0.0
	if z := c.Zone(); z != nil && outdoors != IndoorsNoLight {
		ambient = z.CurrentLightLevel()
	}
	multiplier := 1.0
	if state, ok := c.CurrentWeather(voyeur); ok {
		multiplier = state.LightMultiplier()
	}

	lux := (ambient*factor + added) * multiplier
	for _, it := range c.items {
		if it.Layer() != layer {
			continue
		}
		if le, ok := TryGetCapability[LightEmitter](it); ok {
			lux += le.Illumination()
		}
	}
	for _, ch := range c.characters {
		if ch.Layer() != layer {
			continue
		}
		if le, ok := TryGetCapability[LightEmitter](ch); ok {
			lux += le.Illumination()
		}
	}
	return lux + c.Effects.AddedLight(false) - c.Effects.AddedLight(true)
}

// IlluminationFor is the light the voyeur sees on their own layer.
func (c *Cell) IlluminationFor(voyeur Occupant) float64 {
	return c.illuminationFor(voyeur, voyeur.Layer())
}

// CurrentTemperature is the temperature felt by the voyeur in celsius.
func (c *Cell) CurrentTemperature(voyeur any) float64 {
	state, _ := c.CurrentWeather(voyeur)
	temp := state.Temperature

	precipitation, wind := false, false
	switch c.OutdoorsType(voyeur) {
	case Outdoors:
		precipitation, wind = true, true
	case IndoorsClimateExposed:
		precipitation = true
	default:
		if c.hasOpenExitOutdoors() {
			precipitation, wind = true, true
		}
	}
	if precipitation {
		temp += state.Precipitation.TemperatureEffect()
	}
	if wind {
		temp += state.Wind.TemperatureEffect()
	}

	temp += c.Effects.TemperatureDelta()
	for _, it := range c.items {
		if ta, ok := TryGetCapability[TemperatureAffecting](it); ok {
			temp += ta.TemperatureDelta()
		}
	}
	return temp
}

func (c *Cell) hasOpenExitOutdoors() bool {
	for _, e := range c.world.Exits.ExitsFor(c) {
		if !e.IsOpen() {
			continue
		}
		if dest := e.Destination(c); dest != nil && dest.OutdoorsType(nil) == Outdoors {
			return true
		}
	}
	return false
}

// SpotDifficulty is how hard it is for the voyeur to notice things here.
func (c *Cell) SpotDifficulty(voyeur Occupant) Difficulty {
	return MaxDifficulty(
		c.weatherSpotDifficulty(voyeur),
		c.lightSpotDifficulty(c.IlluminationFor(voyeur)),
		c.TerrainFor(voyeur).SpotDifficulty,
	)
}

func (c *Cell) weatherSpotDifficulty(voyeur any) Difficulty {
	switch c.OutdoorsType(voyeur) {
	case Outdoors, IndoorsClimateExposed:
	default:
		return Automatic
	}
	state, ok := c.CurrentWeather(voyeur)
	if !ok {
		return Automatic
	}
	switch state.Precipitation.Intensity() {
	case 6:
		return Hard
	case 5:
		return Normal
	case 4:
		return Easy
	case 3:
		return VeryEasy
	}
	return Automatic
}

func (c *Cell) lightSpotDifficulty(lux float64) Difficulty {
	t := c.world.tuning
	thresholds := []struct {
		name string
		d    Difficulty
	}{
		{"dark", Insane},
		{"dim", VeryHard},
		{"lit", Easy},
	}
	for _, th := range thresholds {
		if limit, ok := t.LightThreshold(th.name); ok && lux < limit {
			return th.d
		}
	}
	return Automatic
}
