package game

import (
	"github.com/futuremud/futuremud/internal/weather"
)

// weatherSources are the distinct controllers any occupant of the cell
// could be under.
func (c *Cell) weatherSources() []WeatherController {
	var out []WeatherController
	seen := make(map[int64]bool)
	add := func(wc WeatherController) {
		if wc == nil || seen[wc.ID()] {
			return
		}
		seen[wc.ID()] = true
		out = append(out, wc)
	}
	for _, o := range c.overlays {
		if o.Terrain != nil {
			add(o.Terrain.WeatherController)
		}
	}
	if c.room != nil {
		for _, a := range c.room.Areas() {
			add(a.WeatherController)
		}
	}
	if z := c.Zone(); z != nil {
		add(z.WeatherController)
	}
	return out
}

// SubscribeWeather replaces the cell's weather subscriptions.
func (c *Cell) SubscribeWeather() {
	c.unsubscribeWeather()
	if c.destroyed {
		return
	}
	for _, wc := range c.weatherSources() {
		c.weatherSubs = append(c.weatherSubs, wc.Subscribe(c.onWeather))
	}
}

func (c *Cell) unsubscribeWeather() {
	for _, unsub := range c.weatherSubs {
		unsub()
	}
	c.weatherSubs = nil
}

// WeatherSubscriptionCount is the number of controllers the cell listens to.
func (c *Cell) WeatherSubscriptionCount() int {
	return len(c.weatherSubs)
}

func (c *Cell) controlledBy(voyeur any, id int64) bool {
	wc := c.WeatherControllerFor(voyeur)
	return wc != nil && wc.ID() == id
}

func (c *Cell) sheltered(voyeur any) bool {
	switch c.OutdoorsType(voyeur) {
	case Indoors, IndoorsNoLight:
		return true
	}
	return false
}

func (c *Cell) onWeather(e weather.Event) {
	switch e.Kind {
	case weather.EventEcho, weather.EventChanged:
		if e.Echo == "" {
			return
		}
		for _, ch := range c.Characters() {
			if c.controlledBy(ch, e.Controller) && !c.sheltered(ch) {
				ch.Send(e.Echo)
			}
		}
	case weather.EventRoomTick:
		for _, o := range c.Occupants() {
			if !c.controlledBy(o, e.Controller) || c.sheltered(o) {
				continue
			}
			if we, ok := TryGetCapability[WeatherExposable](o); ok {
				we.ExposeToWeather(e.Current)
			}
		}
	}
}
