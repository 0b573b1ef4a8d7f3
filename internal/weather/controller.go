package weather

import (
	"fmt"
	"log/slog"
	"math/rand"
)

// recentWindow is how many hourly advances count towards HighestRecentPrecipitation.
const recentWindow = 24

// State is a snapshot of the weather produced by a controller.
type State struct {
	Precipitation              Precipitation
	Wind                       Wind
	Temperature                float64
	HighestRecentPrecipitation Precipitation
}

// LightMultiplier scales ambient light reaching the ground.
func (s State) LightMultiplier() float64 {
	return s.Precipitation.LightMultiplier()
}

// Describe renders the state for builders and the weather command.
func (s State) Describe() string {
	return fmt.Sprintf("%s, %s, %.1fC", s.Precipitation, s.Wind, s.Temperature)
}

// EventKind identifies what a controller is telling its listeners.
type EventKind int

const (
	EventEcho EventKind = iota
	EventChanged
	EventRoomTick
)

// Event is delivered to subscribers of a controller.
type Event struct {
	Controller int64
	Kind       EventKind
	Echo       string
	Previous   State
	Current    State
}

// Controller owns the weather for every location that subscribes to it.
type Controller struct {
	id   int64
	name string

	state  State
	recent []Precipitation

	listeners map[int]func(Event)
	nextSub   int

	rng *rand.Rand
}

// NewController creates a controller in the given starting state.
func NewController(id int64, name string, state State, seed int64) *Controller {
	if state.HighestRecentPrecipitation < state.Precipitation {
		state.HighestRecentPrecipitation = state.Precipitation
	}
	return &Controller{
		id:        id,
		name:      name,
		state:     state,
		recent:    []Precipitation{state.Precipitation},
		listeners: make(map[int]func(Event)),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (c *Controller) ID() int64 {
	return c.id
}

func (c *Controller) Name() string {
	return c.name
}

// CurrentWeather returns the state as of the last change.
func (c *Controller) CurrentWeather() State {
	return c.state
}

// Subscribe registers fn for every event. The returned function removes it.
func (c *Controller) Subscribe(fn func(Event)) func() {
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// ListenerCount reports the number of live subscriptions.
func (c *Controller) ListenerCount() int {
	return len(c.listeners)
}

func (c *Controller) emit(e Event) {
	e.Controller = c.id
	// Listeners may unsubscribe while being notified.
	fns := make([]func(Event), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(e)
	}
}

// Echo sends free text to everyone under this controller.
func (c *Controller) Echo(text string) {
	c.emit(Event{Kind: EventEcho, Echo: text, Previous: c.state, Current: c.state})
}

// RoomTick lets subscribers apply periodic weather exposure.
func (c *Controller) RoomTick() {
	c.emit(Event{Kind: EventRoomTick, Previous: c.state, Current: c.state})
}

// SetWeather replaces the current state and notifies listeners when it differs.
func (c *Controller) SetWeather(next State) {
	prev := c.state
	c.recordPrecipitation(next.Precipitation)
	next.HighestRecentPrecipitation = c.highestRecent()
	c.state = next
	if prev.Precipitation == next.Precipitation && prev.Wind == next.Wind {
		return
	}
	c.emit(Event{
		Kind:     EventChanged,
		Echo:     DescribeChange(prev, next),
		Previous: prev,
		Current:  next,
	})
}

func (c *Controller) recordPrecipitation(p Precipitation) {
	c.recent = append(c.recent, p)
	if len(c.recent) > recentWindow {
		c.recent = c.recent[len(c.recent)-recentWindow:]
	}
}

func (c *Controller) highestRecent() Precipitation {
	best := Parched
	for _, p := range c.recent {
		if p.Intensity() > best.Intensity() {
			best = p
		}
	}
	return best
}

// Advance moves the weather one step along a random walk. It is driven hourly.
func (c *Controller) Advance() {
	next := c.state
	next.Precipitation = c.stepPrecipitation(next.Precipitation, next.Temperature)
	next.Wind = c.stepWind(next.Wind)
	next.Temperature += c.rng.Float64()*2 - 1
	slog.Debug("weather advanced", "controller", c.id, "from", c.state.Describe(), "to", next.Describe())
	c.SetWeather(next)
}

func (c *Controller) stepPrecipitation(p Precipitation, temp float64) Precipitation {
	intensity := p.Intensity() + c.rng.Intn(3) - 1
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 6 {
		intensity = 6
	}
	snow := temp <= 0
	switch intensity {
	case 0:
		return Parched
	case 1:
		return Dry
	case 2:
		return Humid
	case 3:
		if snow {
			return LightSnow
		}
		return LightRain
	case 4:
		if snow {
			return Snow
		}
		return Rain
	case 5:
		if snow {
			return HeavySnow
		}
		return HeavyRain
	default:
		if snow {
			return Blizzard
		}
		return TorrentialRain
	}
}

func (c *Controller) stepWind(w Wind) Wind {
	next := int(w) + c.rng.Intn(3) - 1
	if next < int(NoWind) {
		next = int(NoWind)
	}
	if next > int(HurricaneWind) {
		next = int(HurricaneWind)
	}
	return Wind(next)
}

// DescribeChange is the echo used when the weather turns.
func DescribeChange(prev, next State) string {
	switch {
	case !prev.Precipitation.IsPrecipitating() && next.Precipitation.IsPrecipitating():
		if next.Precipitation.IsSnow() {
			return "It begins to snow."
		}
		return "It begins to rain."
	case prev.Precipitation.IsPrecipitating() && !next.Precipitation.IsPrecipitating():
		if prev.Precipitation.IsSnow() {
			return "The snow stops falling."
		}
		return "The rain stops."
	case next.Precipitation.Intensity() > prev.Precipitation.Intensity():
		return "The weather worsens."
	case next.Precipitation.Intensity() < prev.Precipitation.Intensity():
		return "The weather eases."
	case next.Wind > prev.Wind:
		return "The wind picks up."
	case next.Wind < prev.Wind:
		return "The wind dies down."
	}
	return "The weather shifts."
}
