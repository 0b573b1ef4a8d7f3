package celestial

import "fmt"

const (
	MinutesPerDay      = 1440
	DefaultDaysPerYear = 365
)

// Time is a moment on a game clock.
type Time struct {
	Year   int
	Day    int // zero based day of the year
	Minute int // minutes since midnight
}

func (t Time) String() string {
	return fmt.Sprintf("year %d day %d %02d:%02d", t.Year, t.Day+1, t.Minute/60, t.Minute%60)
}

// Timezone is an offset from the clock's primary time.
type Timezone struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"` // minutes
}

// Clock keeps game time for a shard.
type Clock struct {
	id          int64
	name        string
	daysPerYear int
	now         Time

	listeners map[int]func()
	nextSub   int
}

// NewClock creates a clock at the given time. A non-positive daysPerYear uses the default.
func NewClock(id int64, name string, daysPerYear int, now Time) *Clock {
	if daysPerYear <= 0 {
		daysPerYear = DefaultDaysPerYear
	}
	return &Clock{
		id:          id,
		name:        name,
		daysPerYear: daysPerYear,
		now:         now,
		listeners:   make(map[int]func()),
	}
}

func (c *Clock) ID() int64        { return c.id }
func (c *Clock) Name() string     { return c.name }
func (c *Clock) DaysPerYear() int { return c.daysPerYear }
func (c *Clock) Now() Time        { return c.now }

// LocalTime applies a timezone offset to the current time.
func (c *Clock) LocalTime(tz Timezone) Time {
	return c.shift(c.now, tz.Offset)
}

func (c *Clock) shift(t Time, minutes int) Time {
	total := t.Minute + minutes
	days := total / MinutesPerDay
	total %= MinutesPerDay
	if total < 0 {
		total += MinutesPerDay
		days--
	}
	t.Minute = total
	t.Day += days
	for t.Day >= c.daysPerYear {
		t.Day -= c.daysPerYear
		t.Year++
	}
	for t.Day < 0 {
		t.Day += c.daysPerYear
		t.Year--
	}
	return t
}

// Advance moves the clock forward and notifies subscribers once.
func (c *Clock) Advance(minutes int) {
	if minutes <= 0 {
		return
	}
	c.now = c.shift(c.now, minutes)
	for _, fn := range c.snapshot() {
		fn()
	}
}

func (c *Clock) snapshot() []func() {
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// Subscribe registers fn to run whenever the clock advances.
func (c *Clock) Subscribe(fn func()) func() {
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

// Season is the quarter of the year.
type Season int

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	default:
		return "winter"
	}
}

// ParseSeason accepts season names, including "fall".
func ParseSeason(s string) (Season, bool) {
	switch s {
	case "spring":
		return Spring, true
	case "summer":
		return Summer, true
	case "autumn", "fall":
		return Autumn, true
	case "winter":
		return Winter, true
	}
	return Winter, false
}

// Calendar names the days of a clock's year.
type Calendar struct {
	ID          int64
	Name        string
	DaysPerYear int
}

// SeasonFor returns the season of a day for a hemisphere, using the solstices
// and equinoxes scaled to the calendar length.
func (c Calendar) SeasonFor(day int, latitude float64) Season {
	dpy := c.DaysPerYear
	if dpy <= 0 {
		dpy = DefaultDaysPerYear
	}
	frac := float64(day) / float64(dpy)
	var s Season
	switch {
	case frac >= 79.0/365 && frac < 172.0/365:
		s = Spring
	case frac >= 172.0/365 && frac < 266.0/365:
		s = Summer
	case frac >= 266.0/365 && frac < 355.0/365:
		s = Autumn
	default:
		s = Winter
	}
	if latitude < 0 {
		s = (s + 2) % 4
	}
	return s
}
