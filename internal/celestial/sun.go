package celestial

import "math"

const (
	axialTilt              = 0.40910518 // 23.44 degrees
	defaultPeakIlluminance = 98000.0
	twilightIlluminance    = 400.0
	astronomicalTwilight   = -0.314159 // 18 degrees below the horizon
)

// Geography locates a zone on its planet. Angles are radians, elevation metres.
type Geography struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Sun is a celestial body that tracks a clock.
type Sun struct {
	id              int64
	name            string
	clock           *Clock
	peakIlluminance float64

	listeners map[int]func()
	nextSub   int
	unsub     func()
}

// NewSun creates a sun driven by clock. A non-positive peak uses the daylight default.
func NewSun(id int64, name string, clock *Clock, peak float64) *Sun {
	if peak <= 0 {
		peak = defaultPeakIlluminance
	}
	s := &Sun{
		id:              id,
		name:            name,
		clock:           clock,
		peakIlluminance: peak,
		listeners:       make(map[int]func()),
	}
	s.unsub = clock.Subscribe(s.minuteUpdated)
	return s
}

func (s *Sun) ID() int64                { return s.id }
func (s *Sun) Name() string             { return s.name }
func (s *Sun) Clock() *Clock            { return s.clock }
func (s *Sun) PeakIlluminance() float64 { return s.peakIlluminance }

func (s *Sun) minuteUpdated() {
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

// Subscribe registers fn for position updates.
func (s *Sun) Subscribe(fn func()) func() {
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// Close detaches the sun from its clock.
func (s *Sun) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

func (s *Sun) hourAngle(geo Geography) float64 {
	now := s.clock.Now()
	solarMinute := float64(now.Minute) + geo.Longitude/(2*math.Pi)*MinutesPerDay
	h := solarMinute/MinutesPerDay*2*math.Pi - math.Pi
	for h > math.Pi {
		h -= 2 * math.Pi
	}
	for h <= -math.Pi {
		h += 2 * math.Pi
	}
	return h
}

func (s *Sun) declination() float64 {
	now := s.clock.Now()
	return -axialTilt * math.Cos(2*math.Pi*float64(now.Day+10)/float64(s.clock.DaysPerYear()))
}

// ElevationAngle is the angle of the sun above the horizon in radians.
func (s *Sun) ElevationAngle(geo Geography) float64 {
	decl := s.declination()
	h := s.hourAngle(geo)
	v := math.Sin(geo.Latitude)*math.Sin(decl) + math.Cos(geo.Latitude)*math.Cos(decl)*math.Cos(h)
	return math.Asin(math.Max(-1, math.Min(1, v)))
}

// IsAscending is true between solar midnight and solar noon.
func (s *Sun) IsAscending(geo Geography) bool {
	return s.hourAngle(geo) < 0
}

// CurrentIllumination is the lux contributed at the location.
func (s *Sun) CurrentIllumination(geo Geography) float64 {
	elev := s.ElevationAngle(geo)
	switch {
	case elev <= astronomicalTwilight:
		return 0
	case elev <= 0:
		deg := elev * 180 / math.Pi
		return twilightIlluminance * math.Exp(deg/3)
	default:
		return twilightIlluminance + s.peakIlluminance*math.Sin(elev)
	}
}
