package heartbeat

import (
	"context"
	"log/slog"
	"time"

	timer "github.com/xiaonanln/goTimer"
)

// Interval is one of the fixed heartbeat periods.
type Interval int

const (
	FiveSeconds Interval = iota
	ThirtySeconds
	OneMinute
	TenMinutes
	Hourly
)

var intervals = []Interval{FiveSeconds, ThirtySeconds, OneMinute, TenMinutes, Hourly}

func (i Interval) Duration() time.Duration {
	switch i {
	case FiveSeconds:
		return 5 * time.Second
	case ThirtySeconds:
		return 30 * time.Second
	case OneMinute:
		return time.Minute
	case TenMinutes:
		return 10 * time.Minute
	default:
		return time.Hour
	}
}

func (i Interval) String() string {
	switch i {
	case FiveSeconds:
		return "5s"
	case ThirtySeconds:
		return "30s"
	case OneMinute:
		return "1m"
	case TenMinutes:
		return "10m"
	default:
		return "1h"
	}
}

// Manager fans heartbeat intervals out to subscribers. It is not safe for
// concurrent use and must be driven from the game loop.
type Manager struct {
	subs    map[Interval]map[int]func()
	nextSub int
	timers  []*timer.Timer
}

func NewManager() *Manager {
	m := &Manager{
		subs: make(map[Interval]map[int]func()),
	}
	for _, i := range intervals {
		m.subs[i] = make(map[int]func())
	}
	return m
}

// Subscribe registers fn for an interval. The returned function removes it.
func (m *Manager) Subscribe(i Interval, fn func()) func() {
	id := m.nextSub
	m.nextSub++
	m.subs[i][id] = fn
	return func() {
		delete(m.subs[i], id)
	}
}

// SubscriberCount reports the live subscriptions for an interval.
func (m *Manager) SubscriberCount(i Interval) int {
	return len(m.subs[i])
}

// Fire runs every subscriber of an interval immediately.
func (m *Manager) Fire(i Interval) {
	// Subscribers commonly unsubscribe themselves while firing.
	fns := make([]func(), 0, len(m.subs[i]))
	for _, fn := range m.subs[i] {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

// Start schedules the repeating timers. Call Tick from the game loop to run them.
func (m *Manager) Start() {
	for _, i := range intervals {
		i := i
		m.timers = append(m.timers, timer.AddTimer(i.Duration(), func() {
			m.Fire(i)
		}))
	}
	slog.Info("heartbeat started", "intervals", len(intervals))
}

// Stop cancels the repeating timers.
func (m *Manager) Stop() {
	for _, t := range m.timers {
		t.Cancel()
	}
	m.timers = nil
}

// Tick runs any timers that are due.
func (m *Manager) Tick(ctx context.Context) error {
	timer.Tick()
	return nil
}
