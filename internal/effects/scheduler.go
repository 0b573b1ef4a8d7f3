package effects

import (
	"time"

	timer "github.com/xiaonanln/goTimer"
)

// Duration is how long a scheduled effect lasts.
type Duration = time.Duration

// Scheduler runs effect expiries on the shared game timer. Callbacks run
// from the game loop's timer.Tick.
type Scheduler struct {
	pending map[*timer.Timer]struct{}
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[*timer.Timer]struct{})}
}

// Schedule runs fn once after d. The returned function cancels it.
func (s *Scheduler) Schedule(d Duration, fn func()) func() {
	var t *timer.Timer
	t = timer.AddCallback(d, func() {
		delete(s.pending, t)
		fn()
	})
	s.pending[t] = struct{}{}
	return func() {
		if _, ok := s.pending[t]; !ok {
			return
		}
		delete(s.pending, t)
		t.Cancel()
	}
}

// Pending reports the scheduled callbacks that have not yet run.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// CancelAll drops every scheduled callback.
func (s *Scheduler) CancelAll() {
	for t := range s.pending {
		t.Cancel()
	}
	s.pending = make(map[*timer.Timer]struct{})
}
