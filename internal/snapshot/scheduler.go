package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/futuremud/futuremud/internal/game"
)

// Scheduler writes a backup snapshot of the world every interval and keeps
// only the newest few. It is ticked by the driver.
type Scheduler struct {
	world    *game.World
	writer   *Writer
	interval time.Duration
	keep     int
	last     time.Time
}

func NewScheduler(world *game.World, writer *Writer, interval time.Duration, keep int) *Scheduler {
	return &Scheduler{
		world:    world,
		writer:   writer,
		interval: interval,
		keep:     keep,
		last:     writer.now(),
	}
}

// Tick writes a snapshot once the interval has passed. A failed backup is
// logged and tried again on the next interval.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.writer.now()
	if s.interval <= 0 || now.Sub(s.last) < s.interval {
		return nil
	}
	s.last = now

	err := s.world.Do(func() error {
		_, err := s.writer.Snapshot(ctx, s.world)
		return err
	})
	if err != nil {
		slog.WarnContext(ctx, "backup snapshot failed", "error", err)
		return nil
	}
	if err := s.prune(); err != nil {
		slog.WarnContext(ctx, "pruning snapshots", "error", err)
	}
	return nil
}

// prune removes all but the newest keep snapshots. A keep of zero keeps
// everything.
func (s *Scheduler) prune() error {
	if s.keep <= 0 {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(s.writer.dir, "world-*"+Extension))
	if err != nil {
		return err
	}
	if len(matches) <= s.keep {
		return nil
	}
	slices.Sort(matches)
	for _, m := range matches[:len(matches)-s.keep] {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("removing %s: %w", filepath.Base(m), err)
		}
	}
	return nil
}
