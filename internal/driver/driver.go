package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Millisecond * 250
)

// Manager is advanced once per driver tick. The world, which owns the
// heartbeat timers and the save queue, is the usual manager.
type Manager interface {
	Tick(context.Context) error
}

// MudDriver runs the single game loop goroutine.
type MudDriver struct {
	tickLength time.Duration
	managers   []Manager
	ticks      uint64
}

func NewMudDriver(managers []Manager, opts ...MudDriverOpt) *MudDriver {
	d := &MudDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start ticks until ctx is cancelled or a manager fails.
func (d *MudDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick", d.tickLength.String(), "managers", len(d.managers))
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "driver stopped", "ticks", d.ticks)
			return nil
		case <-ticker.C:
			start := time.Now()
			if err := d.Tick(ctx); err != nil {
				return err
			}
			if took := time.Since(start); took > d.tickLength {
				slog.WarnContext(ctx, "tick overran", "took", took.String(), "tick", d.tickLength.String())
			}
		}
	}
}

// Tick advances every manager once, in order.
func (d *MudDriver) Tick(ctx context.Context) error {
	d.ticks++
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *MudDriver) Ticks() uint64 {
	return d.ticks
}
