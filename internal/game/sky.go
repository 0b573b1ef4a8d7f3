package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/storage"
)

// CreateClock adds a clock to the shard starting at year one, day zero,
// midnight.
func (w *World) CreateClock(ctx context.Context, s *Shard, name string, daysPerYear int) (*celestial.Clock, error) {
	if daysPerYear <= 0 {
		return nil, NewUserError("A clock needs a positive number of days per year.")
	}
	id, err := w.db.NextID(ctx, "clocks")
	if err != nil {
		return nil, fmt.Errorf("allocating clock id: %w", err)
	}
	c := celestial.NewClock(id, name, daysPerYear, celestial.Time{Year: 1})
	e := &clockEntry{clock: c, shard: s.id}
	if err := w.db.Tx(ctx, func(tx *storage.Tx) error { return tx.SaveClock(e.Record()) }); err != nil {
		return nil, fmt.Errorf("inserting clock %d: %w", id, err)
	}
	s.addClock(c)
	w.clocks[id] = e
	slog.Info("created clock", "clock", id, "shard", s.id)
	return c, nil
}

// CreateCalendar adds a calendar used to work out seasons.
func (w *World) CreateCalendar(ctx context.Context, s *Shard, name string, daysPerYear int) (*celestial.Calendar, error) {
	if daysPerYear <= 0 {
		return nil, NewUserError("A calendar needs a positive number of days per year.")
	}
	id, err := w.db.NextID(ctx, "calendars")
	if err != nil {
		return nil, fmt.Errorf("allocating calendar id: %w", err)
	}
	cal := &celestial.Calendar{ID: id, Name: name, DaysPerYear: daysPerYear}
	rec := storage.CalendarRecord{ID: id, ShardID: s.id, Name: name, DaysPerYear: daysPerYear}
	if err := w.db.Tx(ctx, func(tx *storage.Tx) error { return tx.SaveCalendar(rec) }); err != nil {
		return nil, fmt.Errorf("inserting calendar %d: %w", id, err)
	}
	s.addCalendar(cal)
	return cal, nil
}

// CreateSun adds a sun driven by clock to the shard's sky. A non-positive
// peak uses the default noon illuminance.
func (w *World) CreateSun(ctx context.Context, s *Shard, clock *celestial.Clock, name string, peak float64) (*celestial.Sun, error) {
	e, ok := w.clocks[clock.ID()]
	if !ok || e.shard != s.id {
		return nil, fmt.Errorf("clock %d is not a clock of shard %d", clock.ID(), s.id)
	}
	id, err := w.db.NextID(ctx, "celestials")
	if err != nil {
		return nil, fmt.Errorf("allocating celestial id: %w", err)
	}
	sun := celestial.NewSun(id, name, clock, peak)
	rec := storage.CelestialRecord{ID: id, ShardID: s.id, ClockID: clock.ID(), Name: name, PeakIlluminance: sun.PeakIlluminance()}
	if err := w.db.Tx(ctx, func(tx *storage.Tx) error { return tx.SaveCelestial(rec) }); err != nil {
		sun.Close()
		return nil, fmt.Errorf("inserting celestial %d: %w", id, err)
	}
	w.celestials[id] = rec
	s.AddCelestial(sun)
	return sun, nil
}
