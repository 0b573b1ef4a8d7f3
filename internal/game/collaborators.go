package game

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/futuremud/futuremud/internal/storage"
)

// Fluid is a liquid or gas that fills water layers or forms an atmosphere.
type Fluid struct {
	id      int64
	name    string
	IsGas   bool
	Density float64
}

func NewFluid(r storage.FluidRecord) *Fluid {
	return &Fluid{id: r.ID, name: r.Name, IsGas: r.IsGas, Density: r.Density}
}

func (f *Fluid) ID() int64    { return f.id }
func (f *Fluid) Name() string { return f.name }

func (f *Fluid) Record() storage.FluidRecord {
	return storage.FluidRecord{ID: f.id, Name: f.name, IsGas: f.IsGas, Density: f.Density}
}

// RangedCover is something to hide behind during ranged combat.
type RangedCover struct {
	id              int64
	name            string
	CoverType       int
	CoverExtent     int
	MaxSimultaneous int
}

func NewRangedCover(r storage.RangedCoverRecord) *RangedCover {
	return &RangedCover{
		id:              r.ID,
		name:            r.Name,
		CoverType:       r.CoverType,
		CoverExtent:     r.CoverExtent,
		MaxSimultaneous: r.MaxSimultaneous,
	}
}

func (c *RangedCover) ID() int64    { return c.id }
func (c *RangedCover) Name() string { return c.name }

func (c *RangedCover) Record() storage.RangedCoverRecord {
	return storage.RangedCoverRecord{
		ID:              c.id,
		Name:            c.name,
		CoverType:       c.CoverType,
		CoverExtent:     c.CoverExtent,
		MaxSimultaneous: c.MaxSimultaneous,
	}
}

// ProfileYield is the cap and regrowth rate of one foragable yield.
type ProfileYield struct {
	Maximum      float64
	HourlyRegain float64
}

// ForagableProfile describes what can be foraged from a location.
type ForagableProfile struct {
	id     int64
	name   string
	Yields map[string]ProfileYield
}

func NewForagableProfile(r storage.ForagableProfileRecord) *ForagableProfile {
	p := &ForagableProfile{id: r.ID, name: r.Name, Yields: make(map[string]ProfileYield)}
	for _, y := range r.Yields {
		p.Yields[y.Type] = ProfileYield{Maximum: y.Maximum, HourlyRegain: y.HourlyRegain}
	}
	return p
}

func (p *ForagableProfile) ID() int64    { return p.id }
func (p *ForagableProfile) Name() string { return p.name }

func (p *ForagableProfile) Record() storage.ForagableProfileRecord {
	r := storage.ForagableProfileRecord{ID: p.id, Name: p.name}
	for _, t := range sortedKeys(p.Yields) {
		y := p.Yields[t]
		r.Yields = append(r.Yields, storage.ProfileYieldRecord{Type: t, Maximum: y.Maximum, HourlyRegain: y.HourlyRegain})
	}
	return r
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
