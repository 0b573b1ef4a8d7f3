package game

import (
	"log/slog"
	"slices"

	"github.com/futuremud/futuremud/internal/heartbeat"
	"github.com/futuremud/futuremud/internal/storage"
	"github.com/futuremud/futuremud/internal/weather"
)

// CheckFallExitStatus subscribes the cell to the fall, wind and sink ticks
// it currently needs and drops the ones it does not.
func (c *Cell) CheckFallExitStatus() {
	needFall, needWind, needSink := false, false, false
	if !c.destroyed {
		fallExit := c.fallExit()
		for _, o := range c.Occupants() {
			l := o.Layer()
			switch {
			case l.IsInAir():
				needFall = needFall || c.shouldFall(o)
			case l == GroundLevel:
				needFall = needFall || (fallExit != nil && c.shouldFall(o))
			case l.IsPerched():
				needWind = true
			case l.IsUnderwater():
				needSink = true
			}
		}
	}
	c.fallSub = c.toggleTick(c.fallSub, needFall, heartbeat.FiveSeconds, c.fallTick)
	c.windSub = c.toggleTick(c.windSub, needWind, heartbeat.OneMinute, c.windTick)
	c.sinkSub = c.toggleTick(c.sinkSub, needSink, heartbeat.ThirtySeconds, c.sinkTick)
}

func (c *Cell) toggleTick(sub func(), need bool, i heartbeat.Interval, fn func()) func() {
	switch {
	case need && sub == nil:
		return c.world.heartbeat.Subscribe(i, fn)
	case !need && sub != nil:
		sub()
		return nil
	}
	return sub
}

// TickSubscriptions reports which physics ticks the cell is subscribed to.
func (c *Cell) TickSubscriptions() (fall, wind, sink bool) {
	return c.fallSub != nil, c.windSub != nil, c.sinkSub != nil
}

// fallExit is a down exit that lets things fall through, if the cell has
// solid ground to fall from.
func (c *Cell) fallExit() *Exit {
	if layers := c.Terrain().Layers(); len(layers) == 0 || layers[0] != GroundLevel {
		return nil
	}
	return c.world.Exits.FallExit(c)
}

func (c *Cell) shouldFall(o Occupant) bool {
	if f, ok := TryGetCapability[Flier](o); ok && f.CanFly() {
		return false
	}
	return true
}

func (c *Cell) setLayer(o Occupant, l RoomLayer) {
	o.SetLayer(l)
	if _, ok := o.(Item); ok {
		c.markChanged(storage.CellContentsChanged)
	}
}

func (c *Cell) emote(tmpl string, o Occupant) {
	text, err := c.world.tuning.Emote(tmpl, o.Name(), false)
	if err != nil {
		slog.Warn("rendering emote", "cell", c.id, "error", err)
		return
	}
	c.Echo(text)
}

func (c *Cell) fallTick() {
	t := c.world.tuning
	fallExit := c.fallExit()
	for _, o := range c.Occupants() {
		if o.Location() != c || !c.shouldFall(o) {
			continue
		}
		switch {
		case o.Layer().IsInAir():
			c.setLayer(o, c.TerrainFor(o).HandleEnterLayers(GroundLevel))
			c.emote(t.FallEmote, o)
		case o.Layer() == GroundLevel && fallExit != nil:
			dest := fallExit.Destination(c)
			if dest == nil {
				continue
			}
			c.emote(t.FallThroughEmote, o)
			if err := c.moveOccupant(o, dest, dest.TerrainFor(o).HandleEnterLayers(HighInAir)); err != nil {
				slog.Warn("falling through exit", "cell", c.id, "exit", fallExit.ID(), "error", err)
			}
		}
	}
	c.CheckFallExitStatus()
}

func (c *Cell) windTick() {
	t := c.world.tuning
	for _, o := range c.Occupants() {
		if o.Location() != c || !o.Layer().IsPerched() {
			continue
		}
		state, ok := c.CurrentWeather(o)
		if !ok {
			continue
		}
		if c.blownDown(o, state) {
			c.setLayer(o, c.TerrainFor(o).HandleEnterLayers(GroundLevel))
			c.emote(t.WindFallEmote, o)
		}
	}
	c.CheckFallExitStatus()
}

func (c *Cell) blownDown(o Occupant, state weather.State) bool {
	t := c.world.tuning
	switch v := o.(type) {
	case Character:
		if wr, ok := TryGetCapability[WindResister](v); ok {
			d := Difficulty(int(state.Wind) + t.WindFallDifficulty).Clamp()
			return !wr.AvoidFallDueToWind(d)
		}
		return state.Wind >= weather.StrongWind
	case Item:
		limit, err := t.TreeFallLimit(int(state.Wind))
		if err != nil {
			slog.Warn("evaluating tree fall weight", "cell", c.id, "error", err)
			return false
		}
		return v.Weight() > limit
	}
	return false
}

func (c *Cell) sinkTick() {
	t := c.world.tuning
	for _, o := range c.Occupants() {
		if o.Location() != c || !o.Layer().IsUnderwater() {
			continue
		}
		terrain := c.TerrainFor(o)
		liquid, ok := terrain.Liquid(c.world.Fluids)
		if !ok {
			continue
		}
		if le, ok := TryGetCapability[LiquidExposable](o); ok {
			le.ExposeToLiquid(liquid)
		}
		if _, isItem := o.(Item); !isItem {
			continue
		}
		b, ok := TryGetCapability[Buoyant](o)
		if !ok || b.Anchored() || b.Density() <= liquid.Density {
			continue
		}
		layers := terrain.Layers()
		i := slices.Index(layers, o.Layer())
		if i <= 0 {
			continue
		}
		c.setLayer(o, layers[i-1])
		if i-1 == 0 {
			c.emote(t.SettleEmote, o)
		} else {
			c.emote(t.SinkEmote, o)
		}
	}
	c.CheckFallExitStatus()
}

// EffectiveForagableProfile is the cell's own profile or its terrain's.
func (c *Cell) EffectiveForagableProfile() *ForagableProfile {
	if c.ForagableProfile != nil {
		return c.ForagableProfile
	}
	if t := c.Terrain(); t != nil {
		return t.ForagableProfile
	}
	return nil
}

func (c *Cell) checkForageStatus() {
	need := !c.destroyed && c.EffectiveForagableProfile() != nil
	c.forageSub = c.toggleTick(c.forageSub, need, heartbeat.Hourly, c.regenerateYields)
}

func (c *Cell) regenerateYields() {
	p := c.EffectiveForagableProfile()
	if p == nil {
		return
	}
	changed := false
	for _, kind := range sortedKeys(p.Yields) {
		y := p.Yields[kind]
		cur, ok := c.yields[kind]
		if !ok {
			cur = y.Maximum
		}
		next := min(y.Maximum, cur+y.HourlyRegain)
		if !ok || next != cur {
			c.yields[kind] = next
			changed = true
		}
	}
	if changed {
		c.markChanged(storage.CellYieldsChanged)
	}
}
