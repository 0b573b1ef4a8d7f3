package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/game"
)

const zoneHelp = `You can use the following options with this command:

	list - lists every zone
	show [<zone>] - shows a zone, by default the one you are in
	new <name> - creates a zone in your shard with the geography of yours
	set <option> - edits the zone you are in
	edit <zone> <option> - edits another zone`

// ZoneHandlerFactory creates handlers that build zones.
// Config:
//   - args (required): the sub-command and its arguments
type ZoneHandlerFactory struct {
	world *game.World
}

func NewZoneHandlerFactory(world *game.World) *ZoneHandlerFactory {
	return &ZoneHandlerFactory{world: world}
}

func (f *ZoneHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *ZoneHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *ZoneHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		ss := cmdCtx.Args("args")
		switch ss.PopLower() {
		case "list":
			cmdCtx.Actor.Send(listNamed("Zones:", f.world.Zones.All(), func(z *game.Zone) string {
				if z.Shard() == nil {
					return ""
				}
				return "in " + z.Shard().Name()
			}))
			return nil
		case "show", "":
			z, err := f.zone(cmdCtx, ss.RemainingArgument())
			if err != nil {
				return err
			}
			cmdCtx.Actor.Send(showProperties(fmt.Sprintf("Zone #%d:", z.ID()), z))
			return nil
		case "new", "create":
			here, err := f.zone(cmdCtx, "")
			if err != nil {
				return err
			}
			name := ss.RemainingArgument()
			if name == "" {
				return NewUserError("What name do you want to give to the new zone?")
			}
			z, err := f.world.CreateZone(ctx, here.Shard(), name, here.Geography)
			if err != nil {
				return err
			}
			cmdCtx.Actor.Send(fmt.Sprintf("You create zone #%d (%s) in %s.", z.ID(), z.Name(), here.Shard().Name()))
			return nil
		case "set":
			z, err := f.zone(cmdCtx, "")
			if err != nil {
				return err
			}
			return runBuilder(cmdCtx, f.world, z, ss)
		case "edit":
			z, err := f.zone(cmdCtx, ss.Pop())
			if err != nil {
				return err
			}
			return runBuilder(cmdCtx, f.world, z, ss)
		default:
			return NewUserError(zoneHelp)
		}
	}, nil
}

// zone finds a zone by id or name, or the actor's zone when arg is empty.
func (f *ZoneHandlerFactory) zone(cmdCtx *CommandContext, arg string) (*game.Zone, error) {
	if arg == "" {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return nil, err
		}
		if z := cell.Zone(); z != nil && z.Shard() != nil {
			return z, nil
		}
		return nil, NewUserError("You are not in a zone.")
	}
	z, ok := f.world.Zones.GetByIDOrName(arg)
	if !ok {
		return nil, NewUserError(fmt.Sprintf("There is no zone identified by %q.", arg))
	}
	return z, nil
}

const shardHelp = `You can use the following options with this command:

	list - lists every shard
	show - shows the shard you are in
	new <name> - creates a shard
	set <option> - edits the shard you are in
	clock <name> <days per year> - adds a clock
	calendar <name> <days per year> - adds a calendar
	sun <name> <clock> [<peak lux>] - adds a sun driven by a clock`

// ShardHandlerFactory creates handlers that build shards and their skies.
// Config:
//   - args (required): the sub-command and its arguments
type ShardHandlerFactory struct {
	world *game.World
}

func NewShardHandlerFactory(world *game.World) *ShardHandlerFactory {
	return &ShardHandlerFactory{world: world}
}

func (f *ShardHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *ShardHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *ShardHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		ss := cmdCtx.Args("args")
		verb := ss.PopLower()
		switch verb {
		case "list":
			cmdCtx.Actor.Send(listNamed("Shards:", f.world.Shards.All(), nil))
			return nil
		case "new", "create":
			name := ss.RemainingArgument()
			if name == "" {
				return NewUserError("What name do you want to give to the new shard?")
			}
			s, err := f.world.CreateShard(ctx, name)
			if err != nil {
				return err
			}
			cmdCtx.Actor.Send(fmt.Sprintf("You create shard #%d (%s).", s.ID(), s.Name()))
			return nil
		case "show", "", "set", "clock", "calendar", "sun":
		default:
			return NewUserError(shardHelp)
		}

		shard, err := actorShard(cmdCtx)
		if err != nil {
			return err
		}
		switch verb {
		case "set":
			return runBuilder(cmdCtx, f.world, shard, ss)
		case "clock", "calendar":
			return f.addTimekeeper(ctx, cmdCtx, shard, verb, ss)
		case "sun":
			return f.addSun(ctx, cmdCtx, shard, ss)
		}
		cmdCtx.Actor.Send(f.show(shard))
		return nil
	}, nil
}

func (f *ShardHandlerFactory) show(s *game.Shard) string {
	lines := []string{showProperties(fmt.Sprintf("Shard #%d:", s.ID()), s)}
	for _, c := range s.Clocks() {
		lines = append(lines, fmt.Sprintf("  Clock #%d %s: %s", c.ID(), c.Name(), c.Now()))
	}
	for _, c := range s.Calendars() {
		lines = append(lines, fmt.Sprintf("  Calendar #%d %s: %d days", c.ID, c.Name, c.DaysPerYear))
	}
	for _, c := range s.Celestials() {
		lines = append(lines, fmt.Sprintf("  Celestial #%d %s", c.ID(), c.Name()))
	}
	return strings.Join(lines, "\n")
}

func (f *ShardHandlerFactory) addTimekeeper(ctx context.Context, cmdCtx *CommandContext, s *game.Shard, kind string, ss *game.StringStack) error {
	name := ss.Pop()
	days, err := strconv.Atoi(ss.Pop())
	if name == "" || err != nil {
		return NewUserError(fmt.Sprintf("You must give the %s a name and a number of days per year.", kind))
	}
	var id int64
	if kind == "clock" {
		c, err := f.world.CreateClock(ctx, s, name, days)
		if err != nil {
			return err
		}
		id = c.ID()
	} else {
		c, err := f.world.CreateCalendar(ctx, s, name, days)
		if err != nil {
			return err
		}
		id = c.ID
	}
	cmdCtx.Actor.Send(fmt.Sprintf("You add %s #%d (%s) to %s.", kind, id, name, s.Name()))
	return nil
}

func (f *ShardHandlerFactory) addSun(ctx context.Context, cmdCtx *CommandContext, s *game.Shard, ss *game.StringStack) error {
	name := ss.Pop()
	clockArg := ss.Pop()
	if name == "" || clockArg == "" {
		return NewUserError("You must give the sun a name and the clock that drives it.")
	}
	var clock *celestial.Clock
	for _, c := range s.Clocks() {
		if strings.EqualFold(c.Name(), clockArg) || strconv.FormatInt(c.ID(), 10) == clockArg {
			clock = c
			break
		}
	}
	if clock == nil {
		return NewUserError(fmt.Sprintf("There is no clock identified by %q in this shard.", clockArg))
	}
	var peak float64
	if arg := ss.Pop(); arg != "" {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v < 0 {
			return NewUserError("The peak illuminance must be a non-negative number of lux.")
		}
		peak = v
	}
	sun, err := f.world.CreateSun(ctx, s, clock, name, peak)
	if err != nil {
		return err
	}
	cmdCtx.Actor.Send(fmt.Sprintf("You add sun #%d (%s) to the sky of %s.", sun.ID(), sun.Name(), s.Name()))
	return nil
}

func actorShard(cmdCtx *CommandContext) (*game.Shard, error) {
	cell, err := actorCell(cmdCtx)
	if err != nil {
		return nil, err
	}
	if z := cell.Zone(); z != nil && z.Shard() != nil {
		return z.Shard(), nil
	}
	return nil, NewUserError("You are not in a shard.")
}

const areaHelp = `You can use the following options with this command:

	list - lists every area
	show <area> - shows an area
	new <name> - creates an area holding the room you are in
	edit <area> <option> - edits an area
	delete <area> - deletes an area`

// AreaHandlerFactory creates handlers that build areas.
// Config:
//   - args (required): the sub-command and its arguments
type AreaHandlerFactory struct {
	world *game.World
}

func NewAreaHandlerFactory(world *game.World) *AreaHandlerFactory {
	return &AreaHandlerFactory{world: world}
}

func (f *AreaHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *AreaHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *AreaHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		ss := cmdCtx.Args("args")
		verb := ss.PopLower()
		switch verb {
		case "list":
			cmdCtx.Actor.Send(listNamed("Areas:", f.world.Areas.All(), func(a *game.Area) string {
				return fmt.Sprintf("(%d rooms)", len(a.Rooms()))
			}))
			return nil
		case "new", "create":
			cell, err := actorCell(cmdCtx)
			if err != nil {
				return err
			}
			if cell.Room() == nil {
				return NewUserError("This cell is not in a room.")
			}
			name := ss.RemainingArgument()
			if name == "" {
				return NewUserError("What name do you want to give to the new area?")
			}
			a, err := f.world.CreateArea(ctx, name, cell.Room())
			if err != nil {
				return err
			}
			cmdCtx.Actor.Send(fmt.Sprintf("You create area #%d (%s).", a.ID(), a.Name()))
			return nil
		case "show", "edit", "delete":
		default:
			return NewUserError(areaHelp)
		}

		arg := ss.Pop()
		a, ok := f.world.Areas.GetByIDOrName(arg)
		if !ok {
			return NewUserError(fmt.Sprintf("There is no area identified by %q.", arg))
		}
		switch verb {
		case "edit":
			return runBuilder(cmdCtx, f.world, a, ss)
		case "delete":
			a.Destroy()
			cmdCtx.Actor.Send(fmt.Sprintf("You delete area #%d (%s).", a.ID(), a.Name()))
			return nil
		}
		cmdCtx.Actor.Send(showProperties(fmt.Sprintf("Area #%d:", a.ID()), a))
		return nil
	}, nil
}
