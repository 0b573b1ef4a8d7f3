package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/weather"
)

const weatherHelp = `You can use the following options with this command:

	show - shows the weather where you are
	list - lists every weather controller
	new <name> <temperature> [<seed>] - creates a weather controller
	set <controller> <precipitation> <wind> [<temperature>] - forces the weather`

// WeatherHandlerFactory creates handlers that inspect and control weather.
// Config:
//   - args (required): the sub-command and its arguments
type WeatherHandlerFactory struct {
	world *game.World
}

func NewWeatherHandlerFactory(world *game.World) *WeatherHandlerFactory {
	return &WeatherHandlerFactory{world: world}
}

func (f *WeatherHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *WeatherHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *WeatherHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		ss := cmdCtx.Args("args")
		switch ss.PopLower() {
		case "show", "":
			cell, err := actorCell(cmdCtx)
			if err != nil {
				return err
			}
			wc := cell.WeatherControllerFor(cmdCtx.Actor)
			if wc == nil {
				cmdCtx.Actor.Send(fmt.Sprintf("No weather reaches this cell. It is %.1fC.", cell.CurrentTemperature(cmdCtx.Actor)))
				return nil
			}
			cmdCtx.Actor.Send(fmt.Sprintf("%s (#%d): %s. It feels like %.1fC here.",
				wc.Name(), wc.ID(), wc.CurrentWeather().Describe(), cell.CurrentTemperature(cmdCtx.Actor)))
			return nil
		case "list":
			cmdCtx.Actor.Send(listNamed("Weather controllers:", f.world.WeatherControllers.All(), func(wc game.WeatherController) string {
				return wc.CurrentWeather().Describe()
			}))
			return nil
		case "new", "create":
			return f.newController(ctx, cmdCtx, ss)
		case "set":
			return f.set(cmdCtx, ss)
		default:
			return NewUserError(weatherHelp)
		}
	}, nil
}

func (f *WeatherHandlerFactory) newController(ctx context.Context, cmdCtx *CommandContext, ss *game.StringStack) error {
	name := ss.Pop()
	temp, err := strconv.ParseFloat(ss.Pop(), 64)
	if name == "" || err != nil {
		return NewUserError("You must give the controller a name and a base temperature.")
	}
	id, err := f.world.DB().NextID(ctx, "weather_controllers")
	if err != nil {
		return fmt.Errorf("allocating weather controller id: %w", err)
	}
	seed := id
	if arg := ss.Pop(); arg != "" {
		if seed, err = strconv.ParseInt(arg, 10, 64); err != nil {
			return NewUserError(fmt.Sprintf("%q is not a valid seed.", arg))
		}
	}
	wc := weather.NewController(id, name, weather.State{Temperature: temp}, seed)
	f.world.AddWeatherController(wc)
	cmdCtx.Actor.Send(fmt.Sprintf("You create weather controller #%d (%s).", id, name))
	return nil
}

func (f *WeatherHandlerFactory) set(cmdCtx *CommandContext, ss *game.StringStack) error {
	arg := ss.Pop()
	found, ok := f.world.WeatherControllers.GetByIDOrName(arg)
	if !ok {
		return NewUserError(fmt.Sprintf("There is no weather controller identified by %q.", arg))
	}
	wc, ok := found.(*weather.Controller)
	if !ok {
		return NewUserError(fmt.Sprintf("%s cannot be controlled by hand.", found.Name()))
	}

	next := wc.CurrentWeather()
	precip, err := weather.ParsePrecipitation(ss.Pop())
	if err != nil {
		return NewUserError(err.Error())
	}
	wind, err := weather.ParseWind(ss.Pop())
	if err != nil {
		return NewUserError(err.Error())
	}
	next.Precipitation, next.Wind = precip, wind
	if arg := ss.Pop(); arg != "" {
		if next.Temperature, err = strconv.ParseFloat(arg, 64); err != nil {
			return NewUserError(fmt.Sprintf("%q is not a valid temperature.", arg))
		}
	}
	wc.SetWeather(next)
	f.world.WeatherChanged(wc)
	cmdCtx.Actor.Send(fmt.Sprintf("The weather of %s is now %s.", wc.Name(), next.Describe()))
	return nil
}

// SkyHandlerFactory creates handlers that describe the sky overhead.
type SkyHandlerFactory struct{}

func NewSkyHandlerFactory() *SkyHandlerFactory {
	return &SkyHandlerFactory{}
}

func (f *SkyHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *SkyHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *SkyHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}
		shard, err := actorShard(cmdCtx)
		if err != nil {
			return err
		}
		lux := cell.IlluminationFor(cmdCtx.Actor)
		msg := shard.DescribeSky(lux)
		if cmdCtx.Actor.IsAdministrator() {
			msg += fmt.Sprintf(" (%.2f lux, %.2f mag/arcsec2)", lux, shard.SkyMagnitude(lux))
		}
		cmdCtx.Actor.Send(msg)
		return nil
	}, nil
}

// TimeHandlerFactory creates handlers that tell the local time of every
// clock in the actor's shard.
type TimeHandlerFactory struct{}

func NewTimeHandlerFactory() *TimeHandlerFactory {
	return &TimeHandlerFactory{}
}

func (f *TimeHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *TimeHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *TimeHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}
		zone := cell.Zone()
		if zone == nil || zone.Shard() == nil {
			return NewUserError("Time has no meaning here.")
		}
		clocks := zone.Shard().Clocks()
		if len(clocks) == 0 {
			return NewUserError("No clocks keep time here.")
		}

		var lines []string
		for _, c := range clocks {
			lines = append(lines, fmt.Sprintf("%s: %s", c.Name(), zone.LocalTime(c)))
		}
		if tod, ok := zone.CurrentTimeOfDay(); ok {
			lines = append(lines, fmt.Sprintf("It is %s.", tod))
		}
		if season, ok := zone.CurrentSeason(); ok {
			lines = append(lines, fmt.Sprintf("It is %s.", season))
		}
		cmdCtx.Actor.Send(strings.Join(lines, "\n"))
		return nil
	}, nil
}
