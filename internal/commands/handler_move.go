package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/futuremud/futuremud/internal/game"
)

// MoveHandlerFactory creates handlers that move builders between cells.
// Config:
//   - direction (required): the direction to move (north, northeast, ... up, down)
type MoveHandlerFactory struct {
	world *game.World
}

// NewMoveHandlerFactory creates a new MoveHandlerFactory with access to world state.
func NewMoveHandlerFactory(world *game.World) *MoveHandlerFactory {
	return &MoveHandlerFactory{world: world}
}

func (f *MoveHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "direction", Required: true},
		},
	}
}

func (f *MoveHandlerFactory) ValidateConfig(config map[string]any) error {
	direction, ok := config["direction"].(string)
	if !ok || direction == "" {
		return fmt.Errorf("direction is required")
	}
	if strings.Contains(direction, "{{") {
		return nil
	}
	if _, err := game.ParseDirection(direction); err != nil {
		return err
	}
	return nil
}

func (f *MoveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		from, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}

		dir, err := game.ParseDirection(cmdCtx.Config["direction"])
		if err != nil {
			return NewUserError(fmt.Sprintf("%q is not a direction.", cmdCtx.Config["direction"]))
		}

		exit, ok := f.world.Exits.ExitFrom(from, dir)
		if ok {
			o := from.GetOverlayFor(cmdCtx.Actor)
			ok = o != nil && o.ExitVisible(exit.ID())
		}
		if !ok {
			return NewUserError(fmt.Sprintf("You cannot go %s from here.", dir))
		}
		if !exit.IsOpen() {
			return NewUserError(fmt.Sprintf("The door %s is closed.", dir))
		}

		to := exit.Destination(from)
		return relocate(cmdCtx, from, to,
			fmt.Sprintf("%s leaves %s.", cmdCtx.Actor.Name(), dir),
			fmt.Sprintf("%s arrives from the %s.", cmdCtx.Actor.Name(), dir.Opposite()))
	}, nil
}

// GotoHandlerFactory creates handlers that move a builder straight to a cell.
type GotoHandlerFactory struct {
	world *game.World
}

func NewGotoHandlerFactory(world *game.World) *GotoHandlerFactory {
	return &GotoHandlerFactory{world: world}
}

func (f *GotoHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "cell", Required: true},
		},
	}
}

func (f *GotoHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *GotoHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		from, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}

		arg := cmdCtx.Config["cell"]
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return NewUserError("Which cell id do you want to go to?")
		}
		to, ok := f.world.Cells.Get(id)
		if !ok {
			return NewUserError(fmt.Sprintf("There is no cell #%d.", id))
		}
		if to == from {
			return NewUserError("You are already there.")
		}

		return relocate(cmdCtx, from, to,
			fmt.Sprintf("%s vanishes.", cmdCtx.Actor.Name()),
			fmt.Sprintf("%s appears.", cmdCtx.Actor.Name()))
	}, nil
}

// relocate moves the actor, tells both cells and shows the new one.
func relocate(cmdCtx *CommandContext, from, to *game.Cell, departure, arrival string) error {
	to.Echo(arrival)
	if err := cmdCtx.Actor.MoveTo(to); err != nil {
		return fmt.Errorf("moving character %d to cell %d: %w", cmdCtx.Actor.ID(), to.ID(), err)
	}
	from.Echo(departure)

	cmdCtx.Actor.Send(describeCell(to, cmdCtx.Actor))
	return nil
}
