package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/display"
	"github.com/futuremud/futuremud/internal/game"
)

// LookHandlerFactory creates handlers that display the current cell, or the
// cell through an exit.
// Config:
//   - direction (optional): direction to look
type LookHandlerFactory struct {
	world *game.World
}

// NewLookHandlerFactory creates a new LookHandlerFactory with access to world state.
func NewLookHandlerFactory(world *game.World) *LookHandlerFactory {
	return &LookHandlerFactory{world: world}
}

func (f *LookHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "direction", Required: false},
		},
	}
}

func (f *LookHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *LookHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}

		if dir := cmdCtx.Config["direction"]; dir != "" {
			return f.lookThrough(cmdCtx, cell, dir)
		}

		cmdCtx.Actor.Send(describeCell(cell, cmdCtx.Actor))
		return nil
	}, nil
}

func (f *LookHandlerFactory) lookThrough(cmdCtx *CommandContext, cell *game.Cell, arg string) error {
	dir, err := game.ParseDirection(arg)
	if err != nil {
		return NewUserError(fmt.Sprintf("%q is not a direction.", arg))
	}
	exit, ok := f.world.Exits.ExitFrom(cell, dir)
	if !ok {
		return NewUserError(fmt.Sprintf("There is no exit %s.", dir))
	}
	if !exit.IsOpen() {
		return NewUserError(fmt.Sprintf("The door %s is closed.", dir))
	}
	cmdCtx.Actor.Send(exit.Destination(cell).HowSeen(cmdCtx.Actor, game.DescLong))
	return nil
}

// describeCell renders the cell with whoever and whatever is in it.
func describeCell(cell *game.Cell, viewer *actor.Character) string {
	lines := []string{cell.HowSeen(viewer, game.DescFull)}

	for _, ch := range cell.Characters() {
		if ch.ID() == viewer.ID() {
			continue
		}
		lines = append(lines, display.Highlight(fmt.Sprintf("%s is here, %s.", ch.Name(), ch.Layer()), display.Yellow))
	}
	for _, it := range cell.Items() {
		lines = append(lines, display.Highlight(fmt.Sprintf("%s lies here, %s.", display.Capitalize(it.Name()), it.Layer()), display.Green))
	}
	return strings.Join(lines, "\n")
}

func actorCell(cmdCtx *CommandContext) (*game.Cell, error) {
	cell := cmdCtx.Actor.Location()
	if cell == nil {
		return nil, NewUserError("You are in an invalid location.")
	}
	return cell, nil
}
