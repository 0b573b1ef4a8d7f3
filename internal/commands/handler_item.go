package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/game"
)

const itemHelp = `You can use the following options with this command:

	list - lists the items in the cell you are in
	new <name> <weight> <density> [<lux>] - creates an item in the cell you are in`

// ItemHandlerFactory creates handlers that load test items into cells.
// Config:
//   - args (required): the sub-command and its arguments
type ItemHandlerFactory struct {
	world *game.World
}

func NewItemHandlerFactory(world *game.World) *ItemHandlerFactory {
	return &ItemHandlerFactory{world: world}
}

func (f *ItemHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *ItemHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *ItemHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}

		ss := cmdCtx.Args("args")
		switch ss.PopLower() {
		case "list", "":
			cmdCtx.Actor.Send(listNamed("Items here:", cell.Items(), func(it game.Item) string {
				return fmt.Sprintf("on %s", it.Layer())
			}))
			return nil
		case "new", "create", "load":
			return f.newItem(ctx, cmdCtx, cell, ss)
		default:
			return NewUserError(itemHelp)
		}
	}, nil
}

func (f *ItemHandlerFactory) newItem(ctx context.Context, cmdCtx *CommandContext, cell *game.Cell, ss *game.StringStack) error {
	name := ss.Pop()
	weight, err1 := strconv.ParseFloat(ss.Pop(), 64)
	density, err2 := strconv.ParseFloat(ss.Pop(), 64)
	if name == "" || err1 != nil || err2 != nil || weight < 0 || density <= 0 {
		return NewUserError("You must give the item a name, a weight and a positive density.")
	}
	var lux float64
	if arg := ss.Pop(); arg != "" {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v < 0 {
			return NewUserError("The light of an item must be a non-negative number of lux.")
		}
		lux = v
	}

	id, err := f.world.DB().NextID(ctx, "items")
	if err != nil {
		return fmt.Errorf("allocating item id: %w", err)
	}
	it := actor.NewItem(id, name, weight, density)
	it.SetLight(lux)
	if err := cell.Insert(it); err != nil {
		return err
	}
	f.world.AddItem(it)
	cmdCtx.Actor.Send(fmt.Sprintf("You create item #%d (%s) in cell #%d.", id, name, cell.ID()))
	return nil
}
