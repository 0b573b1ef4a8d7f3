package commands

import (
	"context"
	"fmt"

	"github.com/futuremud/futuremud/internal/game"
)

const terrainHelp = `You can use the following options with this command:

	list - lists every terrain
	new <name> - creates a terrain
	show <terrain> - shows a terrain
	edit <terrain> <option> - edits a terrain, see terrain edit <terrain>`

// TerrainHandlerFactory creates handlers that build terrains.
// Config:
//   - args (required): the sub-command and its arguments
type TerrainHandlerFactory struct {
	world *game.World
}

func NewTerrainHandlerFactory(world *game.World) *TerrainHandlerFactory {
	return &TerrainHandlerFactory{world: world}
}

func (f *TerrainHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "args", Required: true},
		},
	}
}

func (f *TerrainHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *TerrainHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		ss := cmdCtx.Args("args")
		switch ss.PopLower() {
		case "list":
			cmdCtx.Actor.Send(listNamed("Terrains:", f.world.Terrains.All(), func(t *game.Terrain) string {
				if t.DefaultTerrain {
					return "(default)"
				}
				return ""
			}))
			return nil
		case "new", "create":
			name := ss.RemainingArgument()
			if name == "" {
				return NewUserError("What name do you want to give to the new terrain?")
			}
			t, err := f.world.CreateTerrain(ctx, name)
			if err != nil {
				return err
			}
			cmdCtx.Actor.Send(fmt.Sprintf("You create terrain #%d (%s).", t.ID(), t.Name()))
			return nil
		case "show", "view":
			t, err := f.terrain(ss.Pop())
			if err != nil {
				return err
			}
			cmdCtx.Actor.Send(showProperties(fmt.Sprintf("Terrain #%d:", t.ID()), t))
			return nil
		case "edit", "set":
			t, err := f.terrain(ss.Pop())
			if err != nil {
				return err
			}
			return runBuilder(cmdCtx, f.world, t, ss)
		default:
			return NewUserError(terrainHelp)
		}
	}, nil
}

func (f *TerrainHandlerFactory) terrain(arg string) (*game.Terrain, error) {
	if arg == "" {
		return nil, NewUserError("Which terrain do you mean?")
	}
	t, ok := f.world.Terrains.GetByIDOrName(arg)
	if !ok {
		return nil, NewUserError(fmt.Sprintf("There is no terrain identified by %q.", arg))
	}
	return t, nil
}
