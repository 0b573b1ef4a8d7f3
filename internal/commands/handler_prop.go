package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/futuremud/futuremud/internal/game"
)

// PropHandlerFactory creates handlers that evaluate a dotted property path
// against the actor's cell, such as zone.shard.name.
// Config:
//   - path (optional): the property path; without one the cell's
//     properties are listed
type PropHandlerFactory struct{}

func NewPropHandlerFactory() *PropHandlerFactory {
	return &PropHandlerFactory{}
}

func (f *PropHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "path", Required: false},
		},
	}
}

func (f *PropHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *PropHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		cell, err := actorCell(cmdCtx)
		if err != nil {
			return err
		}
		path := strings.TrimSpace(cmdCtx.Config["path"])
		if path == "" {
			cmdCtx.Actor.Send(fmt.Sprintf("Properties of a cell: %s", strings.Join(game.PropertyNames(cell), ", ")))
			return nil
		}
		v, err := game.ResolveProperty(cell, path)
		if err != nil {
			return NewUserError(err.Error())
		}
		cmdCtx.Actor.Send(fmt.Sprintf("%s = %s", path, formatProperty(v)))
		return nil
	}, nil
}
