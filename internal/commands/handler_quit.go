package commands

import (
	"context"
	"fmt"

	"github.com/futuremud/futuremud/internal/game"
)

// QuitHandlerFactory creates handlers that save the world and end the session.
type QuitHandlerFactory struct {
	world *game.World
}

func NewQuitHandlerFactory(world *game.World) *QuitHandlerFactory {
	return &QuitHandlerFactory{world: world}
}

func (f *QuitHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *QuitHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *QuitHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if err := f.world.Saves.Flush(ctx); err != nil {
			return fmt.Errorf("saving world on quit: %w", err)
		}

		cmdCtx.Actor.Send("Goodbye.")
		cmdCtx.Session.Quit = true
		return nil
	}, nil
}
