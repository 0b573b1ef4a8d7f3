package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/futuremud/futuremud/internal/game"
)

// WhoHandlerFactory creates handlers that list online characters.
type WhoHandlerFactory struct {
	world *game.World
}

// NewWhoHandlerFactory creates a new WhoHandlerFactory.
func NewWhoHandlerFactory(world *game.World) *WhoHandlerFactory {
	return &WhoHandlerFactory{world: world}
}

func (f *WhoHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *WhoHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *WhoHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		lines := []string{"Characters Online:"}
		for _, ch := range f.world.Characters.All() {
			line := ch.Name()
			// Builders see where everyone is.
			if cmdCtx.Actor.IsAdministrator() {
				if loc := ch.Location(); loc != nil {
					line = fmt.Sprintf("%-20s cell #%d (%s)", ch.Name(), loc.ID(), loc.Name())
				}
			}
			lines = append(lines, "  "+line)
		}
		cmdCtx.Actor.Send(strings.Join(lines, "\n"))
		return nil
	}, nil
}
