package commands

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/futuremud/futuremud/internal/game"
)

// RegisterDefaults registers every built-in handler factory under the name
// command definitions refer to it by. snap may be nil, in which case any
// snapshot command fails to compile.
func (h *Handler) RegisterDefaults(world *game.World, pub Publisher, snap Snapshotter) error {
	pkgs := NewPackageHandlerFactory(world)
	factories := map[string]HandlerFactory{
		"look":     NewLookHandlerFactory(world),
		"move":     NewMoveHandlerFactory(world),
		"goto":     NewGotoHandlerFactory(world),
		"message":  NewMessageHandlerFactory(pub),
		"who":      NewWhoHandlerFactory(world),
		"help":     NewHelpHandlerFactory(h.store),
		"quit":     NewQuitHandlerFactory(world),
		"save":     NewSaveHandlerFactory(world),
		"snapshot": NewSnapshotHandlerFactory(world, snap),
		"terrain":  NewTerrainHandlerFactory(world),
		"package":  pkgs,
		"cell":     &CellHandlerFactory{world: world, pkgs: pkgs},
		"overlay":  NewOverlayHandlerFactory(world),
		"room":     NewRoomHandlerFactory(world),
		"zone":     NewZoneHandlerFactory(world),
		"shard":    NewShardHandlerFactory(world),
		"area":     NewAreaHandlerFactory(world),
		"item":     NewItemHandlerFactory(world),
		"weather":  NewWeatherHandlerFactory(world),
		"sky":      NewSkyHandlerFactory(),
		"time":     NewTimeHandlerFactory(),
		"prop":     NewPropHandlerFactory(),
	}

	el := errors.NewErrorList()
	for name, f := range factories {
		if err := h.RegisterFactory(name, f); err != nil {
			el.Add(fmt.Errorf("registering %q: %w", name, err))
		}
	}
	return el.Err()
}
