package commands

import (
	"context"
	"fmt"

	"github.com/futuremud/futuremud/internal/game"
)

// SaveHandlerFactory creates handlers that flush pending world changes.
type SaveHandlerFactory struct {
	world *game.World
}

func NewSaveHandlerFactory(world *game.World) *SaveHandlerFactory {
	return &SaveHandlerFactory{world: world}
}

func (f *SaveHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *SaveHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *SaveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		saves, deferred := f.world.Saves.Pending()
		if saves+deferred == 0 {
			cmdCtx.Actor.Send("There is nothing to save.")
			return nil
		}

		if err := f.world.Saves.Flush(ctx); err != nil {
			return fmt.Errorf("saving world: %w", err)
		}

		cmdCtx.Actor.Send(fmt.Sprintf("World saved: %d changes and %d deletions.", saves, deferred))
		return nil
	}, nil
}

// Snapshotter writes a copy of the whole world somewhere and says where.
type Snapshotter interface {
	Snapshot(ctx context.Context, w *game.World) (string, error)
}

// SnapshotHandlerFactory creates handlers that export a world snapshot.
type SnapshotHandlerFactory struct {
	world *game.World
	snap  Snapshotter
}

func NewSnapshotHandlerFactory(world *game.World, snap Snapshotter) *SnapshotHandlerFactory {
	return &SnapshotHandlerFactory{world: world, snap: snap}
}

func (f *SnapshotHandlerFactory) Spec() *HandlerSpec {
	return nil
}

func (f *SnapshotHandlerFactory) ValidateConfig(config map[string]any) error {
	if f.snap == nil {
		return fmt.Errorf("snapshots are not configured")
	}
	return nil
}

func (f *SnapshotHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		path, err := f.snap.Snapshot(ctx, f.world)
		if err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}

		cmdCtx.Actor.Send(fmt.Sprintf("Snapshot written to %s.", path))
		return nil
	}, nil
}
