package command

import (
	"context"
	"log/slog"

	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/celestial"
	"github.com/futuremud/futuremud/internal/game"
	"github.com/futuremud/futuremud/internal/storage"
)

// bootstrap gives an empty world one room to stand in, and makes it the
// start location when none is configured.
func bootstrap(ctx context.Context, w *game.World, starts storage.Storer[*actor.StartLocation]) error {
	if w.Cells.Len() > 0 {
		return nil
	}

	if w.Terrains.Len() == 0 {
		if _, err := w.CreateTerrain(ctx, "open ground"); err != nil {
			return err
		}
	}
	shard, err := w.CreateShard(ctx, "Prime")
	if err != nil {
		return err
	}
	zone, err := w.CreateZone(ctx, shard, "Limbo", celestial.Geography{})
	if err != nil {
		return err
	}
	pkg, err := w.CreatePackage(ctx, "Genesis")
	if err != nil {
		return err
	}
	_, cell, err := w.CreateRoom(ctx, zone, pkg, 0, 0, 0)
	if err != nil {
		return err
	}
	if err := w.Saves.Flush(ctx); err != nil {
		return err
	}

	if len(starts.GetAll()) == 0 {
		if err := starts.Save("limbo", &actor.StartLocation{Name: "Limbo", Cell: cell.ID()}); err != nil {
			return err
		}
	}
	slog.InfoContext(ctx, "bootstrapped empty world", "cell", cell.ID())
	return nil
}
