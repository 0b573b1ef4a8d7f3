package command

import (
	"context"
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/futuremud/futuremud/internal/actor"
	"github.com/futuremud/futuremud/internal/commands"
	"github.com/futuremud/futuremud/internal/storage"
)

type StorageConfig struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`

	Commands       AssetConfig[*commands.Command]    `json:"commands"`
	Profiles       AssetConfig[*actor.Profile]       `json:"profiles"`
	StartLocations AssetConfig[*actor.StartLocation] `json:"start_locations"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Driver {
	case storage.DriverSQLite, storage.DriverMySQL:
	default:
		el.Add(fmt.Errorf("storage: unsupported driver %q", c.Driver))
	}
	if c.DSN == "" {
		el.Add(fmt.Errorf("storage: dsn is required"))
	}

	el.Add(c.Commands.Validate("commands"))
	el.Add(c.Profiles.Validate("profiles"))
	el.Add(c.StartLocations.Validate("start_locations"))
	return el.Err()
}

func (c *StorageConfig) openDB(ctx context.Context) (*storage.DB, error) {
	return storage.Open(ctx, c.Driver, c.DSN)
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
