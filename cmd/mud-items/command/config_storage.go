package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/player"
	"github.com/pixil98/go-mud-items/internal/storage"
)

// StorageConfig selects the persistence backend. Setting sqlite wins;
// otherwise both file-store paths must be provided.
type StorageConfig struct {
	Sqlite     SqliteConfig                      `json:"sqlite"`
	Containers AssetConfig[*container.Container] `json:"containers"`
	Players    AssetConfig[*player.Player]       `json:"players"`
}

func (c *StorageConfig) Validate() error {
	if c.Sqlite.Path != "" {
		return c.Sqlite.Validate()
	}

	el := errors.NewErrorList()
	el.Add(c.Containers.Validate("containers"))
	el.Add(c.Players.Validate("players"))
	return el.Err()
}

func (c *StorageConfig) BuildStore() (container.Store, error) {
	if c.Sqlite.Path != "" {
		s, err := storage.OpenSQLite(c.Sqlite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	}

	containers, err := c.Containers.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating container store: %w", err)
	}
	players, err := c.Players.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}
	return storage.NewItemStore(containers, players), nil
}

type SqliteConfig struct {
	Path string `json:"path"`
}

func (c *SqliteConfig) Validate() error {
	if fi, err := os.Stat(c.Path); err == nil && fi.IsDir() {
		return fmt.Errorf("sqlite: path %q is a directory", c.Path)
	}
	return nil
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
