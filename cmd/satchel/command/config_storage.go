package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-satchel/internal/items"
	"github.com/pixil98/go-satchel/internal/storage"
)

type StorageConfig struct {
	Definitions AssetConfig[*items.Definition] `json:"definitions" envPrefix:"SATCHEL_DEFINITIONS_"`
}

func (c *StorageConfig) BuildCatalog() (*items.Catalog, error) {
	defs, err := c.Definitions.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating definition store: %w", err)
	}
	return items.NewCatalog(defs), nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Definitions.Validate("definitions"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path" env:"DIR"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	info, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %q is not a directory", name, c.Path)
	}
	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
