package storage

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/pixil98/go-errors"
)

// Storer is a read-only keyed view over loaded specs.
type Storer[T ValidatingSpec] interface {
	Lookup(id string) (T, bool)
	Keys() []string
}

// records is the immutable map shared by every store. Nothing writes to it
// after construction, so reads need no locking.
type records[T ValidatingSpec] map[string]T

func (r records[T]) Lookup(id string) (T, bool) {
	v, ok := r[id]
	return v, ok
}

// Keys returns every id in sorted order.
func (r records[T]) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// FileStore holds every *.json asset found under a directory tree. Assets are
// read once at construction and never written back.
type FileStore[T ValidatingSpec] struct {
	records[T]
}

// NewFileStore walks dir and loads each asset. Every broken file is reported
// in the returned error rather than just the first.
func NewFileStore[T ValidatingSpec](dir string) (*FileStore[T], error) {
	s := &FileStore[T]{records: records[T]{}}
	origin := map[string]string{}
	el := errors.NewErrorList()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		asset, err := readAsset[T](path)
		if err != nil {
			el.Add(fmt.Errorf("%s: %w", rel, err))
			return nil
		}
		if prev, dup := origin[asset.ID]; dup {
			el.Add(fmt.Errorf("%s: id %q already defined in %s", rel, asset.ID, prev))
			return nil
		}

		origin[asset.ID] = rel
		s.records[asset.ID] = asset.Spec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading assets from %s: %w", dir, err)
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	slog.Debug("loaded assets", "dir", dir, "count", len(s.records))
	return s, nil
}

func readAsset[T ValidatingSpec](path string) (*Asset[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var asset Asset[T]
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	return &asset, nil
}

// MapStore serves specs defined in code.
type MapStore[T ValidatingSpec] struct {
	records[T]
}

// NewMapStore validates every entry the same way a loaded asset would be.
func NewMapStore[T ValidatingSpec](specs map[string]T) (*MapStore[T], error) {
	el := errors.NewErrorList()
	for _, id := range slices.Sorted(maps.Keys(specs)) {
		a := Asset[T]{Version: AssetVersion, ID: id, Spec: specs[id]}
		if err := a.Validate(); err != nil {
			el.Add(fmt.Errorf("%s: %w", id, err))
		}
	}
	if err := el.Err(); err != nil {
		return nil, err
	}
	return &MapStore[T]{records: maps.Clone(records[T](specs))}, nil
}
