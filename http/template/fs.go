package template

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// layeredFS implements fs.FS by opening a name from the first layer holding it.
// Which layer holds a name is remembered.
type layeredFS struct {
	layers []fs.FS

	mu    sync.RWMutex
	cache map[string]fs.FS
}

func newLayeredFS(layers ...fs.FS) *layeredFS {
	return &layeredFS{layers: layers, cache: make(map[string]fs.FS)}
}

// Open opens name from the remembered layer or searches the layers in order.
//
// A file removed from its layer after being remembered reports fs.ErrNotExist,
// as it would if it were never remembered.
func (lfs *layeredFS) Open(name string) (fs.File, error) {
	lfs.mu.RLock()
	layer, ok := lfs.cache[name]
	lfs.mu.RUnlock()
	if ok {
		return layer.Open(name)
	}

	for _, layer := range lfs.layers {
		f, err := layer.Open(name)
		if err == nil {
			lfs.mu.Lock()
			lfs.cache[name] = layer
			lfs.mu.Unlock()
			return f, nil
		}

		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrInvalid) {
			return nil, fmt.Errorf("unable to open template: %w", err)
		}
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
