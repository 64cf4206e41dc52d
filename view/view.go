package view

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xy-planning-network/outpost/http/flash"
)

var (
	ErrNotView  = errors.New("module is not a view")
	ErrNotFound = errors.New("view not found")
)

// Data is what a View renders.
type Data struct {
	// Path is the address navigated to.
	Path string

	// Pseudo is the logged in operator, if any.
	Pseudo        string
	Authenticated bool

	Flashes []flash.Flash

	// Payload is whatever the screen itself needs.
	Payload any
}

// A View renders one screen of the console.
type View interface {
	Render(w io.Writer, data Data) error
}

// Func adapts a function into a View.
type Func func(w io.Writer, data Data) error

func (fn Func) Render(w io.Writer, data Data) error { return fn(w, data) }

// A Module exposes its View as a default export.
type Module interface {
	Default() View
}

// A ModuleLoader loads a view module on demand.
// The value loaded is either a Module or a View.
type ModuleLoader func(ctx context.Context) (any, error)

// A Loader loads a View on demand.
type Loader func(ctx context.Context) (View, error)

// A strategy converts a loaded module into a View, reporting whether it could.
type strategy func(mod any) (View, bool)

// strategies are tried in order; a default export wins over the module itself.
var strategies = []strategy{
	func(mod any) (View, bool) {
		m, ok := mod.(Module)
		if !ok {
			return nil, false
		}

		v := m.Default()
		return v, v != nil
	},
	func(mod any) (View, bool) {
		v, ok := mod.(View)
		return v, ok && v != nil
	},
}

// Normalize converts ml into a Loader of the View the module exposes.
// A module exposing neither a default export nor being a View itself fails with ErrNotView.
func Normalize(ml ModuleLoader) Loader {
	return func(ctx context.Context) (View, error) {
		mod, err := ml(ctx)
		if err != nil {
			return nil, err
		}

		for _, s := range strategies {
			if v, ok := s(mod); ok {
				return v, nil
			}
		}

		return nil, fmt.Errorf("%w: %T", ErrNotView, mod)
	}
}

// A DataFunc fetches the Payload a view renders.
type DataFunc func(ctx context.Context) (any, error)

// withData wraps ml so the View it loads renders with the Payload fetch returns.
// A failed fetch fails the load.
func withData(ml ModuleLoader, fetch DataFunc) ModuleLoader {
	ld := Normalize(ml)
	return func(ctx context.Context) (any, error) {
		v, err := ld(ctx)
		if err != nil {
			return nil, err
		}

		payload, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		return Func(func(w io.Writer, data Data) error {
			data.Payload = payload
			return v.Render(w, data)
		}), nil
	}
}

// Static wraps an already constructed View in a Loader.
func Static(v View) Loader {
	return func(context.Context) (View, error) { return v, nil }
}
