package app

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/session"
	"github.com/xy-planning-network/outpost/views"
)

// An Option configures a *Console under construction.
// Options run before New configures anything they leave unset.
type Option func(c *Console) error

// WithConfig replaces the Config New reads from the environment.
func WithConfig(cfg Config) Option {
	return func(c *Console) error {
		if err := cfg.Env.Valid(); err != nil {
			return err
		}

		c.cfg = cfg
		return nil
	}
}

// WithContext exposes the provided context.Context to the console.
// The web server stops when it ends.
func WithContext(ctx context.Context) Option {
	return func(c *Console) error {
		if ctx != nil {
			c.ctx = ctx
		}

		return nil
	}
}

// WithFlashStore keeps flashes in store.
func WithFlashStore(store flash.Storer) Option {
	return func(c *Console) error {
		c.flashes = store
		return nil
	}
}

// WithHTTPClient sets the *http.Client the API is called through.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Console) error {
		c.hc = hc
		return nil
	}
}

// WithLogger exposes the provided logger.Logger to the console.
func WithLogger(l logger.Logger) Option {
	return func(c *Console) error {
		c.l = l
		return nil
	}
}

// WithServer serves the console through s.
func WithServer(s *http.Server) Option {
	return func(c *Console) error {
		c.srv = s
		return nil
	}
}

// WithStorage keeps the operator's session state in s.
func WithStorage(s session.Storage) Option {
	return func(c *Console) error {
		c.storage = s
		return nil
	}
}

// WithViews replaces the embedded screens with those in fsys.
// fsys must hold views.Layout and every static screen.
func WithViews(fsys fs.FS) Option {
	return func(c *Console) error {
		if fsys == nil {
			return fmt.Errorf("nil views")
		}

		if _, err := fs.Stat(fsys, views.Layout); err != nil {
			return fmt.Errorf("views need %s: %w", views.Layout, err)
		}

		c.views = fsys
		return nil
	}
}
