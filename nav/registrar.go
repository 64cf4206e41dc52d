package nav

//go:generate mockgen -destination navmock/catalog.go -package navmock . CatalogClient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/http/router"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/view"
)

const (
	DefaultBackoffBase = time.Second
	DefaultBackoffMax  = time.Minute
	DefaultLoadTimeout = 10 * time.Second
)

// A CatalogClient lists the routes the catalog makes available to the operator.
type CatalogClient interface {
	GetAvailable(ctx context.Context) ([]outpost.RouteDescriptor, error)
}

// A RouteAdder installs ViewRoutes into a navigation table.
type RouteAdder interface {
	Add(vr router.ViewRoute) error
}

// A ViewResolver finds the view of a component path.
type ViewResolver interface {
	Resolve(componentPath string) (view.Loader, error)
	Fallback() view.Loader
}

// State is where a Registrar stands in loading dynamic routes.
type State int

const (
	NotStarted State = iota
	InFlight
	Done
)

func (s State) String() string {
	switch s {
	case InFlight:
		return "in flight"
	case Done:
		return "done"
	default:
		return "not started"
	}
}

// An attempt is one pass at loading dynamic routes.
// done closes once err is set.
type attempt struct {
	done chan struct{}
	err  error
}

// A Registrar loads the routes the catalog makes available into a navigation table.
//
// A Registrar is the only writer of dynamic routes:
// it adds them the first time a pass succeeds,
// and again after Invalidate, which the console calls on login and logout
// since the routes available depend on who is logged in.
type Registrar struct {
	catalog CatalogClient
	views   ViewResolver
	table   RouteAdder

	backoffBase time.Duration
	backoffMax  time.Duration
	loadTimeout time.Duration
	logger      logger.Logger
	now         func() time.Time

	mu       sync.Mutex
	state    State
	pending  *attempt
	failures int
	lastErr  error
	retryAt  time.Time
	stale    bool
}

// A RegistrarOpt configures a Registrar when calling NewRegistrar.
type RegistrarOpt func(*Registrar)

// WithBackoff sets how long a Registrar waits after the first failure, doubling each
// consecutive failure up to max.
func WithBackoff(base, max time.Duration) RegistrarOpt {
	return func(r *Registrar) {
		if base > 0 {
			r.backoffBase = base
		}

		if max >= base {
			r.backoffMax = max
		}
	}
}

// WithClock sets the clock backoff windows are measured with.
func WithClock(now func() time.Time) RegistrarOpt {
	return func(r *Registrar) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLoadTimeout bounds a single pass at loading dynamic routes.
func WithLoadTimeout(d time.Duration) RegistrarOpt {
	return func(r *Registrar) {
		if d > 0 {
			r.loadTimeout = d
		}
	}
}

// WithLogger sets the logger.Logger failures are reported to.
func WithLogger(l logger.Logger) RegistrarOpt {
	return func(r *Registrar) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistrar constructs a Registrar adding the routes of catalog, resolved by views, to table.
func NewRegistrar(catalog CatalogClient, views ViewResolver, table RouteAdder, opts ...RegistrarOpt) (*Registrar, error) {
	if catalog == nil || views == nil || table == nil {
		return nil, fmt.Errorf("%w: registrar needs a catalog, views, and a table", outpost.ErrBadConfig)
	}

	r := &Registrar{
		catalog:     catalog,
		views:       views,
		table:       table,
		backoffBase: DefaultBackoffBase,
		backoffMax:  DefaultBackoffMax,
		loadTimeout: DefaultLoadTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.New()
	}

	return r, nil
}

// State reports where r stands.
func (r *Registrar) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Invalidate marks loaded routes stale so the next EnsureLoaded runs a new pass,
// such as after the operator signs in and more routes become available.
// Routes already in the table stay; re-adding them is skipped.
func (r *Registrar) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case InFlight:
		r.stale = true
	case Done:
		r.state = NotStarted
	}
	r.failures = 0
	r.lastErr = nil
	r.retryAt = time.Time{}
}

// EnsureLoaded returns once dynamic routes are in the table or the pass loading them failed.
//
// Callers arriving while a pass is in flight wait on that same pass and see its outcome.
// After a failure, calls fail with ErrBackoff until the backoff window closes,
// at which point the next call starts a new pass.
//
// The pass runs detached from ctx: a caller giving up returns ctx.Err()
// while everyone else keeps waiting on the pass.
func (r *Registrar) EnsureLoaded(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case Done:
		r.mu.Unlock()
		return nil
	case InFlight:
		a := r.pending
		r.mu.Unlock()
		return wait(ctx, a)
	}

	if now := r.now(); now.Before(r.retryAt) {
		err := fmt.Errorf("%w for %s: %w", ErrBackoff, r.retryAt.Sub(now).Round(time.Millisecond), r.lastErr)
		r.mu.Unlock()
		return err
	}

	a := &attempt{done: make(chan struct{})}
	r.state = InFlight
	r.pending = a
	r.mu.Unlock()

	go r.run(context.WithoutCancel(ctx), a)

	return wait(ctx, a)
}

func wait(ctx context.Context, a *attempt) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run performs the pass a stands for and settles r's state from its outcome.
func (r *Registrar) run(ctx context.Context, a *attempt) {
	ctx, cancel := context.WithTimeout(ctx, r.loadTimeout)
	defer cancel()

	err := r.register(ctx)

	r.mu.Lock()
	r.pending = nil
	switch {
	case err == nil && r.stale:
		r.state = NotStarted
		r.stale = false
	case err == nil:
		r.state = Done
		r.failures = 0
		r.lastErr = nil
	case errors.Is(err, client.ErrSessionInvalid):
		// the session is cleared; the next pass runs as a visitor
		r.state = NotStarted
		r.stale = false
	default:
		r.state = NotStarted
		r.stale = false
		r.failures++
		r.lastErr = err
		r.retryAt = r.now().Add(r.backoff(r.failures))
	}
	a.err = err
	r.mu.Unlock()

	close(a.done)
}

// backoff computes the window after the nth consecutive failure.
func (r *Registrar) backoff(n int) time.Duration {
	d := r.backoffBase
	for i := 1; i < n && d < r.backoffMax; i++ {
		d *= 2
	}

	if d > r.backoffMax {
		d = r.backoffMax
	}

	return d
}

// register fetches available routes and adds each to the table.
// Only fetching fails the pass; a route that cannot be added is logged and skipped.
func (r *Registrar) register(ctx context.Context) error {
	descs, err := r.catalog.GetAvailable(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCatalogFetch, err)
		r.logger.Error("failed loading dynamic routes", &logger.LogContext{
			Error: err,
			Data:  map[string]any{"failures": r.failuresSoFar() + 1},
		})
		return err
	}

	var added int
	for _, desc := range descs {
		data := map[string]any{"route": desc.Name, "componentPath": desc.ComponentPath}
		if err := desc.Valid(); err != nil {
			r.logger.Warn("skipping route", &logger.LogContext{Error: err, Data: data})
			continue
		}

		ld, err := r.views.Resolve(desc.ComponentPath)
		if err != nil {
			r.logger.Warn("substituting fallback view", &logger.LogContext{
				Error: fmt.Errorf("%w: %w", ErrViewResolutionMiss, err),
				Data:  data,
			})
			ld = r.views.Fallback()
		}

		vr := router.ViewRoute{
			Path:         desc.Template(),
			Name:         desc.Name,
			Loader:       ld,
			RequiresAuth: desc.NeedAuth,
			Role:         desc.Role(),
		}
		if err := r.table.Add(vr); errors.Is(err, outpost.ErrExists) {
			r.logger.Debug("route already registered", &logger.LogContext{Data: data})
			continue
		} else if err != nil {
			r.logger.Warn("skipping route", &logger.LogContext{Error: err, Data: data})
			continue
		}
		added++
	}

	r.logger.Info("loaded dynamic routes", &logger.LogContext{
		Data: map[string]any{"available": len(descs), "added": added},
	})

	return nil
}

func (r *Registrar) failuresSoFar() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.failures
}
