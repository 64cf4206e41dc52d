package nav

import (
	"context"
	"errors"
	"net/http"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/http/resp"
	"github.com/xy-planning-network/outpost/http/router"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/session"
)

// A Loader makes sure dynamic routes are loaded. See Registrar.
type Loader interface {
	EnsureLoaded(ctx context.Context) error
}

// A RouteMatcher finds the ViewRoute a request navigates to.
type RouteMatcher interface {
	Match(req *http.Request) (router.ViewRoute, int)
}

// A StateReader reads the operator's session.
type StateReader interface {
	State() session.State
}

// Guard serves every navigation of the console.
//
// It waits for dynamic routes, matches the navigation, applies Decide,
// and then either redirects or renders the matched view.
type Guard struct {
	d       *resp.Responder
	loader  Loader
	logger  logger.Logger
	routes  RouteMatcher
	session StateReader
}

// NewGuard constructs a Guard.
func NewGuard(d *resp.Responder, loader Loader, routes RouteMatcher, st StateReader, l logger.Logger) (*Guard, error) {
	if d == nil || loader == nil || routes == nil || st == nil {
		return nil, outpost.ErrBadConfig
	}

	if l == nil {
		l = logger.New()
	}

	return &Guard{d: d, loader: loader, logger: l, routes: routes, session: st}, nil
}

// ServeHTTP decides where the navigation r ends up.
//
// A failure loading dynamic routes leaves the navigation to the static routes;
// the Registrar has already reported it.
// A session the catalog just rejected is sent to log in again.
func (g *Guard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := g.loader.EnsureLoaded(r.Context()); err != nil {
		if r.Context().Err() != nil {
			return
		}

		if errors.Is(err, client.ErrSessionInvalid) && r.URL.Path != router.LoginPath {
			g.redirect(w, r, router.LoginPath)
			return
		}

		g.logger.Debug("navigating without dynamic routes", newLogContext(r, err))
	}

	vr, matched := g.routes.Match(r)
	st := g.session.State()

	if dec := Decide(Target{Path: r.URL.Path, RequiresAuth: vr.RequiresAuth}, matched, st); !dec.Proceed() {
		g.redirect(w, r, dec.Redirect)
		return
	}

	v, err := vr.Loader(r.Context())
	if errors.Is(err, client.ErrSessionInvalid) {
		g.redirect(w, r, router.LoginPath)
		return
	}

	if err != nil {
		g.logger.Error("failed loading view", newLogContext(r, err))
		if r.URL.Path == router.RootPath {
			g.d.Err(w, r, err)
			return
		}

		if err := g.d.Redirect(w, r, resp.Flash(flash.Error(flash.DefaultErrMsg))); err != nil {
			g.d.Err(w, r, err)
		}
		return
	}

	// Html reports failed renders itself.
	g.d.Html(w, r, resp.View(v), resp.Operator(st))
}

func (g *Guard) redirect(w http.ResponseWriter, r *http.Request, to string) {
	if err := g.d.Redirect(w, r, resp.Url(to)); err != nil {
		g.d.Err(w, r, err)
	}
}

func newLogContext(r *http.Request, err error) *logger.LogContext {
	return &logger.LogContext{Error: err, Request: r, Data: map[string]any{"path": r.URL.Path}}
}
