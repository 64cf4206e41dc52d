package router

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/middleware"
	"github.com/xy-planning-network/outpost/http/resp"
)

const assetsPath = "/assets/"

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path        string
	Method      string
	Handler     http.HandlerFunc
	Middlewares []middleware.Adapter
}

// Router routes the console's action requests: form posts, asset files, and the sprite proxy.
// Every other GET request funnels through CatchAll to the navigation guard.
type Router struct {
	env           outpost.Environment
	everyReqStack []middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
//
// If assets is not nil, requests under /assets/ are served from it and logged with logReq.
func New(env outpost.Environment, assets fs.FS, logReq middleware.Adapter) *Router {
	r := mux.NewRouter()
	if logReq == nil {
		logReq = middleware.NoopAdapter
	}

	if assets != nil {
		r.PathPrefix(assetsPath).Handler(middleware.Chain(
			http.StripPrefix(assetsPath, http.FileServer(http.FS(assets))),
			cacheControlMiddleware(),
			logReq,
		))
	}

	return &Router{env: env, r: r}
}

// AuthedRoutes registers the set of Routes as those requiring authentication.
// AuthedRoutes applies the given middlewares before performing that check,
// using middleware.RequireAuthed.
func (r *Router) AuthedRoutes(
	d *resp.Responder,
	auth middleware.Authenticator,
	loginUrl string,
	routes []Route,
	middlewares ...middleware.Adapter,
) {
	mws := append(middlewares, middleware.RequireAuthed(d, auth, loginUrl))
	r.HandleRoutes(routes, mws...)
}

// CatchAll funnels every GET request no other Route matched to handler.
// Register it last.
func (r *Router) CatchAll(handler http.Handler) {
	r.r.Path(CatchAllPath).Methods(http.MethodGet, http.MethodHead).Handler(
		middleware.Chain(
			middleware.ReportPanic(r.env)(handler),
			r.everyReqStack...,
		),
	)
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := append(append([]middleware.Adapter{}, r.everyReqStack...), middlewares...)
		mws = append(mws, route.Middlewares...)
		handler := middleware.Chain(middleware.ReportPanic(r.env)(route.Handler), mws...)
		r.r.Handle(route.Path, handler).Methods(route.Method)
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api") handles requests to endpoints like /api/routes
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		env:           r.env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		everyReqStack: r.everyReqStack,
	}
}

// UnauthedRoutes registers the set of Routes as those requiring unauthenticated users.
// It applies the given middlewares before performing that check.
func (r *Router) UnauthedRoutes(
	d *resp.Responder,
	auth middleware.Authenticator,
	routes []Route,
	middlewares ...middleware.Adapter,
) {
	r.HandleRoutes(routes, append(middlewares, middleware.RequireUnauthed(d, auth))...)
}

// cacheControlMiddleware helps by adding a "Cache-Control" header to the response.
func cacheControlMiddleware() middleware.Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "max-age=2592000") // 30 days
			handler.ServeHTTP(w, r)
		})
	}
}
