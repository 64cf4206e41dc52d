package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/auth"
	"github.com/xy-planning-network/outpost/http/middleware"
	"github.com/xy-planning-network/outpost/http/req"
	"github.com/xy-planning-network/outpost/http/resp"
	"github.com/xy-planning-network/outpost/http/router"
	"github.com/xy-planning-network/outpost/logger"
)

// Error codes of JSON error bodies.
const (
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeInternal           = "INTERNAL_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "NOT_FOUND"
)

// A Handler serves the catalog API under /api.
type Handler struct {
	d        *resp.Responder
	env      outpost.Environment
	handler  http.Handler
	logger   logger.Logger
	origin   string
	parser   *req.Parser
	svc      *Service
	tokens   auth.TokenService
	visitors *middleware.Visitors
}

// A HandlerOpt configures a Handler.
type HandlerOpt func(*Handler)

// WithCORS allows browsers on origin to call the API.
func WithCORS(origin string) HandlerOpt {
	return func(h *Handler) { h.origin = origin }
}

// WithEnv sets the environment the Handler runs in.
func WithEnv(env outpost.Environment) HandlerOpt {
	return func(h *Handler) {
		if env.Valid() == nil {
			h.env = env
		}
	}
}

// WithLogger sets the logger requests and failures are logged to.
func WithLogger(l logger.Logger) HandlerOpt {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRateLimit limits how often an IP address may log in or register.
func WithRateLimit(v *middleware.Visitors) HandlerOpt {
	return func(h *Handler) { h.visitors = v }
}

// NewHandler constructs a Handler serving svc, authenticating players with tokens.
func NewHandler(svc *Service, tokens auth.TokenService, opts ...HandlerOpt) (*Handler, error) {
	if svc == nil || tokens == nil {
		return nil, fmt.Errorf("%w: catalog handler needs a service and tokens", outpost.ErrBadConfig)
	}

	h := &Handler{
		env:    outpost.Development,
		logger: logger.New(),
		parser: req.NewParser(),
		svc:    svc,
		tokens: tokens,
	}

	for _, opt := range opts {
		opt(h)
	}

	h.d = resp.NewResponder(resp.WithLogger(h.logger))
	h.handler = middleware.CORS(h.origin)(h.routes())

	return h, nil
}

// ServeHTTP responds to an HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) routes() http.Handler {
	rt := router.New(h.env, nil, nil)
	rt.OnEveryRequest(
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(h.logger),
		middleware.CurrentUser[outpost.PlayerRoles](h.d, h.identify, outpost.PlayerKey),
	)

	api := rt.Subrouter("/api")
	api.HandleRoutes([]router.Route{
		{Path: "/routes/available", Method: http.MethodGet, Handler: h.getAvailable},
	})

	api.HandleRoutes(
		[]router.Route{
			{Path: "/auth/login", Method: http.MethodPost, Handler: h.login},
			{Path: "/auth/register", Method: http.MethodPost, Handler: h.register},
		},
		middleware.RateLimit(h.visitors),
	)

	admin := middleware.NewAuthorizeApplicator[outpost.PlayerRoles](h.d, outpost.PlayerKey)
	api.HandleRoutes(
		[]router.Route{
			{Path: "/routes", Method: http.MethodGet, Handler: h.getRoutes},
			{Path: "/routes", Method: http.MethodPost, Handler: h.createRoute},
			{Path: "/routes", Method: http.MethodPut, Handler: h.updateRoute},
			{Path: "/routes/{id:[0-9]+}", Method: http.MethodDelete, Handler: h.deleteRoute},
			{Path: "/roles", Method: http.MethodGet, Handler: h.getRoles},
			{Path: "/players", Method: http.MethodGet, Handler: h.getPlayers},
			{Path: "/players/{id:[0-9]+}/roles", Method: http.MethodPut, Handler: h.updatePlayerRoles},
		},
		admin.Apply(func(p outpost.PlayerRoles) (string, bool) { return "", p.HasRole(AdminRole) }),
	)

	return rt
}

// identify resolves the bearer token of r into the player it was issued to.
func (h *Handler) identify(r *http.Request) (outpost.PlayerRoles, error) {
	pseudo, err := h.tokens.Authenticate(r)
	if err != nil {
		return outpost.PlayerRoles{}, err
	}

	player, err := h.svc.Player(r.Context(), pseudo)
	if errors.Is(err, outpost.ErrNotFound) {
		return outpost.PlayerRoles{}, &auth.TokenError{Reason: "player no longer exists"}
	}

	return player, err
}

// fail responds with the JSON error body matching err.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var fn resp.Fn
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		fn = resp.Fail(http.StatusUnauthorized, CodeInvalidCredentials, "wrong pseudo or password")
	case errors.Is(err, outpost.ErrExists):
		fn = resp.Fail(http.StatusConflict, CodeAlreadyExists, err.Error())
	case errors.Is(err, outpost.ErrNotFound):
		fn = resp.Fail(http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, outpost.ErrNotValid),
		errors.Is(err, outpost.ErrMissingData),
		errors.Is(err, outpost.ErrBadFormat):
		fn = resp.Fail(http.StatusBadRequest, CodeInvalidRequest, err.Error())
	default:
		h.d.Json(w, r, resp.Err(err), resp.Fail(http.StatusInternalServerError, CodeInternal, "something went wrong"))
		return
	}

	h.d.Json(w, r, fn)
}

func currentPlayer(r *http.Request) *outpost.PlayerRoles {
	player, ok := r.Context().Value(outpost.PlayerKey).(outpost.PlayerRoles)
	if !ok {
		return nil
	}

	return &player
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %s", outpost.ErrNotValid, err)
	}

	return uint(id), nil
}

// **************************************************************************
// AUTH
// **************************************************************************

type credentialsInput struct {
	Pseudo   string `json:"pseudo" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (in credentialsInput) credentials() outpost.Credentials {
	return outpost.Credentials{Pseudo: strings.TrimSpace(in.Pseudo), Password: in.Password}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	if err := h.parser.ParseBody(r.Body, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	player, err := h.svc.Login(r.Context(), in.credentials())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.tokens.Issue(player.Pseudo)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(outpost.LoginResponse{Pseudo: player.Pseudo, Token: token}))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	if err := h.parser.ParseBody(r.Body, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	player, err := h.svc.Register(r.Context(), in.credentials())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusCreated), resp.Data(player))
}

// **************************************************************************
// ROUTES
// **************************************************************************

type routeInput struct {
	ID            *uint   `json:"id"`
	Name          string  `json:"name" validate:"required,routename"`
	ComponentPath string  `json:"componentPath" validate:"required,view"`
	NeedAuth      bool    `json:"needAuth"`
	RoleName      *string `json:"roleName"`
}

func (in routeInput) descriptor() outpost.RouteDescriptor {
	return outpost.RouteDescriptor{
		ID:            in.ID,
		Name:          in.Name,
		ComponentPath: in.ComponentPath,
		NeedAuth:      in.NeedAuth,
		RoleName:      in.RoleName,
	}
}

// routeFilter narrows GET /api/routes.
type routeFilter struct {
	NeedAuth *bool  `schema:"needAuth"`
	Role     string `schema:"role" validate:"omitempty,uppercase"`
}

func (f routeFilter) keep(rd outpost.RouteDescriptor) bool {
	if f.NeedAuth != nil && rd.NeedAuth != *f.NeedAuth {
		return false
	}

	return f.Role == "" || rd.Role() == f.Role
}

func (h *Handler) getAvailable(w http.ResponseWriter, r *http.Request) {
	rds, err := h.svc.Available(r.Context(), currentPlayer(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(rds))
}

func (h *Handler) getRoutes(w http.ResponseWriter, r *http.Request) {
	var f routeFilter
	if err := h.parser.ParseQueryParams(r.URL.Query(), &f); err != nil {
		h.fail(w, r, err)
		return
	}

	rds, err := h.svc.All(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	kept := make([]outpost.RouteDescriptor, 0, len(rds))
	for _, rd := range rds {
		if f.keep(rd) {
			kept = append(kept, rd)
		}
	}

	h.d.Json(w, r, resp.Data(kept))
}

func (h *Handler) createRoute(w http.ResponseWriter, r *http.Request) {
	var in routeInput
	if err := h.parser.ParseBody(r.Body, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	rd, err := h.svc.Create(r.Context(), in.descriptor())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusCreated), resp.Data(rd))
}

func (h *Handler) updateRoute(w http.ResponseWriter, r *http.Request) {
	var in routeInput
	if err := h.parser.ParseBody(r.Body, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	rd, err := h.svc.Update(r.Context(), in.descriptor())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(rd))
}

func (h *Handler) deleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r)
}

// **************************************************************************
// PLAYERS & ROLES
// **************************************************************************

func (h *Handler) getRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.Roles(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(roles))
}

func (h *Handler) getPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.svc.Players(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(players))
}

func (h *Handler) updatePlayerRoles(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var names []string
	if err := h.parser.ParseBody(r.Body, &names); err != nil {
		h.fail(w, r, err)
		return
	}

	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}

	player, err := h.svc.UpdateRoles(r.Context(), id, names)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(player))
}
