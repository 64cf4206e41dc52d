package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/http/middleware"
	"github.com/xy-planning-network/outpost/http/req"
	"github.com/xy-planning-network/outpost/http/resp"
	"github.com/xy-planning-network/outpost/http/router"
	"github.com/xy-planning-network/outpost/logger"
)

const (
	LogoutPath       = "/logout"
	RoutesAdminPath  = "/admin/routes"
	PlayersAdminPath = "/admin/users"
	SpriteImagePath  = "/sprites/image/"
)

// routes constructs the router serving the console:
// form posts are handled by actions, and every other GET navigates through guard.
func (c *Console) routes(guard http.Handler) *router.Router {
	r := router.New(c.cfg.Env, nil, nil)
	r.OnEveryRequest(
		middleware.ForceHTTPS(c.cfg.Env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(c.l),
		middleware.InjectFlash(c.flashes),
	)

	r.UnauthedRoutes(c.Responder, c.session, []router.Route{
		{Path: router.LoginPath, Method: http.MethodPost, Handler: c.login},
		{Path: router.RegisterPath, Method: http.MethodPost, Handler: c.register},
	})

	r.AuthedRoutes(c.Responder, c.session, router.LoginPath, []router.Route{
		{Path: LogoutPath, Method: http.MethodPost, Handler: c.logout},
		{Path: RoutesAdminPath, Method: http.MethodPost, Handler: c.createRoute},
		{Path: RoutesAdminPath + "/{id:[0-9]+}/delete", Method: http.MethodPost, Handler: c.deleteRoute},
		{Path: PlayersAdminPath + "/{id:[0-9]+}/roles", Method: http.MethodPost, Handler: c.updatePlayerRoles},
		{Path: SpriteImagePath + "{path:.+}", Method: http.MethodGet, Handler: c.spriteImage},
	})

	r.CatchAll(guard)

	return r
}

type credentialsForm struct {
	Pseudo   string `schema:"pseudo" validate:"required"`
	Password string `schema:"password" validate:"required"`
}

type registerForm struct {
	Pseudo   string `schema:"pseudo" validate:"required"`
	Password string `schema:"password" validate:"required,min=8"`
}

type routeForm struct {
	Name          string `schema:"name" validate:"required,routename"`
	ComponentPath string `schema:"componentPath" validate:"required,view"`
	NeedAuth      bool   `schema:"needAuth"`
	RoleName      string `schema:"roleName" validate:"omitempty,uppercase"`
}

func (rf routeForm) descriptor() outpost.RouteDescriptor {
	rd := outpost.RouteDescriptor{
		Name:          strings.TrimSpace(rf.Name),
		ComponentPath: strings.TrimSpace(rf.ComponentPath),
		NeedAuth:      rf.NeedAuth,
	}

	if role := strings.TrimSpace(rf.RoleName); role != "" {
		rd.RoleName = &role
	}

	return rd
}

type rolesForm struct {
	Roles []string `schema:"roles"`
}

// login signs the operator in and reloads the routes the catalog now offers them.
func (c *Console) login(w http.ResponseWriter, r *http.Request) {
	var form credentialsForm
	if err := c.parser.ParseForm(r, &form); err != nil {
		c.fail(w, r, router.LoginPath, err)
		return
	}

	lr, err := c.client.Auth.Login(r.Context(), outpost.Credentials{Pseudo: form.Pseudo, Password: form.Password})
	if err != nil {
		c.fail(w, r, router.LoginPath, err)
		return
	}

	c.registrar.Invalidate()
	c.redirect(w, r, resp.Url(router.RootPath), resp.Success(fmt.Sprintf(flash.WelcomeMsg, lr.Pseudo)))
}

func (c *Console) register(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := c.parser.ParseForm(r, &form); err != nil {
		c.fail(w, r, router.RegisterPath, err)
		return
	}

	creds := outpost.Credentials{Pseudo: strings.TrimSpace(form.Pseudo), Password: form.Password}
	if err := c.client.Auth.Register(r.Context(), creds); err != nil {
		c.fail(w, r, router.RegisterPath, err)
		return
	}

	c.redirect(w, r, resp.Url(router.LoginPath), resp.Success("Account created, you can log in now."))
}

func (c *Console) logout(w http.ResponseWriter, r *http.Request) {
	if err := c.client.Auth.Logout(r.Context()); err != nil {
		c.Err(w, r, err)
		return
	}

	c.registrar.Invalidate()
	c.redirect(w, r, resp.Url(router.LoginPath), resp.Flash(flash.Info(flash.LoggedOutMsg)))
}

// createRoute adds a route to the catalog and reloads routes so it is navigable.
func (c *Console) createRoute(w http.ResponseWriter, r *http.Request) {
	var form routeForm
	if err := c.parser.ParseForm(r, &form); err != nil {
		c.fail(w, r, RoutesAdminPath, err)
		return
	}

	rd, err := c.client.Routes.Create(r.Context(), form.descriptor())
	if err != nil {
		c.fail(w, r, RoutesAdminPath, err)
		return
	}

	c.registrar.Invalidate()
	c.redirect(w, r, resp.Url(RoutesAdminPath), resp.Success(fmt.Sprintf("Route %s created.", rd.Name)))
}

// deleteRoute removes a route from the catalog.
// The navigation table only grows: the route stays navigable until the console restarts.
func (c *Console) deleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, RoutesAdminPath, err)
		return
	}

	if err := c.client.Routes.Remove(r.Context(), id); err != nil {
		c.fail(w, r, RoutesAdminPath, err)
		return
	}

	c.redirect(w, r, resp.Url(RoutesAdminPath), resp.Success("Route deleted."))
}

func (c *Console) updatePlayerRoles(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		c.fail(w, r, PlayersAdminPath, err)
		return
	}

	var form rolesForm
	if err := c.parser.ParseForm(r, &form); err != nil {
		c.fail(w, r, PlayersAdminPath, err)
		return
	}

	pr, err := c.client.Players.UpdateRoles(r.Context(), id, form.Roles)
	if err != nil {
		c.fail(w, r, PlayersAdminPath, err)
		return
	}

	msg := fmt.Sprintf("Roles of %s updated.", pr.Pseudo)
	if pr.Pseudo == c.session.State().Pseudo {
		c.registrar.Invalidate()
	}

	c.redirect(w, r, resp.Url(PlayersAdminPath), resp.Success(msg))
}

// spriteImage proxies a sprite image from the API through the sprite cache.
func (c *Console) spriteImage(w http.ResponseWriter, r *http.Request) {
	blob, err := c.client.Sprites.Image(r.Context(), mux.Vars(r)["path"])
	if err != nil {
		code := http.StatusBadGateway
		var apiErr *client.Error
		if errors.As(err, &apiErr) && apiErr.Status >= http.StatusBadRequest && apiErr.Status < http.StatusInternalServerError {
			code = apiErr.Status
		}

		c.l.Warn("failed fetching sprite image", &logger.LogContext{Error: err, Request: r})
		http.Error(w, http.StatusText(code), code)
		return
	}

	if blob.ContentType != "" {
		w.Header().Set("Content-Type", blob.ContentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(blob.Data)
}

// fail redirects to after telling the operator what went wrong.
// The API client already notifies the operator of failed calls.
func (c *Console) fail(w http.ResponseWriter, r *http.Request, to string, err error) {
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		if errors.Is(err, client.ErrSessionInvalid) {
			to = router.LoginPath
		}

		c.redirect(w, r, resp.Url(to))
		return
	}

	c.l.Debug("rejecting form", &logger.LogContext{Error: err, Request: r})
	c.redirect(w, r, resp.Url(to), resp.Flash(flash.Warning(notice(err))))
}

func (c *Console) redirect(w http.ResponseWriter, r *http.Request, opts ...resp.Fn) {
	if err := c.Redirect(w, r, opts...); err != nil {
		c.Err(w, r, err)
	}
}

// notice phrases err for the operator.
func notice(err error) string {
	var verrs req.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, len(verrs))
		for i, ve := range verrs {
			fields[i] = ve.Field
		}

		return fmt.Sprintf("Check %s.", strings.Join(fields, ", "))
	}

	switch {
	case errors.Is(err, outpost.ErrMissingData), errors.Is(err, outpost.ErrNotValid):
		return flash.BadInputMsg
	default:
		return flash.DefaultErrMsg
	}
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id %q", outpost.ErrNotValid, mux.Vars(r)["id"])
	}

	return uint(id), nil
}
