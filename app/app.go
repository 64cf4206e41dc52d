package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/http/req"
	"github.com/xy-planning-network/outpost/http/resp"
	"github.com/xy-planning-network/outpost/http/router"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/nav"
	"github.com/xy-planning-network/outpost/session"
	"github.com/xy-planning-network/outpost/spritecache"
	"github.com/xy-planning-network/outpost/views"
)

// A Console manages and exposes all components of the outpost console to one another.
type Console struct {
	*resp.Responder
	*router.Router

	cfg       Config
	client    *client.Client
	ctx       context.Context
	flashes   flash.Storer
	hc        *http.Client
	l         logger.Logger
	parser    *req.Parser
	registrar *nav.Registrar
	session   *session.Store
	srv       *http.Server
	storage   session.Storage
	table     *router.Table
	views     fs.FS
}

// New constructs a Console from the provided options.
// Anything an option does not set is configured from Config,
// which New reads from the environment unless WithConfig replaces it.
func New(opts ...Option) (*Console, error) {
	c := &Console{cfg: NewConfig(), ctx: context.Background(), views: views.FS}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("%w: %s", outpost.ErrBadConfig, err)
		}
	}

	if c.l == nil {
		c.l = defaultLogger(c.cfg.Env, c.cfg.LogLevel, c.cfg.SentryDSN)
	}

	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base URL %q: %s", outpost.ErrBadConfig, c.cfg.BaseURL, err)
	}

	if c.storage == nil {
		if c.storage, err = defaultStorage(c.ctx, c.cfg); err != nil {
			return nil, err
		}
	}

	if c.flashes == nil {
		if c.flashes, err = defaultFlashStore(c.cfg, c.l); err != nil {
			return nil, err
		}
	}

	c.session, err = session.Load(c.ctx, c.storage, session.WithLogger(c.l))
	if err != nil {
		return nil, err
	}

	c.client, err = client.New(
		c.cfg.APIBaseURL,
		c.session,
		client.WithHTTPClient(c.hc),
		client.WithLogger(c.l),
		client.WithSpriteCache(spritecache.New()),
	)
	if err != nil {
		return nil, err
	}

	loc, err := defaultLocator(c.cfg.Env, base, c.views, c.pages())
	if err != nil {
		return nil, err
	}

	static, err := router.StaticRoutes(loc)
	if err != nil {
		return nil, err
	}

	if c.table, err = router.NewTable(static...); err != nil {
		return nil, err
	}

	c.registrar, err = nav.NewRegistrar(
		c.client.Routes,
		loc,
		c.table,
		nav.WithBackoff(c.cfg.BackoffBase, c.cfg.BackoffMax),
		nav.WithLoadTimeout(c.cfg.LoadTimeout),
		nav.WithLogger(c.l),
	)
	if err != nil {
		return nil, err
	}

	c.Responder = resp.NewResponder(resp.WithLogger(c.l), resp.WithRootUrl(base.String()))
	c.parser = req.NewParser()

	guard, err := nav.NewGuard(c.Responder, c.registrar, c.table, c.session, c.l)
	if err != nil {
		return nil, err
	}
	c.Router = c.routes(guard)

	if c.srv == nil {
		c.srv = defaultServer(c.ctx, c.cfg.Port, c.cfg.ReadTimeout, c.cfg.IdleTimeout, c.cfg.WriteTimeout)
	}
	c.srv.Handler = c.Router

	c.l.Debug("console configured", &logger.LogContext{Data: map[string]any{
		"api":     c.cfg.APIBaseURL,
		"baseURL": base.String(),
		"views":   loc.Keys(),
	}})

	return c, nil
}

func (c *Console) EmitClient() *client.Client       { return c.client }
func (c *Console) EmitLogger() logger.Logger        { return c.l }
func (c *Console) EmitRegistrar() *nav.Registrar    { return c.registrar }
func (c *Console) EmitSessionStore() *session.Store { return c.session }

// Guide begins the console's web server.
//
// These, and (*Console).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (c *Console) Guide() error { return guide(c.ctx, c.srv, c.l) }

// Shutdown shutdowns the console's web server.
func (c *Console) Shutdown() error { return shutdown(c.srv, c.l) }

// guide serves srv until ctx ends or a shutdown signal arrives.
func guide(ctx context.Context, srv *http.Server, l logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	errc := make(chan error, 1)
	go func() {
		l.Info(fmt.Sprintf("running web server at %s", srv.Addr), nil)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("could not listen: %w", err)
			cancel()
		}
	}()

	<-ctx.Done()
	if err := shutdown(srv, l); err != nil {
		return err
	}

	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

func shutdown(srv *http.Server, l logger.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.Info("shutting down web server", nil)
	err := srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	l.Info("web server shutdown successfully", nil)
	return nil
}
