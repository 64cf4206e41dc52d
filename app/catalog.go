package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/auth"
	"github.com/xy-planning-network/outpost/catalog"
	"github.com/xy-planning-network/outpost/http/middleware"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/postgres"
	"golang.org/x/time/rate"
)

const (
	// Each IP address may try logging in or registering once a second, bursting to loginBurst.
	loginRate  = rate.Limit(1)
	loginBurst = 5
)

// A CatalogServer serves the route catalog API the console reads its routes from.
type CatalogServer struct {
	cfg CatalogConfig
	ctx context.Context
	db  *postgres.DB
	h   *catalog.Handler
	l   logger.Logger
	svc *catalog.Service
	srv *http.Server
}

// A CatalogOption configures a *CatalogServer under construction.
type CatalogOption func(cs *CatalogServer) error

// WithCatalogConfig replaces the CatalogConfig NewCatalogServer reads from the environment.
func WithCatalogConfig(cfg CatalogConfig) CatalogOption {
	return func(cs *CatalogServer) error {
		if err := cfg.Env.Valid(); err != nil {
			return err
		}

		cs.cfg = cfg
		return nil
	}
}

// WithCatalogContext exposes the provided context.Context to the catalog server.
func WithCatalogContext(ctx context.Context) CatalogOption {
	return func(cs *CatalogServer) error {
		if ctx != nil {
			cs.ctx = ctx
		}

		return nil
	}
}

// WithDB exposes the provided *postgres.DB to the catalog server.
//
// WithDB assumes a connection has already been established and migrated.
func WithDB(db *postgres.DB) CatalogOption {
	return func(cs *CatalogServer) error {
		cs.db = db
		return nil
	}
}

// WithCatalogLogger exposes the provided logger.Logger to the catalog server.
func WithCatalogLogger(l logger.Logger) CatalogOption {
	return func(cs *CatalogServer) error {
		cs.l = l
		return nil
	}
}

// NewCatalogServer constructs a CatalogServer from the provided options.
// Without WithDB, it connects to Postgres and migrates the catalog's schema.
func NewCatalogServer(opts ...CatalogOption) (*CatalogServer, error) {
	cs := &CatalogServer{cfg: NewCatalogConfig(), ctx: context.Background()}
	for _, opt := range opts {
		if err := opt(cs); err != nil {
			return nil, fmt.Errorf("%w: %s", outpost.ErrBadConfig, err)
		}
	}

	if cs.l == nil {
		cs.l = defaultLogger(cs.cfg.Env, cs.cfg.LogLevel, cs.cfg.SentryDSN)
	}

	tokens, err := auth.NewService(cs.cfg.JWTSecret, auth.WithTTL(cs.cfg.JWTTTL))
	if err != nil {
		return nil, err
	}

	if cs.db == nil {
		if cs.db, err = postgres.Connect(cs.cfg.DB, catalog.Migrations(), cs.cfg.Env); err != nil {
			return nil, err
		}
	}
	cs.svc = catalog.NewService(cs.db)

	cs.h, err = catalog.NewHandler(
		cs.svc,
		tokens,
		catalog.WithCORS(cs.cfg.CORSOrigin),
		catalog.WithEnv(cs.cfg.Env),
		catalog.WithLogger(cs.l),
		catalog.WithRateLimit(middleware.NewVisitors(loginRate, loginBurst)),
	)
	if err != nil {
		return nil, err
	}

	if cs.srv == nil {
		cs.srv = defaultServer(cs.ctx, cs.cfg.Port, cs.cfg.ReadTimeout, cs.cfg.IdleTimeout, cs.cfg.WriteTimeout)
	}
	cs.srv.Handler = cs.h

	return cs, nil
}

func (cs *CatalogServer) EmitService() *catalog.Service { return cs.svc }
func (cs *CatalogServer) Handler() http.Handler         { return cs.h }

// GrantAdmin gives the player pseudo the admin role,
// so a fresh catalog can be managed from the console.
func (cs *CatalogServer) GrantAdmin(ctx context.Context, pseudo string) error {
	pr, err := cs.svc.GrantRole(ctx, pseudo, catalog.AdminRole)
	if err != nil {
		return err
	}

	cs.l.Info("granted admin role", &logger.LogContext{Data: map[string]any{"pseudo": pr.Pseudo, "roles": pr.Roles}})
	return nil
}

// Guide begins the catalog's web server.
// It stops like (*Console).Guide, closing the database connection afterwards.
func (cs *CatalogServer) Guide() error {
	err := guide(cs.ctx, cs.srv, cs.l)
	if cerr := cs.Close(); err == nil {
		err = cerr
	}

	return err
}

// Close closes the database connection.
func (cs *CatalogServer) Close() error {
	sqlDB, err := cs.db.DB().DB()
	if err != nil {
		return fmt.Errorf("%w: %s", outpost.ErrUnexpected, err)
	}

	return sqlDB.Close()
}
