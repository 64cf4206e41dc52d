package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/http/template"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/session"
	"github.com/xy-planning-network/outpost/view"
	"github.com/xy-planning-network/outpost/views"
)

const (
	flashSessionName = "outpost-flash"
	flashMaxAge      = 3600
)

// defaultLogger constructs the logger.Logger used throughout the console,
// reporting to Sentry when dsn is set.
func defaultLogger(env outpost.Environment, level logger.LogLevel, dsn string) logger.Logger {
	l := logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(level),
		logger.WithSentry(dsn),
	)
	l.Debug("setting up app logger", nil)

	return l
}

// defaultStorage constructs the session.Storage named by cfg.StateStorage.
func defaultStorage(ctx context.Context, cfg Config) (session.Storage, error) {
	switch cfg.StateStorage {
	case StorageFile:
		return session.NewFileStorage(cfg.StateFile)
	case StorageMemory:
		return session.NewMemoryStorage(), nil
	case StorageRedis:
		return session.NewRedisStorage(ctx, cfg.RedisAddr, cfg.RedisPassword)
	default:
		return nil, fmt.Errorf("%w: unknown state storage %q", outpost.ErrBadConfig, cfg.StateStorage)
	}
}

// defaultFlashStore constructs the flash.Storer named by cfg.FlashStorage.
//
// Both SESSION keys must be valid hex encoded values; cf. [encoding/hex].
// Environments allowing stubs generate an authentication key when none is set,
// so flashes do not survive a restart.
func defaultFlashStore(cfg Config, l logger.Logger) (flash.Storer, error) {
	authKey := cfg.SessionAuthKey
	if authKey == "" && cfg.Env.CanUseServiceStub() {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("%w: generating session key: %s", outpost.ErrUnexpected, err)
		}

		authKey = hex.EncodeToString(key)
		l.Warn(SessionAuthKeyEnvVar+" unset, generated one for this run", nil)
	}

	fcfg := flash.Config{
		AuthKey:     authKey,
		EncryptKey:  cfg.SessionEncryptKey,
		Env:         cfg.Env,
		SessionName: flashSessionName,
	}

	args := []flash.Option{flash.WithMaxAge(flashMaxAge)}
	switch cfg.FlashStorage {
	case StorageCookie:
		args = append(args, flash.WithCookie())
	case StorageRedis:
		args = append(args, flash.WithRedis(cfg.RedisAddr, cfg.RedisPassword))
	default:
		return nil, fmt.Errorf("%w: unknown flash storage %q", outpost.ErrBadConfig, cfg.FlashStorage)
	}

	return flash.NewService(fcfg, args...)
}

// defaultLocator constructs the *view.Locator resolving the screens in fsys,
// rendered inside views.Layout.
//
// pages feeds screens their data; those fsys lacks are skipped.
//
// Templates may call:
//
//   - "env"
//   - "nonce"
//   - "rootUrl"
func defaultLocator(env outpost.Environment, base *url.URL, fsys fs.FS, pages map[string]view.DataFunc) (*view.Locator, error) {
	opts := []view.LocatorOpt{
		view.WithRoot(view.DefaultRoot, fsys),
		view.WithLayout(fsys, views.Layout),
		view.WithParserOptions(template.Defaults(env, base)...),
	}

	for cp, fetch := range pages {
		if _, err := fs.Stat(fsys, cp); err != nil {
			continue
		}
		opts = append(opts, view.WithData(cp, fetch))
	}

	return view.NewLocator(opts...)
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context, port string, read, idle, write time.Duration) *http.Server {
	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  idle,
		ReadTimeout:  read,
		WriteTimeout: write,
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
