package app

import (
	"context"

	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/session"
)

// NewAPIClient constructs a *client.Client calling cfg.APIBaseURL
// as the operator whose session state cfg.StateStorage keeps.
// The console and the command line share that state when both keep it in the same place.
//
// notify tells the operator of failed calls.
func NewAPIClient(ctx context.Context, cfg Config, l logger.Logger, notify client.Notifier) (*client.Client, *session.Store, error) {
	if l == nil {
		l = defaultLogger(cfg.Env, cfg.LogLevel, cfg.SentryDSN)
	}

	storage, err := defaultStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	st, err := session.Load(ctx, storage, session.WithLogger(l))
	if err != nil {
		return nil, nil, err
	}

	c, err := client.New(cfg.APIBaseURL, st, client.WithLogger(l), client.WithNotifier(notify))
	if err != nil {
		return nil, nil, err
	}

	return c, st, nil
}
