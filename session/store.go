package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/logger"
)

// DefaultKey is the Storage key State is persisted under.
const DefaultKey = "localState"

// A Store holds the State of the operator's session.
//
// Set is the only way to change State.
// It persists the new State before any reader can observe it.
type Store struct {
	key     string
	logger  logger.Logger
	storage Storage

	mu sync.RWMutex
	st State
}

// An Option configures a Store when calling Load.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger.Logger a Store reports unreadable State to.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Load constructs a Store by reading State once from storage.
//
// An absent or malformed record yields the zero State.
// Load errors only when storage itself fails.
func Load(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("%w: nil Storage", outpost.ErrBadConfig)
	}

	s := &Store{key: DefaultKey, storage: storage}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.New()
	}

	b, err := storage.Get(ctx, s.key)
	if errors.Is(err, outpost.ErrNotExist) {
		return s, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", s.key, err)
	}

	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		s.logger.Warn("discarding malformed session state", &logger.LogContext{
			Data:  map[string]any{"key": s.key},
			Error: err,
		})
		return s, nil
	}

	s.st = st
	return s, nil
}

// State returns a copy of the current State.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.st
}

// Authenticated reports whether the current State is authenticated.
func (s *Store) Authenticated() bool { return s.State().Authenticated() }

// Token returns the bearer token of the current State.
func (s *Store) Token() string { return s.State().Token }

// Set persists st and then makes it the current State.
// If persisting fails, the current State is unchanged.
func (s *Store) Set(ctx context.Context, st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%w: %s", outpost.ErrUnexpected, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Put(ctx, s.key, b); err != nil {
		return fmt.Errorf("failed writing %s: %w", s.key, err)
	}

	s.st = st
	return nil
}

// Login sets the State to the operator identified by pseudo and token.
func (s *Store) Login(ctx context.Context, pseudo, token string) error {
	return s.Set(ctx, State{Pseudo: pseudo, Token: token})
}

// Clear resets the State, logging the operator out.
func (s *Store) Clear(ctx context.Context) error { return s.Set(ctx, State{}) }
