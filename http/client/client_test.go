package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/session"
)

// notices records every Flash a Client notifies with.
type notices struct {
	mu sync.Mutex
	fs []flash.Flash
}

func (n *notices) notify(_ context.Context, f flash.Flash) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fs = append(n.fs, f)
	return nil
}

func (n *notices) msgs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	msgs := make([]string, 0, len(n.fs))
	for _, f := range n.fs {
		msgs = append(msgs, f.Msg)
	}
	return msgs
}

type fixture struct {
	client  *client.Client
	notices *notices
	store   *session.Store
	storage *session.MemoryStorage
}

func newFixture(t *testing.T, h http.Handler, opts ...client.Option) fixture {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	storage := session.NewMemoryStorage()
	store, err := session.Load(context.Background(), storage)
	require.Nil(t, err)

	n := new(notices)
	opts = append([]client.Option{
		client.WithNotifier(n.notify),
		client.WithLogger(logger.New(logger.WithOutput(io.Discard))),
	}, opts...)

	c, err := client.New(srv.URL+"/api/", store, opts...)
	require.Nil(t, err)

	return fixture{client: c, notices: n, store: store, storage: storage}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func TestNew(t *testing.T) {
	store, err := session.Load(context.Background(), session.NewMemoryStorage())
	require.Nil(t, err)

	for _, base := range []string{"", "localhost:8080", "/api"} {
		t.Run(base, func(t *testing.T) {
			// Act
			c, err := client.New(base, store)

			// Assert
			require.Nil(t, c)
			require.ErrorIs(t, err, outpost.ErrBadConfig)
		})
	}

	// Act
	c, err := client.New("http://localhost:8080/api", nil)

	// Assert
	require.Nil(t, c)
	require.ErrorIs(t, err, outpost.ErrBadConfig)
}

func TestClientBearerToken(t *testing.T) {
	// Arrange
	var auth []string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/routes/available", r.URL.Path)
		auth = append(auth, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"id": 1, "name": "shop", "componentPath": "Shop.tmpl", "needAuth": true, "roleName": nil},
		}})
	}))

	// Act
	rds, err := f.client.Routes.GetAvailable(context.Background())

	// Assert
	require.Nil(t, err)
	require.Len(t, rds, 1)
	require.Equal(t, "/shop", rds[0].Path())
	require.True(t, rds[0].NeedAuth)

	// Arrange
	require.Nil(t, f.store.Login(context.Background(), "frodo", "abc"))

	// Act
	_, err = f.client.Routes.GetAvailable(context.Background())

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"", "Bearer abc"}, auth)
}

func TestClientErrors(t *testing.T) {
	tcs := []struct {
		name   string
		code   int
		body   any
		kind   error
		notice string
	}{
		{"Unauthorized", http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED", "message": "log in"}, client.ErrUnauthorized, client.UnauthorizedMsg},
		{"Forbidden", http.StatusForbidden, map[string]string{"error": "FORBIDDEN"}, client.ErrForbidden, client.ForbiddenMsg},
		{"Forbidden-Message", http.StatusForbidden, map[string]string{"error": "FORBIDDEN", "message": "admins only"}, client.ErrForbidden, "admins only"},
		{"Server", http.StatusInternalServerError, map[string]string{"error": "INTERNAL"}, client.ErrServer, client.ServerErrMsg},
		{"Conflict", http.StatusConflict, map[string]string{"error": "EXISTS", "message": "route shop exists"}, client.ErrUnexpected, "route shop exists"},
		{"Plain-Text", http.StatusBadGateway, "upstream down", client.ErrUnexpected, "upstream down"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if text, ok := tc.body.(string); ok {
					http.Error(w, text, tc.code)
					return
				}
				writeJSON(w, tc.code, tc.body)
			}))

			// Act
			_, err := f.client.Roles.GetAll(context.Background())

			// Assert
			require.ErrorIs(t, err, tc.kind)

			var e *client.Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, tc.code, e.Status)
			require.Equal(t, []string{tc.notice}, f.notices.msgs())
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	// Arrange
	f := newFixture(t, http.NotFoundHandler())
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	store, err := session.Load(context.Background(), session.NewMemoryStorage())
	require.Nil(t, err)

	c, err := client.New(srv.URL, store, client.WithNotifier(f.notices.notify))
	require.Nil(t, err)

	// Act
	_, err = c.Roles.GetAll(context.Background())

	// Assert
	require.ErrorIs(t, err, client.ErrNetwork)
	require.Equal(t, []string{client.UnreachableMsg}, f.notices.msgs())
}

func TestClientSessionInvalid(t *testing.T) {
	// Arrange
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   client.InvalidTokenCode,
			"message": "token expired",
		})
	}), client.WithClock(func() time.Time { return now }))
	require.Nil(t, f.store.Login(context.Background(), "frodo", "abc"))

	// Act
	for i := 0; i < 3; i++ {
		_, err := f.client.Players.GetAll(context.Background())
		require.ErrorIs(t, err, client.ErrSessionInvalid)
	}

	// Assert
	require.False(t, f.store.Authenticated())
	require.Equal(t, []string{client.SessionExpiredMsg}, f.notices.msgs())

	reloaded, err := session.Load(context.Background(), f.storage)
	require.Nil(t, err)
	require.Equal(t, session.State{}, reloaded.State())

	// Arrange
	now = now.Add(client.DefaultInvalidationWindow)

	// Act
	_, err = f.client.Players.GetAll(context.Background())

	// Assert
	require.ErrorIs(t, err, client.ErrSessionInvalid)
	require.Equal(t, []string{client.SessionExpiredMsg, client.SessionExpiredMsg}, f.notices.msgs())
}
