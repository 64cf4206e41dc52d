package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/middleware"
)

const testUserKey outpost.Key = "TestUserKey"

type testUser struct{ admin bool }

type codedErr struct{}

func (codedErr) Error() string     { return "token expired" }
func (codedErr) ErrorCode() string { return "INVALID_OR_EXPIRED_TOKEN" }

type authed bool

func (a authed) Authenticated() bool { return bool(a) }

func TestCurrentUser(t *testing.T) {
	d := newTestResponder()

	// Arrange + Act
	actual := middleware.CurrentUser[testUser](d, nil, testUserKey)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	tcs := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"No-Credentials", outpost.ErrNotExist, http.StatusTeapot, ""},
		{"Coded", codedErr{}, http.StatusUnauthorized, `{"error":"INVALID_OR_EXPIRED_TOKEN","message":"token expired"}`},
		{"Uncoded", errors.New("nope"), http.StatusUnauthorized, `{"error":"UNAUTHORIZED","message":"nope"}`},
		{"Identified", nil, http.StatusAccepted, ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			identify := func(*http.Request) (testUser, error) { return testUser{}, tc.err }
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, ok := r.Context().Value(testUserKey).(testUser); ok {
					w.WriteHeader(http.StatusAccepted)
					return
				}
				w.WriteHeader(http.StatusTeapot)
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "https://example.com/api/routes", nil)

			// Act
			middleware.CurrentUser[testUser](d, identify, testUserKey)(h).ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			if tc.body != "" {
				require.JSONEq(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestAuthorizeApplicatorApply(t *testing.T) {
	// Arrange
	aa := middleware.NewAuthorizeApplicator[testUser](newTestResponder(), testUserKey)

	// Act
	adpt := aa.Apply(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", adpt))

	adminOnly := aa.Apply(func(u testUser) (string, bool) { return "/", u.admin })

	tcs := []struct {
		name     string
		user     any
		accept   string
		code     int
		location string
	}{
		{"No-User-Json", nil, "application/json", http.StatusUnauthorized, ""},
		{"No-User-Html", nil, "text/html", http.StatusFound, "/"},
		{"Not-Admin-Json", testUser{}, "application/json", http.StatusForbidden, ""},
		{"Not-Admin-Html", testUser{}, "text/html,application/xhtml+xml", http.StatusFound, "/"},
		{"Admin", testUser{admin: true}, "application/json", http.StatusTeapot, ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "https://example.com/api/players", nil)
			r.Header.Set("Accept", tc.accept)
			if tc.user != nil {
				r = r.WithContext(contextWith(r, tc.user))
			}

			// Act
			adminOnly(teapot).ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.location, w.Header().Get("Location"))
			if tc.code == http.StatusForbidden {
				require.Equal(t, "{\"error\":\"FORBIDDEN\"}", strings.TrimSpace(w.Body.String()))
			}
		})
	}
}

func TestRequireAuthed(t *testing.T) {
	d := newTestResponder()

	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/sprite-storage/a.png", nil)

	// Act
	middleware.RequireAuthed(d, authed(false), "/login")(teapot).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	// Arrange
	w = httptest.NewRecorder()
	r.Header.Set("Accept", "application/json")

	// Act
	middleware.RequireAuthed(d, authed(false), "/login")(teapot).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Arrange
	w = httptest.NewRecorder()

	// Act
	middleware.RequireAuthed(d, authed(true), "/login")(teapot).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
}

func TestRequireUnauthed(t *testing.T) {
	d := newTestResponder()

	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "https://example.com/login", nil)

	// Act
	middleware.RequireUnauthed(d, authed(true))(teapot).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	// Arrange
	w = httptest.NewRecorder()

	// Act
	middleware.RequireUnauthed(d, authed(false))(teapot).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
}

func contextWith(r *http.Request, user any) context.Context {
	return context.WithValue(r.Context(), testUserKey, user)
}
