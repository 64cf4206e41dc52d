package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/http/middleware"
)

func TestInjectFlash(t *testing.T) {
	// Arrange
	svc, err := flash.NewService(flash.Config{Env: outpost.Testing, AuthKey: "0123456789abcdef0123456789abcdef"})
	require.Nil(t, err)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Nil(t, flash.Notify(r.Context(), flash.Info("hello")))
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)

	// Act
	middleware.InjectFlash(svc)(h).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, w.Result().Cookies(), 1)
}
