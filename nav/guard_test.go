package nav_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/http/resp"
	"github.com/xy-planning-network/outpost/nav"
	"github.com/xy-planning-network/outpost/nav/navmock"
	"github.com/xy-planning-network/outpost/session"
	"github.com/xy-planning-network/outpost/view"
)

type guardFixture struct {
	catalog *navmock.MockCatalogClient
	guard   *nav.Guard
	store   *session.Store
}

func newGuardFixture(t *testing.T) guardFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	catalog := navmock.NewMockCatalogClient(ctrl)
	loc := testLocator(t)
	tbl := testTable(t, loc)

	reg, err := nav.NewRegistrar(catalog, loc, tbl, nav.WithLogger(testLogger()))
	require.Nil(t, err)

	store, err := session.Load(context.Background(), session.NewMemoryStorage())
	require.Nil(t, err)

	d := resp.NewResponder(resp.WithLogger(testLogger()))
	g, err := nav.NewGuard(d, reg, tbl, store, testLogger())
	require.Nil(t, err)

	return guardFixture{catalog: catalog, guard: g, store: store}
}

func (f guardFixture) navigate(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.guard.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewGuard(t *testing.T) {
	// Act
	g, err := nav.NewGuard(nil, nil, nil, nil, nil)

	// Assert
	require.Nil(t, g)
	require.ErrorIs(t, err, outpost.ErrBadConfig)
}

func TestGuardShopScenario(t *testing.T) {
	// Arrange
	f := newGuardFixture(t)
	f.catalog.EXPECT().GetAvailable(gomock.Any()).Return(shop(), nil).Times(1)

	// Act
	w := f.navigate("/shop")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	// Arrange
	require.Nil(t, f.store.Login(context.Background(), "frodo", "abc"))

	// Act
	w = f.navigate("/shop")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "shop for frodo", w.Body.String())
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestGuardPolicy(t *testing.T) {
	tcs := []struct {
		name     string
		pseudo   string
		path     string
		code     int
		location string
	}{
		{"Unknown-Path", "", "/nowhere", http.StatusFound, "/"},
		{"Unknown-Path-Authenticated", "frodo", "/nowhere/deeper", http.StatusFound, "/"},
		{"Static-Auth", "", "/admin/users", http.StatusFound, "/login"},
		{"Register-Authenticated", "frodo", "/register", http.StatusFound, "/"},
		{"Login-Visitor", "", "/login", http.StatusOK, ""},
		{"Home", "", "/", http.StatusOK, ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f := newGuardFixture(t)
			f.catalog.EXPECT().GetAvailable(gomock.Any()).Return(shop(), nil)
			if tc.pseudo != "" {
				require.Nil(t, f.store.Login(context.Background(), tc.pseudo, "abc"))
			}

			// Act
			w := f.navigate(tc.path)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
}

func TestGuardCatalogDown(t *testing.T) {
	// Arrange
	f := newGuardFixture(t)
	f.catalog.EXPECT().GetAvailable(gomock.Any()).Return(nil, errors.New("connection refused")).Times(1)

	// Act
	shop := f.navigate("/shop")
	home := f.navigate("/")

	// Assert
	require.Equal(t, http.StatusFound, shop.Code)
	require.Equal(t, "/", shop.Header().Get("Location"))
	require.Equal(t, http.StatusOK, home.Code)
	require.Equal(t, "Home", home.Body.String())
}

func TestGuardSessionInvalid(t *testing.T) {
	// Arrange
	f := newGuardFixture(t)
	f.catalog.EXPECT().
		GetAvailable(gomock.Any()).
		Return(nil, fmt.Errorf("%w: token expired", client.ErrSessionInvalid))

	// Act
	w := f.navigate("/shop")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

func TestGuardBrokenView(t *testing.T) {
	// Arrange
	f := newGuardFixture(t)
	f.catalog.EXPECT().GetAvailable(gomock.Any()).Return([]outpost.RouteDescriptor{
		{Name: "broken", ComponentPath: "Broken.tmpl"},
	}, nil)

	// Act
	w := f.navigate("/broken")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestGuardViewSessionInvalid(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	catalog := navmock.NewMockCatalogClient(ctrl)
	catalog.EXPECT().GetAvailable(gomock.Any()).Return(nil, nil)

	expired := func(context.Context) (any, error) {
		return nil, fmt.Errorf("listing players: %w", client.ErrSessionInvalid)
	}
	loc, err := view.NewLocator(
		view.WithRoot("views", testViews()),
		view.WithData("GestionPlayers.tmpl", expired),
	)
	require.Nil(t, err)
	tbl := testTable(t, loc)

	reg, err := nav.NewRegistrar(catalog, loc, tbl, nav.WithLogger(testLogger()))
	require.Nil(t, err)

	store, err := session.Load(context.Background(), session.NewMemoryStorage())
	require.Nil(t, err)
	require.Nil(t, store.Login(context.Background(), "frodo", "stale"))

	d := resp.NewResponder(resp.WithLogger(testLogger()))
	g, err := nav.NewGuard(d, reg, tbl, store, testLogger())
	require.Nil(t, err)

	// Act
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}
