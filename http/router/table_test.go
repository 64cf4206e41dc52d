package router_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/router"
	"github.com/xy-planning-network/outpost/view"
)

var blank = view.Static(view.Func(func(io.Writer, view.Data) error { return nil }))

func TestTableAdd(t *testing.T) {
	// Arrange
	tbl, err := router.NewTable(router.ViewRoute{Path: "/", Name: "Home", Loader: blank})
	require.Nil(t, err)

	// Act
	err = tbl.Add(router.ViewRoute{Path: "/shop", Name: "shop", Loader: blank, RequiresAuth: true})

	// Assert
	require.Nil(t, err)
	require.Len(t, tbl.Routes(), 2)

	// Act
	err = tbl.Add(router.ViewRoute{Path: "/shop", Name: "shop again", Loader: blank})

	// Assert
	require.ErrorIs(t, err, outpost.ErrExists)

	// Act
	err = tbl.Add(router.ViewRoute{Path: "/empty"})

	// Assert
	require.ErrorIs(t, err, outpost.ErrMissingData)

	// Act
	err = tbl.Add(router.ViewRoute{Path: "/bad/{", Loader: blank})

	// Assert
	require.ErrorIs(t, err, outpost.ErrNotValid)
}

func TestNewTableDuplicates(t *testing.T) {
	// Arrange
	vr := router.ViewRoute{Path: "/", Name: "Home", Loader: blank}

	// Act
	tbl, err := router.NewTable(vr, vr)

	// Assert
	require.Nil(t, tbl)
	require.ErrorIs(t, err, outpost.ErrExists)
}

func TestTableMatch(t *testing.T) {
	// Arrange
	tbl, err := router.NewTable(
		router.ViewRoute{Path: "/", Name: "Home", Loader: blank},
		router.ViewRoute{Path: "/sprites/{name}", Name: "sprite", Loader: blank, RequiresAuth: true},
	)
	require.Nil(t, err)

	tcs := []struct {
		path    string
		name    string
		matched int
	}{
		{"/", "Home", 1},
		{"/sprites/knight", "sprite", 1},
		{"/sprites", "", 0},
		{"/nowhere", "", 0},
	}

	for _, tc := range tcs {
		t.Run(tc.path, func(t *testing.T) {
			// Act
			vr, n := tbl.Match(httptest.NewRequest(http.MethodGet, tc.path, nil))

			// Assert
			require.Equal(t, tc.matched, n)
			require.Equal(t, tc.name, vr.Name)
		})
	}
}

func TestStaticRoutes(t *testing.T) {
	// Arrange
	views := fstest.MapFS{}
	for _, name := range []string{"Home", "GestionPlayers", "GestionRoutes", "Login", "Register"} {
		views[name+".tmpl"] = &fstest.MapFile{Data: []byte(name)}
	}

	loc, err := view.NewLocator(view.WithRoot("views", views))
	require.Nil(t, err)

	// Act
	vrs, err := router.StaticRoutes(loc)

	// Assert
	require.Nil(t, err)
	require.Len(t, vrs, 5)

	tbl, err := router.NewTable(vrs...)
	require.Nil(t, err)

	vr, n := tbl.Match(httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	require.Equal(t, 1, n)
	require.True(t, vr.RequiresAuth)

	v, err := vr.Loader(context.Background())
	require.Nil(t, err)
	require.NotNil(t, v)

	vr, _ = tbl.Match(httptest.NewRequest(http.MethodGet, router.LoginPath, nil))
	require.False(t, vr.RequiresAuth)

	// Arrange
	delete(views, "Register.tmpl")
	loc, err = view.NewLocator(view.WithRoot("views", views))
	require.Nil(t, err)

	// Act
	vrs, err = router.StaticRoutes(loc)

	// Assert
	require.Nil(t, vrs)
	require.ErrorIs(t, err, outpost.ErrBadConfig)
}
