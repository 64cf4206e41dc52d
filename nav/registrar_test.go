package nav_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/nav"
	"github.com/xy-planning-network/outpost/nav/navmock"
	"github.com/xy-planning-network/outpost/view"
)

func shop() []outpost.RouteDescriptor {
	return []outpost.RouteDescriptor{{Name: "shop", ComponentPath: "Shop.tmpl", NeedAuth: true}}
}

func TestNewRegistrar(t *testing.T) {
	// Act
	r, err := nav.NewRegistrar(nil, nil, nil)

	// Assert
	require.Nil(t, r)
	require.ErrorIs(t, err, outpost.ErrBadConfig)
}

func TestRegistrarEnsureLoadedOnce(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	catalog := navmock.NewMockCatalogClient(ctrl)
	catalog.EXPECT().
		GetAvailable(gomock.Any()).
		DoAndReturn(func(context.Context) ([]outpost.RouteDescriptor, error) {
			<-release
			return shop(), nil
		}).
		Times(1)

	loc := testLocator(t)
	tbl := testTable(t, loc)
	reg, err := nav.NewRegistrar(catalog, loc, tbl, nav.WithLogger(testLogger()))
	require.Nil(t, err)
	require.Equal(t, nav.NotStarted, reg.State())

	n := 20
	errs := make([]error, n)
	var wg sync.WaitGroup

	// Act
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = reg.EnsureLoaded(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return reg.State() == nav.InFlight }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	// Assert
	for _, err := range errs {
		require.Nil(t, err)
	}
	require.Equal(t, nav.Done, reg.State())
	require.Len(t, tbl.Routes(), 6)

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, err)
}

func TestRegistrarEnsureLoadedRoutes(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	role := "ADMIN"
	catalog := navmock.NewMockCatalogClient(ctrl)
	catalog.EXPECT().GetAvailable(gomock.Any()).Return([]outpost.RouteDescriptor{
		{Name: "admin", ComponentPath: "Missing.tmpl", NeedAuth: true, RoleName: &role},
		{Name: "/shop", ComponentPath: " Shop.tmpl "},
		{Name: "sprites/:name", ComponentPath: "Shop.tmpl"},
		{Name: "login", ComponentPath: "Shop.tmpl"},
		{Name: " ", ComponentPath: "Shop.tmpl"},
	}, nil)

	loc := testLocator(t)
	tbl := testTable(t, loc)
	reg, err := nav.NewRegistrar(catalog, loc, tbl, nav.WithLogger(testLogger()))
	require.Nil(t, err)

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, err)

	vr, n := tbl.Match(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, 1, n)
	require.True(t, vr.RequiresAuth)
	require.Equal(t, "ADMIN", vr.Role)
	require.Equal(t, "accueil /admin", render(t, vr.Loader, view.Data{Path: "/admin"}))

	vr, n = tbl.Match(httptest.NewRequest(http.MethodGet, "/shop", nil))
	require.Equal(t, 1, n)
	require.False(t, vr.RequiresAuth)
	require.Equal(t, "shop for frodo", render(t, vr.Loader, view.Data{Pseudo: "frodo"}))

	_, n = tbl.Match(httptest.NewRequest(http.MethodGet, "/sprites/knight", nil))
	require.Equal(t, 1, n)

	vr, _ = tbl.Match(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, "Login", vr.Name)

	require.Len(t, tbl.Routes(), 8)
}

func TestRegistrarEnsureLoadedEmptyCatalog(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	catalog := navmock.NewMockCatalogClient(ctrl)
	catalog.EXPECT().GetAvailable(gomock.Any()).Return(nil, nil).Times(1)

	loc := testLocator(t)
	reg, err := nav.NewRegistrar(catalog, loc, testTable(t, loc), nav.WithLogger(testLogger()))
	require.Nil(t, err)

	// Act
	first := reg.EnsureLoaded(context.Background())
	second := reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, first)
	require.Nil(t, second)
	require.Equal(t, nav.Done, reg.State())
}

func TestRegistrarEnsureLoadedBackoff(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("connection refused")
	catalog := navmock.NewMockCatalogClient(ctrl)
	gomock.InOrder(
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(nil, boom),
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(nil, boom),
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(shop(), nil),
	)

	clock := newFakeClock()
	loc := testLocator(t)
	reg, err := nav.NewRegistrar(
		catalog,
		loc,
		testTable(t, loc),
		nav.WithBackoff(time.Second, 3*time.Second),
		nav.WithClock(clock.Now),
		nav.WithLogger(testLogger()),
	)
	require.Nil(t, err)

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.ErrorIs(t, err, nav.ErrCatalogFetch)
	require.ErrorIs(t, err, boom)
	require.Equal(t, nav.NotStarted, reg.State())

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.ErrorIs(t, err, nav.ErrBackoff)
	require.ErrorIs(t, err, nav.ErrCatalogFetch)

	// Arrange
	clock.Advance(time.Second)

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.ErrorIs(t, err, nav.ErrCatalogFetch)

	// Arrange
	clock.Advance(time.Second)

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.ErrorIs(t, err, nav.ErrBackoff)

	// Arrange
	clock.Advance(time.Second)

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, err)
	require.Equal(t, nav.Done, reg.State())
}

func TestRegistrarEnsureLoadedSessionInvalid(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	catalog := navmock.NewMockCatalogClient(ctrl)
	gomock.InOrder(
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(nil, fmt.Errorf("%w: token expired", client.ErrSessionInvalid)),
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(shop(), nil),
	)

	loc := testLocator(t)
	reg, err := nav.NewRegistrar(catalog, loc, testTable(t, loc), nav.WithLogger(testLogger()))
	require.Nil(t, err)

	// Act
	first := reg.EnsureLoaded(context.Background())
	second := reg.EnsureLoaded(context.Background())

	// Assert
	require.ErrorIs(t, first, client.ErrSessionInvalid)
	require.Nil(t, second)
}

func TestRegistrarEnsureLoadedCallerGivesUp(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	catalog := navmock.NewMockCatalogClient(ctrl)
	catalog.EXPECT().
		GetAvailable(gomock.Any()).
		DoAndReturn(func(ctx context.Context) ([]outpost.RouteDescriptor, error) {
			<-release
			return shop(), ctx.Err()
		}).
		Times(1)

	loc := testLocator(t)
	reg, err := nav.NewRegistrar(catalog, loc, testTable(t, loc), nav.WithLogger(testLogger()))
	require.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	err = reg.EnsureLoaded(ctx)

	// Assert
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, nav.InFlight, reg.State())

	// Act
	close(release)
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, err)
	require.Equal(t, nav.Done, reg.State())
}

func TestRegistrarInvalidate(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	role := "ADMIN"
	catalog := navmock.NewMockCatalogClient(ctrl)
	gomock.InOrder(
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(shop(), nil),
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(append(shop(), outpost.RouteDescriptor{
			Name: "admin", ComponentPath: "Accueil.tmpl", NeedAuth: true, RoleName: &role,
		}), nil),
	)

	loc := testLocator(t)
	tbl := testTable(t, loc)
	reg, err := nav.NewRegistrar(catalog, loc, tbl, nav.WithLogger(testLogger()))
	require.Nil(t, err)
	require.Nil(t, reg.EnsureLoaded(context.Background()))

	_, n := tbl.Match(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, 0, n)

	// Act
	reg.Invalidate()

	// Assert
	require.Equal(t, nav.NotStarted, reg.State())

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, err)
	require.Equal(t, nav.Done, reg.State())

	vr, n := tbl.Match(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, 1, n)
	require.Equal(t, "ADMIN", vr.Role)
	require.Len(t, tbl.Routes(), 7)
}

func TestRegistrarEnsureLoadedFailureShared(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	catalog := navmock.NewMockCatalogClient(ctrl)
	catalog.EXPECT().
		GetAvailable(gomock.Any()).
		DoAndReturn(func(context.Context) ([]outpost.RouteDescriptor, error) {
			<-release
			return nil, errors.New("connection refused")
		}).
		Times(1)

	loc := testLocator(t)
	reg, err := nav.NewRegistrar(catalog, loc, testTable(t, loc), nav.WithLogger(testLogger()))
	require.Nil(t, err)

	n := 10
	errs := make([]error, n)
	var wg sync.WaitGroup

	// Act
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = reg.EnsureLoaded(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return reg.State() == nav.InFlight }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	// Assert
	for _, err := range errs {
		require.ErrorIs(t, err, nav.ErrCatalogFetch)
	}
	require.Equal(t, nav.NotStarted, reg.State())
}

func TestRegistrarInvalidateInFlight(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	catalog := navmock.NewMockCatalogClient(ctrl)
	gomock.InOrder(
		catalog.EXPECT().
			GetAvailable(gomock.Any()).
			DoAndReturn(func(context.Context) ([]outpost.RouteDescriptor, error) {
				<-release
				return shop(), nil
			}),
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(shop(), nil),
	)

	loc := testLocator(t)
	reg, err := nav.NewRegistrar(catalog, loc, testTable(t, loc), nav.WithLogger(testLogger()))
	require.Nil(t, err)

	done := make(chan error, 1)
	go func() { done <- reg.EnsureLoaded(context.Background()) }()
	require.Eventually(t, func() bool { return reg.State() == nav.InFlight }, time.Second, time.Millisecond)

	// Act
	reg.Invalidate()
	close(release)

	// Assert
	require.Nil(t, <-done)
	require.Equal(t, nav.NotStarted, reg.State())

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, err)
	require.Equal(t, nav.Done, reg.State())
}

func TestRegistrarInvalidateThenSessionInvalid(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	catalog := navmock.NewMockCatalogClient(ctrl)
	gomock.InOrder(
		catalog.EXPECT().
			GetAvailable(gomock.Any()).
			DoAndReturn(func(context.Context) ([]outpost.RouteDescriptor, error) {
				<-release
				return nil, fmt.Errorf("%w: token expired", client.ErrSessionInvalid)
			}),
		catalog.EXPECT().GetAvailable(gomock.Any()).Return(shop(), nil).Times(1),
	)

	loc := testLocator(t)
	reg, err := nav.NewRegistrar(catalog, loc, testTable(t, loc), nav.WithLogger(testLogger()))
	require.Nil(t, err)

	done := make(chan error, 1)
	go func() { done <- reg.EnsureLoaded(context.Background()) }()
	require.Eventually(t, func() bool { return reg.State() == nav.InFlight }, time.Second, time.Millisecond)

	reg.Invalidate()
	close(release)
	require.ErrorIs(t, <-done, client.ErrSessionInvalid)

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, err)
	require.Equal(t, nav.Done, reg.State())

	// Act
	err = reg.EnsureLoaded(context.Background())

	// Assert
	require.Nil(t, err)
}
