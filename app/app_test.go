package app_test

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/app"
	"github.com/xy-planning-network/outpost/catalog"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/postgres"
	"github.com/xy-planning-network/outpost/session"
)

const testBaseURL = "http://localhost:3000/"

type stack struct {
	api     *httptest.Server
	catalog *app.CatalogServer
	console *app.Console
}

func testLogger() logger.Logger { return logger.New(logger.WithOutput(io.Discard)) }

func testCatalogConfig() app.CatalogConfig {
	return app.CatalogConfig{
		Env:       outpost.Testing,
		LogLevel:  logger.LogLevelError,
		Port:      ":0",
		JWTSecret: "not-so-secret",
		JWTTTL:    time.Hour,
	}
}

func newTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := postgres.Open(sqlite.Open(dsn), catalog.Migrations(), outpost.Testing)
	require.Nil(t, err)

	sqlDB, err := db.DB().DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func newTestCatalog(t *testing.T) (*app.CatalogServer, *httptest.Server) {
	t.Helper()

	cs, err := app.NewCatalogServer(
		app.WithCatalogConfig(testCatalogConfig()),
		app.WithDB(newTestDB(t)),
		app.WithCatalogLogger(testLogger()),
	)
	require.Nil(t, err)

	srv := httptest.NewServer(cs.Handler())
	t.Cleanup(func() {
		srv.Close()
		cs.Close()
	})

	return cs, srv
}

func testConfig(apiURL string) app.Config {
	return app.Config{
		Env:      outpost.Testing,
		LogLevel: logger.LogLevelError,
		BaseURL:  testBaseURL,
		Port:     ":0",

		APIBaseURL: apiURL + "/api",

		LoadTimeout: time.Second,
		BackoffBase: 10 * time.Millisecond,
		BackoffMax:  50 * time.Millisecond,

		StateStorage: app.StorageMemory,
		FlashStorage: app.StorageCookie,

		SessionAuthKey: hex.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
	}
}

func newStack(t *testing.T) *stack {
	t.Helper()

	cs, api := newTestCatalog(t)

	c, err := app.New(
		app.WithConfig(testConfig(api.URL)),
		app.WithHTTPClient(api.Client()),
		app.WithLogger(testLogger()),
		app.WithStorage(session.NewMemoryStorage()),
	)
	require.Nil(t, err)

	return &stack{api: api, catalog: cs, console: c}
}

func (s *stack) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.console.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (s *stack) post(path string, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	s.console.ServeHTTP(w, r)
	return w
}

func (s *stack) signUp(t *testing.T, pseudo, password string) {
	t.Helper()

	w := s.post("/register", url.Values{"pseudo": {pseudo}, "password": {password}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

func (s *stack) logIn(t *testing.T, pseudo, password string) {
	t.Helper()

	w := s.post("/login", url.Values{"pseudo": {pseudo}, "password": {password}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	require.True(t, s.console.EmitSessionStore().Authenticated())
}

func TestConsoleNavigation(t *testing.T) {
	// Arrange
	s := newStack(t)
	ctx := context.Background()
	_, err := s.catalog.EmitService().Create(ctx, outpost.RouteDescriptor{Name: "shop", ComponentPath: "Shop.tmpl", NeedAuth: true})
	require.Nil(t, err)

	// Act
	w := s.get("/shop")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	// Act
	w = s.get("/nowhere")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	// Act
	w = s.get("/login")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `action="/login"`)

	// Arrange
	s.signUp(t, "frodo", "shire-0001")
	s.logIn(t, "frodo", "shire-0001")

	// Act
	w = s.get("/shop")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Browsing as frodo.")

	// Act
	w = s.get("/register")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestConsoleLogin(t *testing.T) {
	// Arrange
	s := newStack(t)
	s.signUp(t, "frodo", "shire-0001")

	// Act
	w := s.post("/login", url.Values{"pseudo": {"frodo"}, "password": {"mordor-0001"}})

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
	require.False(t, s.console.EmitSessionStore().Authenticated())

	// Act
	w = s.post("/login", url.Values{"pseudo": {"frodo"}})

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
	require.False(t, s.console.EmitSessionStore().Authenticated())

	// Arrange
	s.logIn(t, "frodo", "shire-0001")

	// Act
	w = s.post("/login", url.Values{"pseudo": {"frodo"}, "password": {"shire-0001"}})

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, testBaseURL, w.Header().Get("Location"))

	// Act
	w = s.post("/logout", nil)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
	require.False(t, s.console.EmitSessionStore().Authenticated())

	// Act
	w = s.post("/logout", nil)

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

func TestConsoleAdmin(t *testing.T) {
	// Arrange
	s := newStack(t)
	s.signUp(t, "frodo", "shire-0001")
	s.logIn(t, "frodo", "shire-0001")

	// Act
	w := s.get("/admin/routes")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)

	// Arrange
	require.Nil(t, s.catalog.GrantAdmin(context.Background(), "frodo"))

	// Act
	w = s.get("/admin/routes")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `<option value="ADMIN">ADMIN</option>`)

	// Act
	w = s.post("/admin/routes", url.Values{"name": {"accueil"}, "componentPath": {"Accueil.tmpl"}})

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/routes", w.Header().Get("Location"))

	// Act
	w = s.get("/accueil")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	// Act
	w = s.get("/admin/routes")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "<td>Accueil.tmpl</td>")

	// Act
	w = s.post("/admin/routes", url.Values{"name": {"bad name"}, "componentPath": {"Accueil"}})

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/routes", w.Header().Get("Location"))

	// Act
	w = s.get("/admin/users")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "frodo")
}

func TestNew(t *testing.T) {
	t.Run("Bad-Storage", func(t *testing.T) {
		// Arrange
		cfg := testConfig("http://localhost:8080")
		cfg.StateStorage = "floppy"

		// Act
		c, err := app.New(app.WithConfig(cfg), app.WithLogger(testLogger()))

		// Assert
		require.Nil(t, c)
		require.ErrorIs(t, err, outpost.ErrBadConfig)
	})

	t.Run("Bad-Flash-Storage", func(t *testing.T) {
		// Arrange
		cfg := testConfig("http://localhost:8080")
		cfg.FlashStorage = "floppy"

		// Act
		c, err := app.New(app.WithConfig(cfg), app.WithLogger(testLogger()))

		// Assert
		require.Nil(t, c)
		require.ErrorIs(t, err, outpost.ErrBadConfig)
	})

	t.Run("Bad-Env", func(t *testing.T) {
		// Arrange
		cfg := testConfig("http://localhost:8080")
		cfg.Env = "MARS"

		// Act
		c, err := app.New(app.WithConfig(cfg))

		// Assert
		require.Nil(t, c)
		require.ErrorIs(t, err, outpost.ErrBadConfig)
	})

	t.Run("Views-Without-Layout", func(t *testing.T) {
		// Arrange
		fsys := fstest.MapFS{"Home.tmpl": {Data: []byte(`{{ define "content" }}home{{ end }}`)}}

		// Act
		c, err := app.New(app.WithConfig(testConfig("http://localhost:8080")), app.WithViews(fsys))

		// Assert
		require.Nil(t, c)
		require.ErrorIs(t, err, outpost.ErrBadConfig)
	})

	t.Run("Views-Without-Static-Screens", func(t *testing.T) {
		// Arrange
		fsys := fstest.MapFS{"layout.tmpl": {Data: []byte(`{{ template "content" . }}`)}}

		// Act
		c, err := app.New(
			app.WithConfig(testConfig("http://localhost:8080")),
			app.WithLogger(testLogger()),
			app.WithViews(fsys),
		)

		// Assert
		require.Nil(t, c)
		require.ErrorIs(t, err, outpost.ErrBadConfig)
	})
}

func TestNewCatalogServer(t *testing.T) {
	// Arrange
	cfg := testCatalogConfig()
	cfg.JWTSecret = ""

	// Act
	cs, err := app.NewCatalogServer(app.WithCatalogConfig(cfg), app.WithDB(newTestDB(t)), app.WithCatalogLogger(testLogger()))

	// Assert
	require.Nil(t, cs)
	require.ErrorIs(t, err, outpost.ErrBadConfig)

	// Arrange
	cs, _ = newTestCatalog(t)

	// Act
	err = cs.GrantAdmin(context.Background(), "nobody")

	// Assert
	require.ErrorIs(t, err, outpost.ErrNotFound)
}
