package nav_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/outpost/http/router"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/view"
)

func testLogger() logger.Logger { return logger.New(logger.WithOutput(io.Discard)) }

func testViews() fstest.MapFS {
	views := fstest.MapFS{
		"Accueil.tmpl": {Data: []byte(`accueil {{ .Path }}`)},
		"Shop.tmpl":    {Data: []byte(`shop for {{ .Pseudo }}`)},
		"Broken.tmpl":  {Data: []byte(`{{ .Path }`)},
	}
	for _, name := range []string{"Home", "GestionPlayers", "GestionRoutes", "Login", "Register"} {
		views[name+".tmpl"] = &fstest.MapFile{Data: []byte(name)}
	}

	return views
}

func testLocator(t *testing.T) *view.Locator {
	t.Helper()

	loc, err := view.NewLocator(view.WithRoot("views", testViews()))
	require.Nil(t, err)
	return loc
}

func testTable(t *testing.T, loc *view.Locator) *router.Table {
	t.Helper()

	static, err := router.StaticRoutes(loc)
	require.Nil(t, err)

	tbl, err := router.NewTable(static...)
	require.Nil(t, err)
	return tbl
}

// fakeClock is a clock tests move by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func render(t *testing.T, ld view.Loader, data view.Data) string {
	t.Helper()

	v, err := ld(context.Background())
	require.Nil(t, err)

	sb := new(strings.Builder)
	require.Nil(t, v.Render(sb, data))
	return sb.String()
}
