package router

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/view"
)

// CatchAllPath is the template of the route every navigation lands on
// when no action Route matches it. See Router.CatchAll.
const CatchAllPath = "/{anything:.*}"

// A ViewRoute is a screen of the console a navigation can reach.
type ViewRoute struct {
	// Path is a gorilla/mux path template.
	Path string
	Name string

	Loader       view.Loader
	RequiresAuth bool

	// Role the catalog requires of the operator, if any.
	Role string
}

// A Table holds the ViewRoutes navigations resolve against.
//
// Writers call Add; the navigation guard only calls Match.
type Table struct {
	mu     sync.RWMutex
	r      *mux.Router
	routes map[string]ViewRoute
}

// NewTable constructs a Table holding static.
func NewTable(static ...ViewRoute) (*Table, error) {
	t := &Table{r: mux.NewRouter(), routes: make(map[string]ViewRoute)}

	for _, vr := range static {
		if err := t.Add(vr); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Add installs vr.
// A Path already in the Table fails with outpost.ErrExists.
func (t *Table) Add(vr ViewRoute) error {
	if vr.Path == "" || vr.Loader == nil {
		return fmt.Errorf("%w: view route needs a path and a loader", outpost.ErrMissingData)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.routes[vr.Path]; ok {
		return fmt.Errorf("%w: %s", outpost.ErrExists, vr.Path)
	}

	route := t.r.NewRoute().Path(vr.Path)
	if err := route.GetError(); err != nil {
		return fmt.Errorf("%w: %s: %s", outpost.ErrNotValid, vr.Path, err)
	}

	t.routes[vr.Path] = vr
	return nil
}

// Match finds the ViewRoute req navigates to,
// returning how many ViewRoutes matched: zero or one.
func (t *Table) Match(req *http.Request) (ViewRoute, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var m mux.RouteMatch
	if !t.r.Match(req, &m) || m.Route == nil {
		return ViewRoute{}, 0
	}

	tmpl, err := m.Route.GetPathTemplate()
	if err != nil {
		return ViewRoute{}, 0
	}

	vr, ok := t.routes[tmpl]
	if !ok {
		return ViewRoute{}, 0
	}

	return vr, 1
}

// Routes lists every ViewRoute by Path.
func (t *Table) Routes() []ViewRoute {
	t.mu.RLock()
	defer t.mu.RUnlock()

	vrs := make([]ViewRoute, 0, len(t.routes))
	for _, vr := range t.routes {
		vrs = append(vrs, vr)
	}
	sort.Slice(vrs, func(i, j int) bool { return vrs[i].Path < vrs[j].Path })

	return vrs
}
