package router

import (
	"fmt"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/view"
)

const (
	LoginPath    = "/login"
	RegisterPath = "/register"
	RootPath     = "/"
)

var static = []struct {
	path, name, component string
	requiresAuth          bool
}{
	{RootPath, "Home", "Home.tmpl", false},
	{"/admin/users", "GestionPlayers", "GestionPlayers.tmpl", true},
	{"/admin/routes", "GestionRoutes", "GestionRoutes.tmpl", true},
	{LoginPath, "Login", "Login.tmpl", false},
	{RegisterPath, "Register", "Register.tmpl", false},
}

// StaticRoutes resolves the ViewRoutes every console offers regardless of the catalog.
// A static component missing from loc fails with outpost.ErrBadConfig.
func StaticRoutes(loc *view.Locator) ([]ViewRoute, error) {
	vrs := make([]ViewRoute, 0, len(static))
	for _, s := range static {
		ld, err := loc.Resolve(s.component)
		if err != nil {
			return nil, fmt.Errorf("%w: static route %s: %s", outpost.ErrBadConfig, s.path, err)
		}

		vrs = append(vrs, ViewRoute{Path: s.path, Name: s.name, Loader: ld, RequiresAuth: s.requiresAuth})
	}

	return vrs, nil
}
