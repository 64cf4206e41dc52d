package nav

import (
	"github.com/xy-planning-network/outpost/http/router"
	"github.com/xy-planning-network/outpost/session"
)

// A Target is where a navigation is headed.
type Target struct {
	Path         string
	RequiresAuth bool
}

// A Decision either lets a navigation proceed or redirects it.
type Decision struct {
	Redirect string
}

// Proceed reports whether the navigation goes on to its target.
func (d Decision) Proceed() bool { return d.Redirect == "" }

// Decide applies the navigation policy to target,
// which matched this many routes, for the operator in st.
//
// In order:
//  1. nothing matched: back to "/"
//  2. authentication required without a session: to "/login"
//  3. "/login" or "/register" with a session: back to "/"
//
// Otherwise the navigation proceeds.
func Decide(target Target, matched int, st session.State) Decision {
	switch {
	case matched == 0:
		return Decision{Redirect: router.RootPath}
	case target.RequiresAuth && !st.Authenticated():
		return Decision{Redirect: router.LoginPath}
	case (target.Path == router.LoginPath || target.Path == router.RegisterPath) && st.Authenticated():
		return Decision{Redirect: router.RootPath}
	}

	return Decision{}
}
