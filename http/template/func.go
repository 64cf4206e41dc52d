package template

import (
	html "html/template"
	"net/url"

	"github.com/google/uuid"
	"github.com/xy-planning-network/outpost"
)

// AddFn includes the named function in the Parse function map.
func (p *Parse) AddFn(name string, fn any) {
	if p.fns == nil {
		p.fns = make(html.FuncMap)
	}
	p.fns[name] = fn
}

// Env encloses the environment the console runs in.
// It returns "env" as the name of the function for passing to WithFn.
func Env(e outpost.Environment) (string, func() string) {
	return "env", func() string { return e.String() }
}

// Nonce returns "nonce" as the name of the function for passing to WithFn
// and a function generating a uuid.
func Nonce() (string, func() string) {
	return "nonce", func() string { return uuid.NewString() }
}

// RootUrl encloses the base URL of the console.
// It returns "rootUrl" as the name of the function for passing to WithFn.
// If u is nil, the function always returns an empty string.
func RootUrl(u *url.URL) (string, func() string) {
	if u == nil {
		return "rootUrl", func() string { return "" }
	}

	s := u.String()
	return "rootUrl", func() string { return s }
}

// Defaults bundles the functions every console template may call.
func Defaults(e outpost.Environment, root *url.URL) []Option {
	return []Option{
		WithFn(Env(e)),
		WithFn(Nonce()),
		WithFn(RootUrl(root)),
	}
}
