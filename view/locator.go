package view

import (
	"fmt"
	"html"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/template"
)

const (
	// DefaultRoot names the views root when none is configured.
	DefaultRoot = "views"

	// DefaultFallback is the component rendered for routes whose component cannot be found.
	DefaultFallback = "Accueil.tmpl"

	ext = ".tmpl"
)

// A Locator maps keys of the form "/<root>/<component path>"
// onto the ModuleLoader of every view found at construction.
//
// A Locator never changes after NewLocator returns.
type Locator struct {
	fallback string
	roots    []string
	modules  map[string]ModuleLoader
}

type root struct {
	name string
	fsys fs.FS
}

type config struct {
	data       map[string]DataFunc
	fallback   string
	layoutFS   fs.FS
	layout     string
	modules    map[string]ModuleLoader
	parserOpts []template.Option
	roots      []root
}

// A LocatorOpt configures a Locator when calling NewLocator.
type LocatorOpt func(*config)

// WithRoot adds every template file in fsys under "/<name>/".
// The first root added is the one Key prefixes.
func WithRoot(name string, fsys fs.FS) LocatorOpt {
	return func(c *config) {
		c.roots = append(c.roots, root{name: strings.Trim(name, "/"), fsys: fsys})
	}
}

// WithModule adds a Go-native view module at key.
func WithModule(key string, ml ModuleLoader) LocatorOpt {
	return func(c *config) {
		c.modules[key] = ml
	}
}

// WithData feeds the view at componentPath the Payload fetch returns each time it loads.
// The view must be found under the first root or among the modules.
func WithData(componentPath string, fetch DataFunc) LocatorOpt {
	return func(c *config) {
		c.data[componentPath] = fetch
	}
}

// WithLayout wraps every template view in the layout at name within fsys.
// The layout renders a view's "content" template.
func WithLayout(fsys fs.FS, name string) LocatorOpt {
	return func(c *config) {
		c.layoutFS = fsys
		c.layout = name
	}
}

// WithParserOptions configures the template.Parser of every template view,
// such as the functions it may call.
func WithParserOptions(opts ...template.Option) LocatorOpt {
	return func(c *config) {
		c.parserOpts = append(c.parserOpts, opts...)
	}
}

// WithFallback sets the component path rendered when a route's component cannot be found.
func WithFallback(componentPath string) LocatorOpt {
	return func(c *config) {
		c.fallback = componentPath
	}
}

// NewLocator walks every root and builds the Locator.
// Templates are not parsed until their view is first loaded.
func NewLocator(opts ...LocatorOpt) (*Locator, error) {
	c := &config{
		data:     make(map[string]DataFunc),
		fallback: DefaultFallback,
		modules:  make(map[string]ModuleLoader),
	}
	for _, opt := range opts {
		opt(c)
	}

	l := &Locator{fallback: c.fallback, modules: make(map[string]ModuleLoader)}
	for _, r := range c.roots {
		if r.name == "" || r.fsys == nil {
			return nil, fmt.Errorf("%w: views root needs a name and a filesystem", outpost.ErrBadConfig)
		}
		l.roots = append(l.roots, r.name)

		popts := append([]template.Option{template.WithFS(r.fsys)}, c.parserOpts...)
		if c.layoutFS != nil {
			popts = append(popts, template.WithFS(c.layoutFS))
		}
		parser := template.NewParser(popts...)

		err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() || path.Ext(p) != ext || p == c.layout {
				return nil
			}

			tm := &templateModule{parser: parser, files: []string{c.layout, p}}
			l.modules["/"+r.name+"/"+p] = tm.load
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed walking views root %s: %s", outpost.ErrBadConfig, r.name, err)
		}
	}

	if len(l.roots) == 0 {
		l.roots = append(l.roots, DefaultRoot)
	}

	for key, ml := range c.modules {
		if ml == nil {
			return nil, fmt.Errorf("%w: nil module at %s", outpost.ErrBadConfig, key)
		}
		l.modules[key] = ml
	}

	for cp, fetch := range c.data {
		key := l.Key(cp)
		ml, ok := l.modules[key]
		if !ok || fetch == nil {
			return nil, fmt.Errorf("%w: no view at %s to feed data to", outpost.ErrBadConfig, key)
		}
		l.modules[key] = withData(ml, fetch)
	}

	return l, nil
}

// Key computes the key locating componentPath under the first views root.
//
//	" Shop.tmpl " => "/views/Shop.tmpl"
func (l *Locator) Key(componentPath string) string {
	return "/" + l.roots[0] + "/" + strings.TrimLeft(strings.TrimSpace(componentPath), "/")
}

// Lookup retrieves the ModuleLoader at key.
func (l *Locator) Lookup(key string) (ModuleLoader, bool) {
	ml, ok := l.modules[key]
	return ml, ok
}

// Resolve looks up componentPath and normalizes its module.
// A componentPath that cannot be found fails with ErrNotFound.
func (l *Locator) Resolve(componentPath string) (Loader, error) {
	key := l.Key(componentPath)
	ml, ok := l.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return Normalize(ml), nil
}

// Fallback returns the Loader rendered in place of components that cannot be found.
// If the fallback component itself is missing, a bare placeholder View stands in.
func (l *Locator) Fallback() Loader {
	if ld, err := l.Resolve(l.fallback); err == nil {
		return ld
	}

	return Static(placeholder)
}

// Keys lists every key in lexical order.
func (l *Locator) Keys() []string {
	keys := make([]string, 0, len(l.modules))
	for k := range l.modules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

var placeholder = Func(func(w io.Writer, data Data) error {
	_, err := fmt.Fprintf(w, "<!DOCTYPE html><html><body><p>%s is unavailable.</p></body></html>", html.EscapeString(data.Path))
	return err
})
