package template

import (
	"fmt"
	html "html/template"
	"io/fs"
	"os"
	"path"
)

// Parser parses HTML templates with the functions provided.
type Parser interface {
	AddFn(name string, fn any)
	Parse(fps ...string) (*html.Template, error)
}

// Parse implements Parser over one or more layered fs.FS.
type Parse struct {
	layers []fs.FS
	fs     fs.FS
	fns    html.FuncMap
}

// NewParser constructs a Parse with the provided functional options.
// Without WithFS, templates are read from the working directory.
func NewParser(opts ...Option) *Parse {
	p := &Parse{fns: make(html.FuncMap)}
	for _, opt := range opts {
		opt(p)
	}

	if len(p.layers) == 0 {
		p.layers = append(p.layers, os.DirFS("."))
	}

	p.fs = newLayeredFS(p.layers...)
	return p
}

// Parse parses the named files with the functions provided so far.
// The returned template is named after the base of the first file.
// Empty names are skipped.
func (p *Parse) Parse(fps ...string) (*html.Template, error) {
	names := make([]string, 0, len(fps))
	for _, fp := range fps {
		if fp != "" {
			names = append(names, fp)
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w", ErrNoFiles)
	}

	return html.New(path.Base(names[0])).Funcs(p.fns).ParseFS(p.fs, names...)
}
