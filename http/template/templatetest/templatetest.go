// Package templatetest builds in-memory template files for unit tests
// so rendering can be tested without testdata/ directories.
package templatetest

import (
	"testing/fstest"

	"github.com/xy-planning-network/outpost/http/template"
)

// Files maps template paths to their contents.
type Files map[string]string

// FS converts the Files into an fs.FS.
func (f Files) FS() fstest.MapFS {
	mfs := make(fstest.MapFS, len(f))
	for name, data := range f {
		mfs[name] = &fstest.MapFile{Data: []byte(data)}
	}

	return mfs
}

// NewParser constructs a *template.Parse reading only from the Files.
func NewParser(f Files, opts ...template.Option) *template.Parse {
	return template.NewParser(append([]template.Option{template.WithFS(f.FS())}, opts...)...)
}
