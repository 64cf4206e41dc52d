package view

import (
	"context"
	html "html/template"
	"io"
	"sync"

	"github.com/xy-planning-network/outpost/http/template"
)

// templateModule is the module of a template file.
// The file is parsed on first load; a successful parse is kept.
type templateModule struct {
	parser template.Parser
	files  []string

	mu   sync.Mutex
	tmpl *html.Template
}

func (tm *templateModule) load(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.tmpl == nil {
		tmpl, err := tm.parser.Parse(tm.files...)
		if err != nil {
			return nil, err
		}
		tm.tmpl = tmpl
	}

	return templateExport{tmpl: tm.tmpl}, nil
}

// templateExport is the default export of a templateModule.
type templateExport struct {
	tmpl *html.Template
}

func (te templateExport) Default() View { return templateView(te) }

type templateView struct {
	tmpl *html.Template
}

func (tv templateView) Render(w io.Writer, data Data) error { return tv.tmpl.Execute(w, data) }
