package template

import "io/fs"

// An Option configures a *Parse when constructing it.
type Option func(*Parse)

// WithFn adds a named function to the function map of a *Parse.
func WithFn(name string, fn any) Option {
	return func(p *Parse) {
		p.AddFn(name, fn)
	}
}

// WithFS adds a layer to read templates from.
// Layers are searched in the order they were added.
func WithFS(filesys fs.FS) Option {
	return func(p *Parse) {
		if filesys != nil {
			p.layers = append(p.layers, filesys)
		}
	}
}
