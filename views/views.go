// Package views embeds the console's screens.
//
// Every screen defines a "content" template rendered inside layout.tmpl.
// A screen's component path is its path relative to this directory,
// such as "Home.tmpl" or "admin/Sprites.tmpl".
package views

import "embed"

// Layout is the template every screen renders inside.
const Layout = "layout.tmpl"

// FS holds the screens and Layout.
//
//go:embed *.tmpl admin/*.tmpl
var FS embed.FS
