package nav

import "errors"

var (
	// ErrBackoff wraps the last failure while the Registrar waits before retrying.
	ErrBackoff = errors.New("dynamic routes backing off")

	// ErrCatalogFetch wraps failures fetching available routes from the catalog.
	ErrCatalogFetch = errors.New("failed fetching route catalog")

	// ErrViewResolutionMiss marks a route whose component has no view.
	ErrViewResolutionMiss = errors.New("no view for component")
)
