package middleware

import (
	"net/http"

	"github.com/xy-planning-network/outpost/http/flash"
)

// InjectFlash binds the flash session of the request into its context,
// so handlers and the API client can notify the operator.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectFlash(store flash.Storer) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A cookie that no longer decodes still yields a fresh session.
			s, _ := store.GetSession(r)

			h.ServeHTTP(w, r.WithContext(flash.WithSession(r.Context(), s, w, r)))
		})
	}
}
