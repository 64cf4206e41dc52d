package middleware

import (
	"net/http"
	"net/url"

	"github.com/xy-planning-network/outpost"
)

// ForceHTTPS redirects HTTP requests to HTTPS unless the environment is development or testing.
//
// "X-Forwarded-Proto" tells whether HTTPS was requested of a proxy in front of outpost.
func ForceHTTPS(env outpost.Environment) Adapter {
	if env.IsDevelopment() || env.IsTesting() {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Forwarded-Proto") == "https" || r.TLS != nil {
				handler.ServeHTTP(w, r)
				return
			}

			u := new(url.URL)
			*u = *r.URL
			u.Scheme = "https"
			u.Host = r.Host

			http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)
		})
	}
}
