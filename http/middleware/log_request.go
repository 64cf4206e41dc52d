package middleware

import (
	"net/http"
	"strings"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/logger"
)

// LogRequest logs the request's method, requested URL, originating IP address, and request ID.
//
// LogRequest scrubs the values for the following query keys:
//   - password
//   - token
//
// If ls is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			for _, k := range []string{"password", "token"} {
				if q.Has(k) {
					q.Set(k, "xxxxxxx")
				}
			}

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(outpost.IpAddrKey).(string); ok {
				strs = append([]string{ip}, strs...)
			}

			var lc *logger.LogContext
			if id, ok := r.Context().Value(outpost.RequestIDKey).(string); ok {
				lc = &logger.LogContext{Data: map[string]any{"requestID": id}}
			}

			ls.Info(strings.Join(strs, " "), lc)
			h.ServeHTTP(w, r)
		})
	}
}
