package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorTTL = time.Hour

// A Visitor tracks a rate limiter and last seen time.
type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// Visitors maps a Visitor to an IP address.
type Visitors struct {
	burst int
	limit rate.Limit

	mu          sync.Mutex
	val         map[string]Visitor
	lastCleanup time.Time
}

// NewVisitors constructs Visitors allowing each IP address limit requests a second
// with bursts of up to burst.
func NewVisitors(limit rate.Limit, burst int) *Visitors {
	return &Visitors{burst: burst, limit: limit, val: make(map[string]Visitor), lastCleanup: time.Now()}
}

// Fetch retrieves the Visitor for ip, creating a new Visitor if not seen.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	now := time.Now().UTC()
	if now.Sub(vs.lastCleanup) > visitorTTL {
		vs.cleanup(now)
	}

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.limit, vs.burst)}
	}

	v.LastSeen = now
	vs.val[ip] = v
	return v
}

// cleanup deletes every Visitor not seen within visitorTTL.
// The caller holds the lock.
func (vs *Visitors) cleanup(now time.Time) {
	for ip, v := range vs.val {
		if now.Sub(v.LastSeen) > visitorTTL {
			delete(vs.val, ip)
		}
	}
	vs.lastCleanup = now
}

// RateLimit responds 429 to IP addresses exceeding their Visitor's limit.
//
// Implementation follows https://www.alexedwards.net/blog/how-to-rate-limit-http-requests
func RateLimit(visitors *Visitors) Adapter {
	if visitors == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !visitors.Fetch(GetIPAddress(r.Header)).Limiter.Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}
