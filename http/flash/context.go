package flash

import (
	"context"
	"net/http"
	"sync"

	"github.com/xy-planning-network/outpost"
)

// binding ties a Session to the response being written for it.
// mu serializes goroutines of one request notifying at once.
type binding struct {
	mu *sync.Mutex
	s  Session
	w  http.ResponseWriter
	r  *http.Request
}

// WithSession binds the Session, w, and r into a copy of ctx
// so code without access to either can still Notify.
func WithSession(ctx context.Context, s Session, w http.ResponseWriter, r *http.Request) context.Context {
	return context.WithValue(ctx, outpost.FlashKey, binding{mu: new(sync.Mutex), s: s, w: w, r: r})
}

// Notify adds f to the Session bound to ctx.
// Without one, Notify returns ErrNoSession.
func Notify(ctx context.Context, f Flash) error {
	b, ok := ctx.Value(outpost.FlashKey).(binding)
	if !ok {
		return ErrNoSession
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.s.Add(b.w, b.r, f)
}

// Pop retrieves and removes the Flashes of the Session bound to ctx.
func Pop(ctx context.Context) []Flash {
	b, ok := ctx.Value(outpost.FlashKey).(binding)
	if !ok {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.s.Flashes(b.w, b.r)
}
