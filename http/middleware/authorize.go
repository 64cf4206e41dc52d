package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/http/resp"
)

// An Authenticator reports whether the operator is logged in.
type Authenticator interface {
	Authenticated() bool
}

// An Identifier identifies the user making a request.
// It returns outpost.ErrNotExist when the request carries no credentials.
type Identifier[T any] func(r *http.Request) (T, error)

// An ErrorCoder is an error exposing a machine-readable code for JSON error bodies.
type ErrorCoder interface {
	ErrorCode() string
}

const defaultUnauthorizedCode = "UNAUTHORIZED"

// CurrentUser identifies the user of the request and stores it in the request context under key.
//
// Requests without credentials pass through without a user;
// authorization middlewares decide what they may do.
// Requests with credentials identify rejects receive 401 and a JSON error body,
// its "error" taken from an ErrorCoder if the error is one.
//
// If d or identify is nil, NoopAdapter returns and this middleware does nothing.
func CurrentUser[T any](d *resp.Responder, identify Identifier[T], key outpost.Key) Adapter {
	if d == nil || identify == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := identify(r)
			if errors.Is(err, outpost.ErrNotExist) {
				handler.ServeHTTP(w, r)
				return
			}

			if err != nil {
				code := defaultUnauthorizedCode
				var ec ErrorCoder
				if errors.As(err, &ec) {
					code = ec.ErrorCode()
				}

				d.Json(w, r, resp.Fail(http.StatusUnauthorized, code, err.Error()))
				return
			}

			w.Header().Add("Cache-Control", "no-store")
			handler.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, user)))
		})
	}
}

// An AuthorizeApplicator constructs Adapters applying custom authorization rules
// to the user CurrentUser stored under its key, whose type is T.
type AuthorizeApplicator[T any] struct {
	d   *resp.Responder
	key outpost.Key
}

// NewAuthorizeApplicator constructs an AuthorizeApplicator for users of type T stored under key.
func NewAuthorizeApplicator[T any](d *resp.Responder, key outpost.Key) AuthorizeApplicator[T] {
	return AuthorizeApplicator[T]{d: d, key: key}
}

// Apply wraps fn validating the authorization of a user.
//
// fn returns either true and an empty string, meaning the user is authorized,
// or false and a URL to send the user to.
//
// A request without a user receives 401 and one fn rejects receives 403.
// If the request accepts "text/html", Apply instead flashes a "no access" warning
// and redirects, to the root URL or the URL fn returned.
//
// If fn is nil, Apply returns NoopAdapter.
func (aa AuthorizeApplicator[T]) Apply(fn func(user T) (string, bool)) Adapter {
	if fn == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			val, ok := r.Context().Value(aa.key).(T)
			if !ok {
				aa.deny(w, r, http.StatusUnauthorized, "")
				return
			}

			if url, ok := fn(val); !ok {
				aa.deny(w, r, http.StatusForbidden, url)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

func (aa AuthorizeApplicator[T]) deny(w http.ResponseWriter, r *http.Request, code int, url string) {
	if !acceptsTextHtml(r.Header) {
		if code == http.StatusForbidden {
			// No message: callers word a denial for their operator.
			aa.d.Json(w, r, resp.Fail(code, "FORBIDDEN", ""))
			return
		}

		aa.d.Json(w, r, resp.Fail(code, defaultUnauthorizedCode, http.StatusText(code)))
		return
	}

	opts := []resp.Fn{resp.Flash(flash.Warning(flash.NoAccessMsg))}
	if url != "" {
		opts = append(opts, resp.Url(url))
	}

	if err := aa.d.Redirect(w, r, opts...); err != nil {
		aa.d.Err(w, r, err)
	}
}

// RequireAuthed requires the operator be logged in.
//
// Otherwise, requests accepting JSON receive 401
// and the rest are redirected to loginUrl.
func RequireAuthed(d *resp.Responder, auth Authenticator, loginUrl string) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.Authenticated() {
				handler.ServeHTTP(w, r)
				return
			}

			if acceptsJson(r.Header) {
				d.Json(w, r, resp.Fail(http.StatusUnauthorized, defaultUnauthorizedCode, "log in first"))
				return
			}

			if err := d.Redirect(w, r, resp.Url(loginUrl)); err != nil {
				d.Err(w, r, err)
			}
		})
	}
}

// RequireUnauthed requires the operator not be logged in.
//
// Otherwise, requests accepting JSON receive 400
// and the rest are redirected to the root URL.
func RequireUnauthed(d *resp.Responder, auth Authenticator) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.Authenticated() {
				handler.ServeHTTP(w, r)
				return
			}

			if acceptsJson(r.Header) {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			if err := d.Redirect(w, r); err != nil {
				d.Err(w, r, err)
			}
		})
	}
}

func acceptsJson(header http.Header) bool {
	for _, v := range header.Values("Accept") {
		if strings.Contains(v, "application/json") {
			return true
		}
	}

	return false
}

func acceptsTextHtml(header http.Header) bool {
	return strings.HasPrefix(header.Get("Accept"), "text/html")
}
