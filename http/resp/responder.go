package resp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/view"
)

// Responder maintains reusable pieces for responding to HTTP requests.
// These are the forms of response a Responder can execute:
//
//	Html
//	Json
//	Redirect
//
// A single Responder suffices for the console.
// When handling a specific request, calling code supplies data, status codes,
// and so forth through Fn options.
type Responder struct {
	logger logger.Logger

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool

	// Message flashed by GenericErr
	contactErrMsg string

	// URL ToRoot redirects to
	rootUrl *url.URL
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		pool:    &sync.Pool{New: func() any { return new(bytes.Buffer) }},
		rootUrl: &url.URL{Path: "/"},
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New()
	}

	return d
}

// Err wraps http.Error, logging the error causing the failure state.
//
// Use in exceptional circumstances when no Redirect or Html can occur.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	rr, nested := doer.do(w, r, append(opts, Err(err))...)
	if nested != nil {
		err = fmt.Errorf("%w: %s", err, nested)
	}

	var msg string
	if err != nil {
		msg = err.Error()
	}

	code := http.StatusInternalServerError
	if rr != nil && rr.code != 0 {
		code = rr.code
	}

	http.Error(w, msg, code)
}

// Html renders the view.View set by View.
// The view sees the request path, the operator set by Operator,
// any pending flashes, and the payload set by Data.
//
// A view failing to render writes 500.
func (doer *Responder) Html(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.view == nil {
		return fmt.Errorf("%w: no view to render", ErrMissingData)
	}

	data := view.Data{
		Path:          r.URL.Path,
		Pseudo:        rr.state.Pseudo,
		Authenticated: rr.state.Authenticated(),
		Flashes:       flash.Pop(r.Context()),
		Payload:       rr.data,
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := rr.view.Render(b, data); err != nil {
		doer.logger.Error("failed rendering view", newLogContext(r, err, nil, userOf(rr.state)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	code := rr.code
	if code == 0 {
		code = http.StatusOK
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, err = b.WriteTo(w)
	return err
}

type jsonSchema struct {
	D any `json:"data"`
}

// Json writes JSON.
//
// When Fail was called, the body is the Problem:
//
//	{"error": "INVALID_OR_EXPIRED_TOKEN", "message": "..."}
//
// Otherwise Data populates "data":
//
//	{"data": {}}
//
// The default status code is 200.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	var payload any = jsonSchema{D: rr.data}
	if rr.problem != nil {
		payload = rr.problem
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(payload); err != nil {
		doer.Err(w, r, err)
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(rr.code)
	_, err = b.WriteTo(w)
	return err
}

// Redirect calls http.Redirect to the URL set by Url.
// If Url is not passed in opts, ToRoot sets the destination.
//
// The default status code is 302.
// A status code outside of 3xx set by Code is mapped onto one.
func (doer *Responder) Redirect(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, append([]Fn{ToRoot()}, opts...)...)
	if err != nil {
		return err
	}

	if rr.url == nil {
		return fmt.Errorf("%w: cannot redirect, no url", ErrMissingData)
	}

	switch {
	case rr.code >= http.StatusMultipleChoices && rr.code <= http.StatusPermanentRedirect:
	case rr.code >= http.StatusBadRequest && rr.code < http.StatusInternalServerError:
		rr.code = http.StatusSeeOther
	case rr.code >= http.StatusInternalServerError:
		rr.code = http.StatusTemporaryRedirect
	default:
		rr.code = http.StatusFound
	}

	http.Redirect(w, r, rr.url.String(), rr.code)
	return nil
}

// do applies all options to a new *Response.
//
// Options depending on others ought to come after them.
// do nonetheless retries failing options until none fail,
// or until a pass makes no progress.
func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	resp := &Response{w: w, r: r}

	redos := make([]Fn, 0)
	for _, opt := range opts {
		if err := r.Context().Err(); err != nil {
			return nil, fmt.Errorf("%w", ErrDone)
		}

		if err := opt(*doer, resp); err != nil {
			redos = append(redos, opt)
		}
	}

	for len(redos) > 0 {
		if err := r.Context().Err(); err != nil {
			return nil, fmt.Errorf("%w", ErrDone)
		}

		n := len(redos)
		redos = doer.redo(resp, redos...)
		if len(redos) == n {
			break
		}
	}

	var err error
	for _, opt := range redos {
		nested := opt(*doer, resp)
		if err == nil {
			err = nested
			continue
		}
		err = fmt.Errorf("%w: %s", err, nested)
	}

	return resp, err
}

// redo applies as many Fns as it can, returning those that continue to fail.
func (doer *Responder) redo(r *Response, opts ...Fn) []Fn {
	bad := make([]Fn, 0)
	for _, opt := range opts {
		if err := opt(*doer, r); err != nil {
			bad = append(bad, opt)
		}
	}

	return bad
}
