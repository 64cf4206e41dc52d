package resp

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/session"
	"github.com/xy-planning-network/outpost/view"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is what a Responder builds while applying every Fn.
type Response struct {
	w         http.ResponseWriter
	r         *http.Request
	closeBody bool
	code      int
	data      any
	problem   *Problem
	state     session.State
	url       *url.URL
	view      view.View
}

// A Problem is the body of a JSON error response.
type Problem struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores d for writing to the client.
//
// Used with Responder.Html, where it becomes view.Data.Payload, and Responder.Json.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err sets the status code http.StatusInternalServerError and logs e.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e != nil {
			d.logger.Error(e.Error(), newLogContext(r.r, e, r.data, userOf(r.state)))
		}

		return Code(http.StatusInternalServerError)(d, r)
	}
}

// Fail sets the status code and the JSON error body.
//
// Used with Responder.Json.
func Fail(code int, errCode, msg string) Fn {
	return func(d Responder, r *Response) error {
		r.problem = &Problem{Error: errCode, Message: msg}
		return Code(code)(d, r)
	}
}

// Flash notifies the operator with f on the next rendered page.
//
// Without a flash session bound to the request context, see flash.WithSession,
// the Flash is logged and dropped.
func Flash(f flash.Flash) Fn {
	return func(d Responder, r *Response) error {
		err := flash.Notify(r.r.Context(), f)
		if errors.Is(err, flash.ErrNoSession) {
			d.logger.Debug("dropping flash", &logger.LogContext{Data: map[string]any{"msg": f.Msg}})
			return nil
		}

		return err
	}
}

// GenericErr combines Err and Flash to log e
// and flash the message set by WithContactErrMsg or flash.DefaultErrMsg.
func GenericErr(e error) Fn {
	return func(d Responder, r *Response) error {
		if err := Err(e)(d, r); err != nil {
			return err
		}

		msg := flash.DefaultErrMsg
		if d.contactErrMsg != "" {
			msg = d.contactErrMsg
		}

		return Flash(flash.Error(msg))(d, r)
	}
}

// Operator sets the session State the rendered view sees.
//
// Used with Responder.Html.
func Operator(st session.State) Fn {
	return func(_ Responder, r *Response) error {
		r.state = st
		return nil
	}
}

// Param adds the query parameter to the response's URL.
//
// Used with Responder.Redirect.
func Param(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		if r.url == nil {
			return fmt.Errorf("%w: Url() has not been called", ErrMissingData)
		}

		u := *r.url
		q := u.Query()
		q.Add(key, val)
		u.RawQuery = q.Encode()
		r.url = &u
		return nil
	}
}

// Success sets the status code http.StatusOK and flashes msg as a success.
func Success(msg string) Fn {
	return func(d Responder, r *Response) error {
		if err := Code(http.StatusOK)(d, r); err != nil {
			return err
		}

		return Flash(flash.Success(msg))(d, r)
	}
}

// ToRoot sets the response's URL to the Responder's root URL.
func ToRoot() Fn {
	return func(d Responder, r *Response) error {
		r.url = d.rootUrl
		return nil
	}
}

// Url parses u and sets it as the response's URL.
//
// Used with Responder.Redirect.
func Url(u string) Fn {
	return func(_ Responder, r *Response) error {
		parsed, err := url.ParseRequestURI(u)
		if err != nil {
			return fmt.Errorf("%w: u is not a valid URL: %v", ErrInvalid, err)
		}
		r.url = parsed
		return nil
	}
}

// View sets the view.View Responder.Html renders.
func View(v view.View) Fn {
	return func(_ Responder, r *Response) error {
		if v == nil {
			return fmt.Errorf("%w: nil view", ErrMissingData)
		}
		r.view = v
		return nil
	}
}

// Warn logs msg and flashes it as a warning.
func Warn(msg string) Fn {
	return func(d Responder, r *Response) error {
		d.logger.Warn(msg, newLogContext(r.r, nil, r.data, nil))
		return Flash(flash.Warning(msg))(d, r)
	}
}
