package resp

import (
	"net/url"

	"github.com/xy-planning-network/outpost/logger"
)

// A ResponderOptFn configures a *Responder when constructing it.
type ResponderOptFn func(*Responder)

// WithContactErrMsg sets the message GenericErr flashes.
func WithContactErrMsg(msg string) ResponderOptFn {
	return func(d *Responder) {
		d.contactErrMsg = msg
	}
}

// WithLogger sets the logger.Logger a Responder logs errors through.
//
// Without it, a Responder logs through logger.New.
func WithLogger(log logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = log
	}
}

// WithRootUrl sets the URL ToRoot redirects to.
//
// If u fails parsing by url.ParseRequestURI, the root URL becomes "/".
func WithRootUrl(u string) ResponderOptFn {
	good, err := url.ParseRequestURI(u)
	if err != nil {
		good = &url.URL{Path: "/"}
	}

	return func(d *Responder) {
		d.rootUrl = good
	}
}
