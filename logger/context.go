package logger

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
)

var _ encoding.TextMarshaler = LogContext{}

// LogUser exposes the operator whose session was active to a LogContext.
type LogUser interface {
	// GetPseudo retrieves the display name the operator logged in with.
	GetPseudo() string
}

// A LogContext provides additional information for a [Logger] method
// that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the call site with the provided value.
	// Caller is not part of the text of a LogContext.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may have instigated the logging event.
	Error error

	// Request is the *http.Request open during the logging event.
	Request *http.Request

	// User is the operator whose session was active during the logging event.
	User LogUser
}

// MarshalText converts LogContext into JSON, eliminating zero-value fields.
// The Authorization header of Request is redacted.
//
// MarshalText implements [encoding.TextMarshaler].
func (lc LogContext) MarshalText() ([]byte, error) {
	m := make(map[string]any)
	if lc.Data != nil {
		m["data"] = lc.Data
	}

	if lc.Error != nil {
		m["error"] = lc.Error.Error()
	}

	if lc.Request != nil {
		m["request"] = marshalRequest(lc.Request)
	}

	if lc.User != nil {
		if pseudo := lc.User.GetPseudo(); pseudo != "" {
			m["user"] = map[string]any{"pseudo": pseudo}
		}
	}

	return json.Marshal(m)
}

func marshalRequest(r *http.Request) map[string]any {
	out := map[string]any{
		"method": r.Method,
		"url":    r.URL.String(),
	}

	header := r.Header.Clone()
	if header.Get("Authorization") != "" {
		header.Set("Authorization", "[redacted]")
	}
	out["header"] = header

	if r.Header.Get("Content-Type") == "application/json" && r.Body != nil {
		j := make(map[string]any)
		b := new(bytes.Buffer)
		if err := json.NewDecoder(io.TeeReader(r.Body, b)).Decode(&j); err == nil {
			out["json"] = j
		}
		r.Body.Close()
		r.Body = io.NopCloser(b)
	}

	if r.Form != nil {
		form := make(map[string][]string, len(r.Form))
		for k, v := range r.Form {
			if k == "password" {
				v = []string{"[redacted]"}
			}
			form[k] = v
		}
		out["form"] = form
	}

	return out
}

// String stringifies LogContext as JSON.
func (lc LogContext) String() string {
	b, err := lc.MarshalText()
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err)
	}

	return string(b)
}

// CurrentCaller retrieves the caller of the function calling CurrentCaller,
// formatted for LogContext.Caller.
// Goroutines use it to attribute their logs to the code that spawned them.
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, immediateFilepath(file), line)
}
