package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrNetwork        = errors.New("server unreachable")
	ErrServer         = errors.New("server error")
	ErrSessionInvalid = errors.New("session invalid")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUnexpected     = errors.New("unexpected response")
)

// InvalidTokenCode marks a 401 whose token was invalid or expired.
const InvalidTokenCode = "INVALID_OR_EXPIRED_TOKEN"

// An Error is a request the API failed or could not be reached for.
// Status is 0 when the API could not be reached.
type Error struct {
	Status  int
	Code    string
	Message string

	kind error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.kind, e.Message)
	}

	return fmt.Sprintf("%s: %d %s", e.kind, e.Status, e.Message)
}

// Unwrap exposes the kind of failure.
func (e *Error) Unwrap() error { return e.kind }

// classify assigns the kind of failure by status and code.
func classify(status int, code string) error {
	switch {
	case status == http.StatusUnauthorized && code == InvalidTokenCode:
		return ErrSessionInvalid
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnexpected
	}
}
