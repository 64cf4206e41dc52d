package resp

import "errors"

var (
	// ErrDone means the request ended before a response could be written.
	ErrDone        = errors.New("request ctx done")
	ErrInvalid     = errors.New("invalid")
	ErrMissingData = errors.New("missing data")
)
