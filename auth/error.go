package auth

import "github.com/xy-planning-network/outpost"

// InvalidTokenCode is the error code reported for a token failing verification.
const InvalidTokenCode = "INVALID_OR_EXPIRED_TOKEN"

// A TokenError is a token that failed verification.
type TokenError struct {
	Reason string
}

func (e *TokenError) Error() string { return "invalid or expired token: " + e.Reason }

// ErrorCode implements middleware.ErrorCoder.
func (*TokenError) ErrorCode() string { return InvalidTokenCode }

func (*TokenError) Unwrap() error { return outpost.ErrNotValid }
