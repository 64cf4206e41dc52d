package resp

import (
	"net/http"

	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/session"
)

// newLogContext structures a logger.LogContext from the provided parts.
func newLogContext(r *http.Request, err error, data any, user logger.LogUser) *logger.LogContext {
	if r == nil && err == nil && data == nil && user == nil {
		return nil
	}

	ctx := &logger.LogContext{Request: r, Error: err, User: user}
	if mapped, ok := data.(map[string]any); ok {
		ctx.Data = mapped
	}

	return ctx
}

// userOf exposes st to a logger.LogContext when an operator is logged in.
func userOf(st session.State) logger.LogUser {
	if !st.Authenticated() {
		return nil
	}

	return st
}
