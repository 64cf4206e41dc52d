package logger

import (
	"io"
	"log"
)

type config struct {
	sentryDSN string
}

// An Option configures a ConsoleLogger when constructing a new one with New.
type Option func(*ConsoleLogger, *config)

// WithEnv sets the environment the ConsoleLogger reports to Sentry.
func WithEnv(env string) Option {
	return func(l *ConsoleLogger, _ *config) {
		l.env = env
	}
}

// WithLevel sets the minimum LogLevel the ConsoleLogger prints.
func WithLevel(level LogLevel) Option {
	return func(l *ConsoleLogger, _ *config) {
		l.ll = level
	}
}

// WithLogger sets the *log.Logger the ConsoleLogger prints with.
func WithLogger(log *log.Logger) Option {
	return func(l *ConsoleLogger, _ *config) {
		l.l = log
	}
}

// WithOutput prints logs to w without timestamps.
func WithOutput(w io.Writer) Option {
	return WithLogger(log.New(w, "", 0))
}

// WithSentry forwards warnings and errors carrying a LogContext.Error to the Sentry project at dsn.
// An empty dsn is ignored.
func WithSentry(dsn string) Option {
	return func(_ *ConsoleLogger, c *config) {
		c.sentryDSN = dsn
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number.
func WithSkip(skip int) Option {
	return func(l *ConsoleLogger, _ *config) {
		l.skip = skip
	}
}
