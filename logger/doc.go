/*
Package logger defines the leveled [Logger] outpost writes through
and provides [ConsoleLogger] as its implementation.

Log messages emitted by a [ConsoleLogger] are composed of
a timestamp, the level, the call site, the message, and an optional [LogContext]:

	2024/03/02 15:55:21 [WARN] outpost/nav/registrar.go:88 'view not found, using fallback' log_context: {"data":{"componentPath":"Shop.tmpl"}}

Configuring a Sentry DSN with [WithSentry] wraps the [ConsoleLogger] in a [SentryLogger],
reporting warnings and errors carrying a [LogContext.Error].
*/
package logger
