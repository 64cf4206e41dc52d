/*
Package client calls the REST API behind the console.

A [Client] attaches the operator's bearer token to every request
and turns failed responses into an [*Error] whose kind callers test with errors.Is.
Each failure also notifies the operator; see [Notifier].

A token the API rejects as invalid or expired clears the session,
and the operator is told so once per invalidation window however many requests fail.
*/
package client
