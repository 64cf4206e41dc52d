/*
Package resp provides a high-level API for responding to HTTP requests,
configured once for the whole console.

A [Responder] responds in one of three ways:
  - rendering a view.View as HTML
  - writing JSON
  - redirecting

Calling code shapes each response through [Fn] options, such as [Code], [Data], or [Url].
*/
package resp
