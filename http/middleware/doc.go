/*
Package middleware defines what a middleware is in outpost and the middlewares the console
and the catalog API share.

The available middlewares are:
  - CORS
  - CurrentUser
  - ForceHTTPS
  - InjectFlash
  - InjectIPAddress
  - LogRequest
  - RateLimit
  - RequestID
  - RequireAuthed
  - RequireUnauthed

AuthorizeApplicator builds further Adapters authorizing the value CurrentUser stored.

The console chains them like so:

	adpts := []middleware.Adapter{
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.InjectFlash(flashes),
	}
*/
package middleware
