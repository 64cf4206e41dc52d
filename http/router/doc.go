/*
Package router routes requests to the console.

Two tables live here.
A [Router] wraps gorilla/mux for action requests:
form posts, asset files, and anything else a handler answers directly.
A [Route] pairs a path and HTTP method with an [http.HandlerFunc]
and the middlewares called before it, in the order they appear.
AuthedRoutes and UnauthedRoutes register groups of Routes behind
or outside of the authentication barrier in one call.

A [Table] holds the [ViewRoute] navigations resolve against:
the static screens from [StaticRoutes] and whatever the route catalog adds at runtime.
Every GET request no Route matches reaches the navigation guard through Router.CatchAll,
and the guard matches it against the Table.
*/
package router
