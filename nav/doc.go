/*
Package nav decides where each navigation of the console ends up.

A [Registrar] merges the routes the catalog makes available into the navigation table,
once per process, however many navigations ask for it concurrently.
[Decide] is the policy every navigation passes through,
and [Guard] is the http.Handler applying it.
*/
package nav
