/*
Package catalog serves the route catalog the console's navigation is built from,
along with the players and roles deciding who may reach each route.

A [Service] persists routes, roles and players through package postgres.
A [Handler] exposes the Service as a JSON API under /api,
authenticating players with the bearer tokens package auth issues.

Which routes a player may navigate to:
  - routes not needing authentication, for everyone
  - routes needing authentication without a role, for any player
  - routes needing a role, for players holding that role
*/
package catalog
