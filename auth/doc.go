/*
Package auth issues and verifies the signed tokens players carry after logging in.

Tokens are HS256 JWTs whose subject is the player's pseudo.
A request presents one in its Authorization header:

	Authorization: Bearer <token>

A missing token is outpost.ErrNotExist; a forged, malformed or expired one is a *TokenError,
which the catalog reports with the INVALID_OR_EXPIRED_TOKEN code.
*/
package auth
