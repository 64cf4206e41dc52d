package auth

import "net/http"

// A TokenService hands out tokens and reads them back off requests.
type TokenService interface {
	Authenticate(r *http.Request) (string, error)
	Issue(pseudo string) (string, error)
}
