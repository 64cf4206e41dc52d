package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/xy-planning-network/outpost"
)

const bearer = "Bearer "

// Authenticate verifies the bearer token r carries, returning the pseudo it was issued to.
//
// Without a token, Authenticate returns outpost.ErrNotExist.
// A token failing verification returns a *TokenError.
func (s *Service) Authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearer) || strings.TrimSpace(header[len(bearer):]) == "" {
		return "", fmt.Errorf("%w: no bearer token", outpost.ErrNotExist)
	}

	return s.Verify(strings.TrimSpace(header[len(bearer):]))
}

// Issue signs a token for pseudo.
func (s *Service) Issue(pseudo string) (string, error) {
	if pseudo == "" {
		return "", fmt.Errorf("%w: pseudo", outpost.ErrMissingData)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   pseudo,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("%w: failed signing token: %s", outpost.ErrUnexpected, err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of token, returning its subject.
func (s *Service) Verify(token string) (string, error) {
	claims := new(jwt.RegisteredClaims)
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		return "", &TokenError{Reason: err.Error()}
	}

	if claims.Subject == "" {
		return "", &TokenError{Reason: "no subject"}
	}

	return claims.Subject, nil
}
