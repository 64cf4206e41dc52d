package client

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/outpost"
)

// AuthService logs the operator in and out.
type AuthService struct{ c *Client }

// Login authenticates creds and stores the resulting session.
func (s *AuthService) Login(ctx context.Context, creds outpost.Credentials) (outpost.LoginResponse, error) {
	if err := creds.Valid(); err != nil {
		return outpost.LoginResponse{}, err
	}

	req, err := s.c.newRequest(ctx, http.MethodPost, "/auth/login", creds)
	if err != nil {
		return outpost.LoginResponse{}, err
	}

	var lr outpost.LoginResponse
	if err := s.c.do(req, &lr); err != nil {
		return outpost.LoginResponse{}, err
	}

	if err := s.c.session.Login(ctx, lr.Pseudo, lr.Token); err != nil {
		return outpost.LoginResponse{}, err
	}

	return lr, nil
}

// Register creates a player from creds.
func (s *AuthService) Register(ctx context.Context, creds outpost.Credentials) error {
	if err := creds.ValidNew(); err != nil {
		return err
	}

	req, err := s.c.newRequest(ctx, http.MethodPost, "/auth/register", creds)
	if err != nil {
		return err
	}

	return s.c.do(req, nil)
}

// Logout forgets the session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.session.Clear(ctx)
}
