package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/outpost"
)

// PlayersService manages players and the roles they hold.
type PlayersService struct{ c *Client }

// GetAll lists every player.
func (s *PlayersService) GetAll(ctx context.Context) ([]outpost.PlayerRoles, error) {
	req, err := s.c.newRequest(ctx, http.MethodGet, "/players", nil)
	if err != nil {
		return nil, err
	}

	var prs []outpost.PlayerRoles
	if err := s.c.do(req, &prs); err != nil {
		return nil, err
	}

	return prs, nil
}

// UpdateRoles replaces the roles of the player identified by id.
func (s *PlayersService) UpdateRoles(ctx context.Context, id uint, roles []string) (outpost.PlayerRoles, error) {
	if roles == nil {
		roles = []string{}
	}

	req, err := s.c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/players/%d/roles", id), roles)
	if err != nil {
		return outpost.PlayerRoles{}, err
	}

	var pr outpost.PlayerRoles
	if err := s.c.do(req, &pr); err != nil {
		return outpost.PlayerRoles{}, err
	}

	return pr, nil
}

// RolesService lists roles.
type RolesService struct{ c *Client }

// GetAll lists the name of every role.
func (s *RolesService) GetAll(ctx context.Context) ([]string, error) {
	req, err := s.c.newRequest(ctx, http.MethodGet, "/roles", nil)
	if err != nil {
		return nil, err
	}

	var roles []string
	if err := s.c.do(req, &roles); err != nil {
		return nil, err
	}

	return roles, nil
}
