package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/outpost"
)

// RoutesService manages the route catalog.
type RoutesService struct{ c *Client }

// GetAvailable lists the routes the operator may navigate to.
func (s *RoutesService) GetAvailable(ctx context.Context) ([]outpost.RouteDescriptor, error) {
	return s.list(ctx, "/routes/available")
}

// GetAll lists every route in the catalog.
func (s *RoutesService) GetAll(ctx context.Context) ([]outpost.RouteDescriptor, error) {
	return s.list(ctx, "/routes")
}

func (s *RoutesService) list(ctx context.Context, path string) ([]outpost.RouteDescriptor, error) {
	req, err := s.c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var rds []outpost.RouteDescriptor
	if err := s.c.do(req, &rds); err != nil {
		return nil, err
	}

	return rds, nil
}

// Create adds rd to the catalog.
func (s *RoutesService) Create(ctx context.Context, rd outpost.RouteDescriptor) (outpost.RouteDescriptor, error) {
	return s.save(ctx, http.MethodPost, rd)
}

// Update replaces the route identified by rd.ID.
func (s *RoutesService) Update(ctx context.Context, rd outpost.RouteDescriptor) (outpost.RouteDescriptor, error) {
	if rd.ID == nil {
		return outpost.RouteDescriptor{}, fmt.Errorf("%w: route has no id", outpost.ErrMissingData)
	}

	return s.save(ctx, http.MethodPut, rd)
}

func (s *RoutesService) save(ctx context.Context, method string, rd outpost.RouteDescriptor) (outpost.RouteDescriptor, error) {
	req, err := s.c.newRequest(ctx, method, "/routes", rd)
	if err != nil {
		return outpost.RouteDescriptor{}, err
	}

	var saved outpost.RouteDescriptor
	if err := s.c.do(req, &saved); err != nil {
		return outpost.RouteDescriptor{}, err
	}

	return saved, nil
}

// Remove deletes the route identified by id.
func (s *RoutesService) Remove(ctx context.Context, id uint) error {
	req, err := s.c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/routes/%d", id), nil)
	if err != nil {
		return err
	}

	return s.c.do(req, nil)
}
