package app

import (
	"context"

	"github.com/xy-planning-network/outpost"
	"github.com/xy-planning-network/outpost/view"
	"golang.org/x/sync/errgroup"
)

// A RoutesPage is what the route management screen lists.
type RoutesPage struct {
	Routes []outpost.RouteDescriptor
	Roles  []string
}

// A PlayersPage is what the player management screen lists.
type PlayersPage struct {
	Players []outpost.PlayerRoles
	Roles   []string
}

// pages maps the screens listing API data onto the calls fetching it.
func (c *Console) pages() map[string]view.DataFunc {
	return map[string]view.DataFunc{
		"GestionRoutes.tmpl":  c.routesPage,
		"GestionPlayers.tmpl": c.playersPage,
		"admin/Sprites.tmpl": func(ctx context.Context) (any, error) {
			return c.client.Sprites.All(ctx)
		},
	}
}

func (c *Console) routesPage(ctx context.Context) (any, error) {
	var page RoutesPage
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page.Routes, err = c.client.Routes.GetAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Roles, err = c.client.Roles.GetAll(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return page, nil
}

func (c *Console) playersPage(ctx context.Context) (any, error) {
	var page PlayersPage
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page.Players, err = c.client.Players.GetAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Roles, err = c.client.Roles.GetAll(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return page, nil
}
