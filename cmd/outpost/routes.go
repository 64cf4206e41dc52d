package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/outpost"
)

func (c *cli) routesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "routes",
		Short:             "Manage the routes of the catalog",
		PersistentPreRunE: c.connect,
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List the routes offered to you, or every route with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			get := c.client.Routes.GetAvailable
			if all {
				get = c.client.Routes.GetAll
			}

			rds, err := get(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]any, len(rds))
			for i, rd := range rds {
				id := "-"
				if rd.ID != nil {
					id = strconv.FormatUint(uint64(*rd.ID), 10)
				}
				rows[i] = []any{id, rd.Path(), rd.ComponentPath, rd.NeedAuth, rd.Role()}
			}

			return table(cmd.OutOrStdout(), []any{"ID", "PATH", "COMPONENT", "AUTH", "ROLE"}, rows)
		},
	}
	list.Flags().BoolVarP(&all, "all", "a", false, "list every route; admins only")

	var rd outpost.RouteDescriptor
	var role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role = strings.TrimSpace(role); role != "" {
				rd.RoleName = &role
			}

			created, err := c.client.Routes.Create(cmd.Context(), rd)
			if err != nil {
				return err
			}

			cmd.Printf("created %s (%d)\n", created.Path(), *created.ID)
			return nil
		},
	}
	create.Flags().StringVar(&rd.Name, "name", "", "route name, e.g. shop")
	create.Flags().StringVar(&rd.ComponentPath, "component", "", "view rendering the route, e.g. Shop.tmpl")
	create.Flags().BoolVar(&rd.NeedAuth, "auth", false, "require a logged in player")
	create.Flags().StringVar(&role, "role", "", "role required, e.g. ADMIN")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("component")

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := c.client.Routes.Remove(cmd.Context(), id); err != nil {
				return err
			}

			cmd.Printf("deleted route %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id %q", outpost.ErrNotValid, s)
	}

	return uint(id), nil
}
