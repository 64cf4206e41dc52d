package main

import (
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/outpost/app"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			con, err := app.New(app.WithConfig(c.cfg), app.WithContext(cmd.Context()))
			if err != nil {
				return err
			}

			return con.Guide()
		},
	}
}

func (c *cli) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Run the route catalog API",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the catalog API, migrating its database first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cs, err := app.NewCatalogServer(append([]app.CatalogOption{app.WithCatalogContext(cmd.Context())}, c.catalogOpts...)...)
				if err != nil {
					return err
				}

				return cs.Guide()
			},
		},
		&cobra.Command{
			Use:   "grant-admin PSEUDO",
			Short: "Give a player the admin role",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cs, err := app.NewCatalogServer(c.catalogOpts...)
				if err != nil {
					return err
				}
				defer cs.Close()

				if err := cs.GrantAdmin(cmd.Context(), args[0]); err != nil {
					return err
				}

				cmd.Printf("%s is now an admin\n", args[0])
				return nil
			},
		},
	)

	return cmd
}
