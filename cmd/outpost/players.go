package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) playersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "players",
		Short:             "Manage players; admins only",
		PersistentPreRunE: c.connect,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every player and their roles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				prs, err := c.client.Players.GetAll(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([][]any, len(prs))
				for i, pr := range prs {
					rows[i] = []any{pr.ID, pr.Pseudo, strings.Join(pr.Roles, ",")}
				}

				return table(cmd.OutOrStdout(), []any{"ID", "PSEUDO", "ROLES"}, rows)
			},
		},
		&cobra.Command{
			Use:   "roles ID [ROLE...]",
			Short: "Replace the roles of a player",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}

				pr, err := c.client.Players.UpdateRoles(cmd.Context(), id, args[1:])
				if err != nil {
					return err
				}

				cmd.Printf("%s: %s\n", pr.Pseudo, strings.Join(pr.Roles, ","))
				return nil
			},
		},
	)

	return cmd
}

func (c *cli) rolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "roles",
		Short:   "List the roles players may hold; admins only",
		Args:    cobra.NoArgs,
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles, err := c.client.Roles.GetAll(cmd.Context())
			if err != nil {
				return err
			}

			for _, role := range roles {
				cmd.Println(role)
			}

			return nil
		},
	}
}
