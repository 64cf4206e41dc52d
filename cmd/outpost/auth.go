package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/outpost"
)

func (c *cli) registerCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:     "register PSEUDO",
		Short:   "Create a player",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := credentials(cmd, args[0], password)
			if err != nil {
				return err
			}

			if err := c.client.Auth.Register(cmd.Context(), creds); err != nil {
				return err
			}

			cmd.Printf("registered %s\n", creds.Pseudo)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password; read from stdin when omitted")

	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:     "login PSEUDO",
		Short:   "Log in, keeping the session for later commands",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := credentials(cmd, args[0], password)
			if err != nil {
				return err
			}

			lr, err := c.client.Auth.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}

			cmd.Printf("logged in as %s\n", lr.Pseudo)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password; read from stdin when omitted")

	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Forget the session",
		Args:    cobra.NoArgs,
		PreRunE: c.connect,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.client.Auth.Logout(cmd.Context())
		},
	}
}

// credentials reads the password from the command's input when it is not given.
func credentials(cmd *cobra.Command, pseudo, password string) (outpost.Credentials, error) {
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		sc := bufio.NewScanner(cmd.InOrStdin())
		if sc.Scan() {
			password = strings.TrimRight(sc.Text(), "\r")
		}

		if err := sc.Err(); err != nil {
			return outpost.Credentials{}, fmt.Errorf("reading password: %w", err)
		}
	}

	creds := outpost.Credentials{Pseudo: strings.TrimSpace(pseudo), Password: password}
	return creds, creds.Valid()
}
