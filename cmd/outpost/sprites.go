package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/outpost/http/client"
)

func (c *cli) spritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "sprites",
		Short:             "Manage sprites on the API",
		PersistentPreRunE: c.connect,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every sprite animation",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sis, err := c.client.Sprites.All(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([][]any, len(sis))
				for i, si := range sis {
					rows[i] = []any{si.AnimationID, si.Name, fmt.Sprintf("%dx%d", si.Width, si.Height), si.Frames, si.FrameRate, si.ImageURL}
				}

				return table(cmd.OutOrStdout(), []any{"ANIMATION", "NAME", "SIZE", "FRAMES", "FPS", "IMAGE"}, rows)
			},
		},
		&cobra.Command{
			Use:   "upload ARCHIVE",
			Short: "Upload the zip archive of a sprite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				si, err := c.client.Sprites.Upload(cmd.Context(), filepath.Base(args[0]), f)
				if err != nil {
					return err
				}

				cmd.Printf("uploaded %s\n", si.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename OLD NEW",
			Short: "Rename a sprite",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				si, err := c.client.Sprites.Rename(cmd.Context(), client.Rename{OldName: args[0], NewName: args[1]})
				if err != nil {
					return err
				}

				cmd.Printf("renamed %s to %s\n", args[0], si.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a sprite and its animations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.client.Sprites.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}

				cmd.Printf("deleted %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}
