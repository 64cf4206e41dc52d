package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/outpost/app"
	"github.com/xy-planning-network/outpost/http/client"
	"github.com/xy-planning-network/outpost/http/flash"
	"github.com/xy-planning-network/outpost/logger"
	"github.com/xy-planning-network/outpost/session"
)

// A cli holds what the commands share.
type cli struct {
	cfg     app.Config
	verbose bool

	// catalogOpts configure every CatalogServer the catalog commands construct.
	catalogOpts []app.CatalogOption

	client  *client.Client
	session *session.Store
}

func newCLI() *cli { return &cli{cfg: app.NewConfig()} }

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "outpost",
		Short:         "Run the outpost console and manage its route catalog",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&c.cfg.APIBaseURL, "api", c.cfg.APIBaseURL, "base URL of the catalog API")
	root.PersistentFlags().StringVar(&c.cfg.StateFile, "state", c.cfg.StateFile, "file the session state persists to")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log API calls")

	root.AddCommand(
		c.serveCmd(),
		c.catalogCmd(),
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.routesCmd(),
		c.playersCmd(),
		c.rolesCmd(),
		c.spritesCmd(),
	)

	return root
}

// connect constructs the API client commands calling the catalog API use.
func (c *cli) connect(cmd *cobra.Command, _ []string) error {
	errOut := cmd.ErrOrStderr()

	level := logger.LogLevelWarn
	if c.verbose {
		level = logger.LogLevelDebug
	}
	l := logger.New(logger.WithOutput(errOut), logger.WithLevel(level))

	var err error
	c.client, c.session, err = app.NewAPIClient(cmd.Context(), c.cfg, l, notifier(errOut))
	return err
}

// notifier prints notices to w, colored by their class.
func notifier(w io.Writer) client.Notifier {
	return func(_ context.Context, f flash.Flash) error {
		paint := color.New(color.FgCyan)
		switch f.Class {
		case flash.ClassError:
			paint = color.New(color.FgRed)
		case flash.ClassWarning:
			paint = color.New(color.FgYellow)
		case flash.ClassSuccess:
			paint = color.New(color.FgGreen)
		}

		_, err := paint.Fprintln(w, f.Msg)
		return err
	}
}

// table writes rows under header to w, aligned in columns.
func table(w io.Writer, header []any, rows [][]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	line := func(cells []any) {
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}

	line(header)
	for _, row := range rows {
		line(row)
	}

	return tw.Flush()
}
