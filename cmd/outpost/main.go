// Command outpost runs the outpost console and catalog server,
// and calls the catalog API from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/xy-planning-network/outpost/http/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, newCLI(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line args and returns the exit code.
func run(ctx context.Context, c *cli, args []string, in io.Reader, out, errOut io.Writer) int {
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		// The client has already told the operator.
		var apiErr *client.Error
		if !errors.As(err, &apiErr) {
			fmt.Fprintln(errOut, color.RedString("Error:"), err)
		}

		return 1
	}

	return 0
}
