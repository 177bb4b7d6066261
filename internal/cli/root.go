package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the movegraph CLI with ctx, usually a signal context.
//
// Logging goes to stderr at info level, or debug with --verbose (-v). The
// logger is attached to the command context and retrieved with
// loggerFromContext.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(ctx, cli.New(os.Stderr, cli.LogInfo)); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context, c *CLI) error {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	return root.ExecuteContext(ctx)
}
