// Package cmd implements the sandboxd command-line surface: the HTTP
// server, a local direct-exec path for operator testing, the internal
// limited-child shim, and host diagnostics.
package cmd

import (
	"log"
	"os"

	"github.com/cretz/sandboxd/executor"
	"github.com/spf13/cobra"
)

// Execute runs the command using program args and exits on failure. The
// limit-exec shim is special-cased ahead of Cobra's normal parsing because
// it is invoked by this very binary re-exec'd as its own child (see
// executor.ShimSubcommand) and must not pay Cobra's flag-parsing overhead
// or inherit any global flags. ExecLimitedChild replaces the process image
// on success, so reaching the error check means the exec never happened.
func Execute() {
	if len(os.Args) > 1 && os.Args[1] == executor.ShimSubcommand {
		log.Fatalf("limit-exec failed: %v", ExecLimitedChild(os.Args[2:]))
	}
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandboxd",
		Short: "Multi-runtime code sandbox execution service",
	}
	cmd.AddCommand(serveCmd(), runCmd(), diagCmd())
	return cmd
}
