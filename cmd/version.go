// file: cmd/version.go
// version: 1.0.0
// guid: 9f4b2d68-e1a7-4c35-b8d0-2a6e9c3f1b74

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "apicache %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}
