// file: cmd/config.go
// version: 1.0.0
// guid: e1f7a3c5-9d24-4b86-a0e2-6c8b4d1f7a39

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdfalk/apicache/internal/config"
	"github.com/jdfalk/apicache/internal/server/middleware"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := config.Dump(config.AppConfig)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

var configHashTokenCmd = &cobra.Command{
	Use:   "hash-token <token>",
	Short: "Print a bcrypt hash for server.admin_token_hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := middleware.HashToken(args[0])
		if err != nil {
			return fmt.Errorf("failed to hash token: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configHashTokenCmd)
}
