// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/apicache/internal/config"
	"github.com/jdfalk/apicache/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apicache",
	Short: "Caching client for the model marketplace API",
	Long: `apicache fetches marketplace resources (models, datasets, billing usage)
through an in-memory response cache with per-request freshness windows.

Run "apicache serve" to share one cache between local consumers over HTTP,
or "apicache fetch <path>" for a one-off cached request.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.apicache.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "marketplace API base URL (default http://localhost:8000)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Duration("request-timeout", 0, "upstream request timeout (e.g. 30s)")

	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("request_timeout", rootCmd.PersistentFlags().Lookup("request-timeout"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".apicache")
	}

	if err := viper.ReadInConfig(); err == nil {
		logging.Infof("Using config file: %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		logging.Warnf("Could not read config file %s: %v", cfgFile, err)
	}

	config.InitConfig()
	logging.SetLevel(logging.ParseLevel(config.AppConfig.LogLevel))
}
