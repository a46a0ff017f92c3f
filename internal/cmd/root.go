// Package cmd wires the trellis CLI: cobra commands over the loader,
// validation, and dispatch engines, configured through viper.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/t-hobson/trellis/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "trellis",
	Short: "Task forest validation and dispatch",
	Long: `Trellis manages a forest of markdown task documents (epics, stories,
tasks) stored under lifecycle bucket directories. It validates the forest's
structure and ranks ready work for dispatch, selecting conflict-free sets
for parallel execution.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/trellis/config.yaml)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "task directory (default is current directory)")
	rootCmd.PersistentFlags().Bool("json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("paths.task_dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TRELLIS")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TRELLIS_VALIDATE_STRICT for validate.strict
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
