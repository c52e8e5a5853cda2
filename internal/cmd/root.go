// Package cmd defines the beadworker command-line interface.
package cmd

import (
	"strings"

	"beadworker/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "beadworker",
	Short: "Autonomous bead execution loop",
	Long: `Beadworker drives an autonomous work loop against the beads task
tracker: it repeatedly selects the highest-priority ready task, delegates
decomposition or execution to an external agent CLI, and verifies the
outcome before moving on to the next task.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/beadworker/beadworker.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("beadworker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BEADWORKER")
	// Replace dots with underscores for nested keys in env vars
	// e.g., BEADWORKER_AGENT_MODEL for agent.model
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
