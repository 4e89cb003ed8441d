package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "smartlog",
	Short: "Fleet maintenance and delivery operations backend",
	Long: "SmartLOG serves the fleet maintenance and delivery dashboard API and ships\n" +
		"tools to mint development tokens, watch live operations and simulate a day.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.Version = version
}

// envDefault returns the value of key or fallback when unset.
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
