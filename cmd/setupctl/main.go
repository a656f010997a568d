// Command setupctl talks to a buythatworks server: it validates and submits
// setup scripts, shows stored setups and deletes them with their PIN.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	endpoint   string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "setupctl",
		Short:         "Build and manage buythatworks setups",
		Long:          `Replays YAML setup scripts through the editor and submits them to a buythatworks server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Server URL (overrides Client.Endpoint)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log editor and client activity")

	rootCmd.AddCommand(
		validateCmd(),
		submitCmd(),
		showCmd(),
		deleteCmd(),
		catalogCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		Bad.Printf("setupctl: %v\n", err)
		os.Exit(1)
	}
}
