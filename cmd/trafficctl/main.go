// Package main provides the entry point for the trafficctl CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/utkuyucel/ibbtraffic/cmd/trafficctl/commands"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trafficctl",
		Short: "Istanbul traffic data toolbox",
		Long: `trafficctl talks to the IBB traffic data API and runs repository checks.

Commands:
  fetch     Fetch traffic data from an API endpoint
  verify    Run the repository quality checks`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewFetchCommand())
	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "trafficctl %s (built: %s)\n", Version, BuildTime)
		},
	}
}
