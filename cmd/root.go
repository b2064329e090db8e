package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvbridge/kvbridge/cmd/inspect"
	"github.com/kvbridge/kvbridge/cmd/seed"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvbridge",
		Short: "inspect storage-engine metadata and statistics",
		Long: fmt.Sprintf(`kvbridge (v%s)

A bridge between a handle-based storage engine and typed documents:
it translates engine return codes, parses the engine's configuration
grammar and drains statistics cursors into grouped snapshot documents.
This tool runs the bridge operations against an engine snapshot file.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvbridge",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvbridge v%s\n", Version)
		},
	}
)

func init() {
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(inspect.InspectCommands)
	RootCmd.AddCommand(seed.SeedCommand)
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
