package main

import (
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "corte",
	Short:         "Shift controller for the meat processing line.",
	Long:          `corte tracks production shifts, drives the line lamps from hold buttons and serves the operator panel API.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(shiftsCmd)
	rootCmd.AddCommand(versionCmd)

	shiftsCmd.Flags().Bool("no-color", false, "Disable colored quality labels")
}
