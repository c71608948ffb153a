// Package main provides the entry point for the SignalWatch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SignalWatch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signalwatch",
		Short: "Director network discovery for the Companies House registry",
		Long: `SignalWatch maps director networks in the UK Companies House registry.

Starting from one or more seed companies, it follows shared directors to
discover connected companies up to a configurable depth, then reports on
shared directors and company clusters in the resulting network.

A Companies House API key is required. Set COMPANIES_HOUSE_API_KEY in the
environment or a .env file, or pass --api-key.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
