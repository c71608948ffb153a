package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/signalwatch.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".signalwatch"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new SignalWatch configuration file",
		Long: `Initialize creates a new .signalwatch configuration file in the current directory.

The generated file includes:
- Default settings for crawl depth and company limits
- Commented examples for named scan profiles
- Documentation for all available options

Examples:
  # Create .signalwatch in current directory
  signalwatch init

  # Create config file at a specific path
  signalwatch init -o myconfig.yaml

  # Force overwrite existing file
  signalwatch init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/signalwatch.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Created configuration file: %s\n", outputPath)
	fmt.Println("\nEdit this file to configure scan profiles such as:")
	fmt.Println("  - Seed company lists for recurring investigations")
	fmt.Println("  - Depth and company limits per profile")
	fmt.Println("  - Whether to include dissolved companies")

	return nil
}
