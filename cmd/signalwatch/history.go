package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/signalwatch/signalwatch/internal/config"
	"github.com/signalwatch/signalwatch/internal/database"
	"github.com/signalwatch/signalwatch/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command inspects scan results stored in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [company-number]",
		Short: "Inspect stored scan results",
		Long: `History lists and replays scan results saved in the local database.

Without arguments it lists every stored scan. With a company number it
lists the scans whose network contains that company, whether as a seed
or a discovered connection.

Examples:
  # List all stored scans
  signalwatch history

  # List scans that touched a company
  signalwatch history 01234567

  # Replay a stored scan's report by ID
  signalwatch history --show 5

  # Replay as JSON
  signalwatch history --show 5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("show", "s", 0,
		"Replay the report for a stored scan by ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output the replayed report in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the replayed report in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	// The database must already exist; history never creates one.
	opts := database.Options{CreateIfNotExists: false, EnableWAL: true}
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no scan history available: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	if showID != 0 {
		return showScan(cmd, db, showID)
	}

	var scans []database.ScanMetadata
	if len(args) == 1 {
		scans, err = db.ScansForCompany(ctx, args[0])
	} else {
		scans, err = db.ListScans(ctx)
	}
	if err != nil {
		return err
	}

	if len(scans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored scans found.")
		return nil
	}

	writeScanTable(cmd, scans)
	return nil
}

// writeScanTable prints scan metadata in a fixed-width table.
func writeScanTable(cmd *cobra.Command, scans []database.ScanMetadata) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-6s %-20s %-24s %-6s %-10s %-10s\n",
		"ID", "Date", "Seeds", "Depth", "Companies", "Directors")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, scan := range scans {
		seeds := strings.Join(scan.Seeds, ",")
		if len(seeds) > 24 {
			seeds = seeds[:21] + "..."
		}
		fmt.Fprintf(out, "%-6d %-20s %-24s %-6d %-10d %-10d\n",
			scan.ID,
			scan.Timestamp.Format("2006-01-02 15:04:05"),
			seeds,
			scan.MaxDepth,
			scan.TotalCompanies,
			scan.TotalDirectors,
		)
	}
}

// showScan replays the report for one stored scan.
func showScan(cmd *cobra.Command, db *database.ScanDB, id int64) error {
	network, err := db.GetNetworkByID(cmd.Context(), id)
	if err != nil {
		return err
	}
	if network == nil {
		return fmt.Errorf("no stored scan with ID %d (run 'signalwatch history' to list)", id)
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	var writer report.Writer
	switch {
	case jsonOut:
		writer = report.NewFullJSONWriter(os.Stdout, getVersion(), report.WithPrettyPrint())
	case markdownOut:
		writer = report.NewMarkdownWriter(os.Stdout)
	default:
		writer = report.NewSimpleWriter(os.Stdout)
	}

	_, err = writer.Write(network)
	return err
}
