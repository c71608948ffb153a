package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/signalwatch/signalwatch/internal/batch"
	"github.com/signalwatch/signalwatch/internal/config"
	"github.com/signalwatch/signalwatch/internal/crawler"
	"github.com/signalwatch/signalwatch/internal/database"
	"github.com/signalwatch/signalwatch/internal/log"
	"github.com/signalwatch/signalwatch/internal/model"
	"github.com/signalwatch/signalwatch/internal/ratelimit"
	"github.com/signalwatch/signalwatch/internal/registry"
	"github.com/signalwatch/signalwatch/internal/report"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [company-number...]",
		Short: "Discover the director network around seed companies",
		Long: `Scan crawls the Companies House registry outward from seed companies.

For each company it fetches the officer list, then searches each current
director's other appointments to discover connected companies, up to the
configured depth. The resulting network is analyzed for shared directors
and company clusters.

Registry requests are rate limited to the published quota (600 requests
per 5 minutes) and transient failures are retried automatically.

Examples:
  # Scan one hop out from a single company
  signalwatch scan 01234567

  # Scan two hops out, allowing up to 500 companies
  signalwatch scan --depth 2 --max-companies 500 01234567

  # Scan each company in a file as an independent network
  signalwatch scan --list portfolio.txt

  # Scan several seeds as a single combined network
  signalwatch scan --combine 01234567 07654321

  # Use a named profile from .signalwatch
  signalwatch scan --profile portfolio

  # Output JSON report to a file
  signalwatch scan --json -o report.json 01234567

Configuration file (.signalwatch) example:
  defaults:
    maxDepth: 1
    maxCompanies: 100
  profiles:
    portfolio:
      seeds:
        - "01234567"
        - "07654321"
      maxDepth: 2`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl depth from the seed companies")
	cmd.Flags().IntP("max-companies", "M", config.DefaultMaxCompanies,
		"Maximum number of companies to expand per scan")
	cmd.Flags().Bool("include-inactive", false,
		"Follow dissolved companies and resigned officers too")

	// Seed source flags
	cmd.Flags().StringP("list", "l", "",
		"File with one seed company number per line")
	cmd.Flags().StringP("profile", "P", "",
		"Named scan profile from the configuration file")
	cmd.Flags().Bool("combine", false,
		"Crawl all seeds as one network with a shared visited set")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans when seeds are scanned independently")
	cmd.Flags().String("checkpoint", "",
		"Checkpoint file for resuming interrupted batch scans")

	// Registry access flags
	cmd.Flags().StringP("api-key", "k", "",
		"Registry API key (overrides COMPANIES_HOUSE_API_KEY)")
	cmd.Flags().String("base-url", "",
		"Registry API base URL (default: production Companies House API)")
	cmd.Flags().Int("rate", config.DefaultRateLimit,
		"Registry requests allowed per rate period")
	cmd.Flags().Duration("rate-period", config.DefaultRatePeriod,
		"Sliding window the rate limit applies to")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each registry request")
	cmd.Flags().Int("retries", config.DefaultMaxRetries,
		"Retry attempts for transient registry failures")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Base delay between retry attempts")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .signalwatch in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --csv)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --csv)")
	cmd.Flags().Bool("csv", false,
		"Output CSV connection list (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not save scan results to the local database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential sanitization
	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.MaxCompanies, err = cmd.Flags().GetInt("max-companies")
	if err != nil {
		return nil, err
	}

	includeInactive, err := cmd.Flags().GetBool("include-inactive")
	if err != nil {
		return nil, err
	}
	cfg.ActiveOnly = !includeInactive

	cfg.CombineSeeds, err = cmd.Flags().GetBool("combine")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.CheckpointFile, err = cmd.Flags().GetString("checkpoint")
	if err != nil {
		return nil, err
	}

	cfg.BaseURL, err = cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, err
	}

	cfg.RateLimit, err = cmd.Flags().GetInt("rate")
	if err != nil {
		return nil, err
	}

	cfg.RatePeriod, err = cmd.Flags().GetDuration("rate-period")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxRetries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.RetryDelay, err = cmd.Flags().GetDuration("retry-delay")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load scan profiles from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Profiles = &config.File{
			Profiles: make(map[string]config.Profile),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	// Resolve the API key: flag wins over environment, .env backfills
	// the environment for local development.
	_ = godotenv.Load() //nolint:errcheck // A missing .env file is not an error
	cfg.APIKey = os.Getenv(config.APIKeyEnvVar)
	if flagKey, err := cmd.Flags().GetString("api-key"); err == nil && flagKey != "" {
		cfg.APIKey = flagKey
	}

	// Resolve seeds: positional args, then --list file, then --profile.
	cfg.Seeds = args

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		seeds, err := readSeedList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Seeds = append(cfg.Seeds, seeds...)
	}

	profileName, err := cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}
	if profileName != "" {
		applyProfile(cfg, profileName, cmd)
	}

	return cfg, nil
}

// applyProfile overlays a named profile onto the config.
// Explicitly-set flags keep priority over profile values.
func applyProfile(cfg *config.Config, name string, cmd *cobra.Command) {
	profile := cfg.Profiles.GetProfile(name)

	if len(profile.Seeds) > 0 && len(cfg.Seeds) == 0 {
		cfg.Seeds = profile.Seeds
	}
	if profile.MaxDepth != 0 && !cmd.Flags().Changed("depth") {
		cfg.MaxDepth = profile.MaxDepth
	}
	if profile.MaxCompanies != 0 && !cmd.Flags().Changed("max-companies") {
		cfg.MaxCompanies = profile.MaxCompanies
	}
	if profile.IncludeInactive && !cmd.Flags().Changed("include-inactive") {
		cfg.ActiveOnly = false
	}
}

// readSeedList reads seed company numbers from a file, one per line.
// Blank lines and lines starting with '#' are skipped.
func readSeedList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open seed list: %w", err)
	}
	defer f.Close()

	var seeds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seeds = append(seeds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed list: %w", err)
	}
	return seeds, nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"seeds", cfg.Seeds,
		"maxDepth", cfg.MaxDepth,
		"maxCompanies", cfg.MaxCompanies,
		"combine", cfg.CombineSeeds,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// The rate gate is shared by every scan in this run so the quota
	// holds across concurrent seeds.
	gate := ratelimit.New(cfg.RateLimit, cfg.RatePeriod)

	clientOpts := []registry.ClientOption{
		registry.WithMaxRetries(cfg.MaxRetries),
		registry.WithRetryDelay(cfg.RetryDelay),
		registry.WithUserAgent(cfg.UserAgent),
		registry.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		registry.WithLogger(logger),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, registry.WithBaseURL(cfg.BaseURL))
	}
	client := registry.NewClient(cfg.APIKey, gate, clientOpts...)

	newScanner := func() *crawler.Scanner {
		return crawler.NewScanner(client,
			crawler.WithMaxDepth(cfg.MaxDepth),
			crawler.WithMaxCompanies(cfg.MaxCompanies),
			crawler.WithActiveOnly(cfg.ActiveOnly),
			crawler.WithLogger(logger),
		)
	}

	if cfg.CombineSeeds || len(cfg.Seeds) == 1 {
		return runSingleScan(ctx, cfg, newScanner(), db, logger)
	}
	return runBatchScan(ctx, cfg, newScanner, db, logger)
}

// runSingleScan crawls all seeds as one network.
func runSingleScan(ctx context.Context, cfg *config.Config, scanner *crawler.Scanner, db *database.ScanDB, logger *slog.Logger) error {
	fmt.Printf("Scanning %s...\n", strings.Join(cfg.Seeds, ", "))
	startTime := time.Now()

	network, err := scanner.Scan(ctx, cfg.Seeds)
	if err != nil {
		// A cancelled crawl still produced a partial snapshot worth reporting.
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scan failed: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Scan interrupted; reporting partial results.")
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

	if err := outputReport(cfg, network); err != nil {
		logger.Error("report failed", "error", err)
	}

	return saveNetwork(ctx, db, network, logger)
}

// runBatchScan scans each seed as an independent network.
func runBatchScan(ctx context.Context, cfg *config.Config, newScanner func() *crawler.Scanner, db *database.ScanDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d seeds (concurrency: %d)...\n\n",
		len(cfg.Seeds), cfg.BatchSize)
	startTime := time.Now()

	batchOpts := []batch.Option{
		batch.WithConcurrency(cfg.BatchSize),
		batch.WithLogger(logger),
	}

	if cfg.CheckpointFile != "" {
		cp, err := batch.LoadCheckpoint(cfg.CheckpointFile)
		if err != nil {
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		if cp.CompletedCount() > 0 {
			fmt.Printf("Resuming: %d seeds already completed.\n\n", cp.CompletedCount())
		}
		batchOpts = append(batchOpts, batch.WithCheckpoint(cp))
	}

	processor := batch.NewProcessor(
		func(ctx context.Context, seed string) (*model.Network, error) {
			return newScanner().Scan(ctx, []string{seed})
		},
		batchOpts...,
	)

	results, err := processor.Run(ctx, cfg.Seeds)

	for i, result := range results {
		if result.Network == nil {
			continue
		}
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", result.Seed, result.Err)
			continue
		}

		fmt.Printf("[%d/%d] Scan completed: %s\n", i+1, len(results), result.Seed)

		if reportErr := outputReport(cfg, result.Network); reportErr != nil {
			logger.Error("report failed", "seed", result.Seed, "error", reportErr)
		}
		if saveErr := saveNetwork(ctx, db, result.Network, logger); saveErr != nil {
			logger.Error("failed to save network", "seed", result.Seed, "error", saveErr)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))
	return err
}

// outputReport outputs the network report in the requested format.
func outputReport(cfg *config.Config, network *model.Network) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain personal data (director names, partial
		// dates of birth), so restrict the file to the owner.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.CSVReport:
		writer = report.NewCSVWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(network)
	return err
}

// saveNetwork saves the snapshot to the database if enabled.
// If db is nil, this function is a no-op.
func saveNetwork(ctx context.Context, db *database.ScanDB, network *model.Network, logger *slog.Logger) error {
	if db == nil || network == nil {
		return nil
	}

	scanID, err := db.SaveNetwork(ctx, network)
	if err != nil {
		return fmt.Errorf("failed to save network: %w", err)
	}

	logger.Info("network saved to database",
		"scanID", scanID,
		"seeds", network.SeedCompanies,
	)
	return nil
}
