package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The registry access values mirror the Companies House published quota
// and its recommended client behavior.
const (
	// DefaultRateLimit is the number of registry requests allowed per
	// rate period. Companies House enforces 600 requests per 5 minutes
	// per API key; exceeding it returns 429 responses and can lead to
	// key suspension, so we enforce the same budget client-side.
	DefaultRateLimit = 600

	// DefaultRatePeriod is the sliding window the rate limit applies to.
	DefaultRatePeriod = 5 * time.Minute

	// DefaultMaxDepth of 1 discovers companies one hop from the seeds.
	// Each extra level multiplies API consumption roughly by the average
	// director fan-out, so the default stays conservative.
	DefaultMaxDepth = 1

	// DefaultMaxCompanies caps the total companies expanded in one scan.
	// This prevents runaway crawls through highly-connected registry
	// regions (nominee directors can sit on thousands of boards).
	DefaultMaxCompanies = 100

	// DefaultMaxRetries is the number of attempts for transient registry
	// failures before giving up on a request.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay between retry attempts.
	// The actual delay grows linearly with the attempt number.
	DefaultRetryDelay = 2 * time.Second

	// DefaultTimeout is the HTTP timeout for each registry request.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of concurrent seed scans when
	// processing multiple seeds. The rate gate is shared, so this
	// bounds memory and connection pressure rather than request rate.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "signalwatch"

	// DefaultUserAgent identifies SignalWatch in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows the
	// registry operator to identify scanner traffic in their logs.
	DefaultUserAgent = "SignalWatch/2.0 (+https://github.com/signalwatch/signalwatch)"

	// APIKeyEnvVar is the environment variable holding the registry API key.
	APIKeyEnvVar = "COMPANIES_HOUSE_API_KEY" //nolint:gosec // environment variable name, not a credential
)

// Config holds all configuration options for SignalWatch.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// APIKey is the registry API key. Required for all scans.
	// Loaded from the environment, a .env file, or the --api-key flag.
	APIKey string

	// BaseURL overrides the registry API endpoint. Empty means the
	// production Companies House API.
	BaseURL string

	// MaxDepth is the BFS depth bound. Depth 0 means only expand the
	// seed companies themselves.
	MaxDepth int

	// MaxCompanies caps the total number of companies expanded per scan.
	MaxCompanies int

	// ActiveOnly restricts the crawl to active companies and current
	// (non-resigned) officers. Enabled by default.
	ActiveOnly bool

	// RateLimit and RatePeriod define the client-side request budget.
	RateLimit  int
	RatePeriod time.Duration

	// MaxRetries is the number of attempts for transient registry failures.
	MaxRetries int

	// RetryDelay is the base delay between retry attempts.
	RetryDelay time.Duration

	// Timeout is the HTTP timeout for each registry request.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent scans when processing
	// multiple seeds independently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .signalwatch in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// Profiles holds named scan profiles loaded from the config file.
	Profiles *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport and CSVReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport and CSVReport.
	MarkdownReport bool

	// CSVReport enables CSV connection-list output.
	// Mutually exclusive with JSONReport and MarkdownReport.
	CSVReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Seeds is the list of company numbers to start the crawl from.
	// Must contain at least one company number.
	Seeds []string

	// CombineSeeds runs all seeds as one crawl sharing a visited set.
	// When false, each seed gets an independent scan via the batch runner.
	CombineSeeds bool

	// CheckpointFile enables batch checkpoint/resume at the given path.
	// Only used when CombineSeeds is false.
	CheckpointFile string

	// DBDir is the directory path for storing the SQLite database.
	// When set, scan results are saved to the database for historical
	// comparison. When empty, scan results are not persisted.
	// Defaults to XDG data directory (~/.local/share/signalwatch on Linux).
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with registry requests.
	UserAgent string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., rate limit, depth).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxDepth:     DefaultMaxDepth,
		MaxCompanies: DefaultMaxCompanies,
		ActiveOnly:   true,
		RateLimit:    DefaultRateLimit,
		RatePeriod:   DefaultRatePeriod,
		MaxRetries:   DefaultMaxRetries,
		RetryDelay:   DefaultRetryDelay,
		Timeout:      DefaultTimeout,
		BatchSize:    DefaultBatchSize,
		UserAgent:    DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for SignalWatch.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/signalwatch
// On macOS: ~/Library/Application Support/signalwatch
// On Windows: %LOCALAPPDATA%\signalwatch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for SignalWatch.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for SignalWatch.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scanning begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// The API key is the only pre-crawl fatal: without it every request fails
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	// We must have at least one seed company to scan
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	// Depth 0 is valid (expand seeds only); negative is not
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	// MaxCompanies must be positive; zero would mean no scanning
	if c.MaxCompanies <= 0 {
		return ErrInvalidMaxCompanies
	}

	if c.RateLimit <= 0 || c.RatePeriod <= 0 {
		return ErrInvalidRateLimit
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxRetries < 0 || c.RetryDelay < 0 {
		return ErrInvalidRetryPolicy
	}

	// BatchSize must be positive; zero would mean no scanning
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// Report formats are mutually exclusive
	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.CSVReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}
