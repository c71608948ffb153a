package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrMissingAPIKey is returned when no registry API key is available.
	// The key is read from the COMPANIES_HOUSE_API_KEY environment
	// variable, a .env file, or the --api-key flag.
	ErrMissingAPIKey = errors.New("missing API key: set COMPANIES_HOUSE_API_KEY or use --api-key")

	// ErrNoSeed is returned when no seed company number is specified.
	// This error occurs when neither --list nor a positional argument
	// provides a seed.
	ErrNoSeed = errors.New("no seed specified: provide a company number or use --list")

	// ErrInvalidMaxDepth is returned when the depth bound is negative.
	// Use 0 to expand only the seed companies themselves.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidMaxCompanies is returned when the company cap is not positive.
	// A cap of zero would mean no companies are ever expanded.
	ErrInvalidMaxCompanies = errors.New("invalid max companies: must be positive")

	// ErrInvalidRateLimit is returned when the request budget or its
	// period is not positive.
	ErrInvalidRateLimit = errors.New("invalid rate limit: requests and period must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetryPolicy is returned when retries or the retry delay
	// are negative. Use 0 retries to fail on the first transient error.
	ErrInvalidRetryPolicy = errors.New("invalid retry policy: retries and delay must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent scans, effectively
	// stopping the scanning process.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown and --csv is specified. Only one output format
	// can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: only one of --json, --markdown, --csv may be used")
)
