// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of registry API credentials and auth headers
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Security Features
//
// The registry API key is a credential with real quota and billing
// attached, and it travels in the Authorization header of every
// request. The SecureHandler masks it (and anything that looks like
// it) in log output:
//   - HTTP headers (Authorization, X-Api-Key)
//   - Secret values detected by pattern matching (basic auth, tokens, keys)
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("request sent",
//	    "authorization", "Basic abc123",  // Will be masked
//	    "url", "https://api.company-information.service.gov.uk",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
