// Package config provides configuration structures and utilities for SignalWatch.
// It defines the main configuration options for scanning director networks,
// registry access settings, and report generation preferences.
package config
