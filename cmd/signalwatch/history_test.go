package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/signalwatch/signalwatch/internal/database"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [company-number]" {
			t.Errorf("expected use 'history [company-number]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has show flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("show")
		if flag == nil {
			t.Fatal("expected show flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has markdown flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("markdown")
		if flag == nil {
			t.Fatal("expected markdown flag")
		}
		if flag.Shorthand != "m" {
			t.Errorf("expected shorthand 'm', got %q", flag.Shorthand)
		}
	})
}

// TestWriteScanTable tests scan metadata formatting.
func TestWriteScanTable(t *testing.T) {
	t.Parallel()

	timestamp := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	scans := []database.ScanMetadata{
		{
			ID:             1,
			Seeds:          []string{"01234567"},
			MaxDepth:       1,
			Timestamp:      timestamp,
			TotalCompanies: 12,
			TotalDirectors: 30,
		},
		{
			ID:             2,
			Seeds:          []string{"01234567", "07654321", "09999999", "08888888"},
			MaxDepth:       2,
			Timestamp:      timestamp,
			TotalCompanies: 48,
			TotalDirectors: 120,
		},
	}

	var buf bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&buf)

	writeScanTable(cmd, scans)
	output := buf.String()

	if !strings.Contains(output, "ID") || !strings.Contains(output, "Seeds") {
		t.Errorf("expected table header, got %q", output)
	}
	if !strings.Contains(output, "01234567") {
		t.Errorf("expected seed in output, got %q", output)
	}
	if !strings.Contains(output, "2025-03-15 10:30:00") {
		t.Errorf("expected formatted timestamp, got %q", output)
	}
	// Long seed lists are truncated with an ellipsis marker.
	if !strings.Contains(output, "...") {
		t.Errorf("expected truncated seed list, got %q", output)
	}
}
