package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [company-number...]" {
			t.Errorf("expected use 'scan [company-number...]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has depth flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("depth")
		if flag == nil {
			t.Fatal("expected depth flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
		if flag.DefValue != "1" {
			t.Errorf("expected default '1', got %q", flag.DefValue)
		}
	})

	t.Run("has max-companies flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-companies")
		if flag == nil {
			t.Fatal("expected max-companies flag")
		}
		if flag.Shorthand != "M" {
			t.Errorf("expected shorthand 'M', got %q", flag.Shorthand)
		}
		if flag.DefValue != "100" {
			t.Errorf("expected default '100', got %q", flag.DefValue)
		}
	})

	t.Run("has include-inactive flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("include-inactive")
		if flag == nil {
			t.Fatal("expected include-inactive flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has list flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list")
		if flag == nil {
			t.Fatal("expected list flag")
		}
		if flag.Shorthand != "l" {
			t.Errorf("expected shorthand 'l', got %q", flag.Shorthand)
		}
	})

	t.Run("has profile flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("profile")
		if flag == nil {
			t.Fatal("expected profile flag")
		}
		if flag.Shorthand != "P" {
			t.Errorf("expected shorthand 'P', got %q", flag.Shorthand)
		}
	})

	t.Run("has combine flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("combine")
		if flag == nil {
			t.Fatal("expected combine flag")
		}
	})

	t.Run("has batch flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("batch")
		if flag == nil {
			t.Fatal("expected batch flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
		if flag.DefValue != "4" {
			t.Errorf("expected default '4', got %q", flag.DefValue)
		}
	})

	t.Run("has checkpoint flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("checkpoint")
		if flag == nil {
			t.Fatal("expected checkpoint flag")
		}
	})

	t.Run("has api-key flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("api-key")
		if flag == nil {
			t.Fatal("expected api-key flag")
		}
		if flag.Shorthand != "k" {
			t.Errorf("expected shorthand 'k', got %q", flag.Shorthand)
		}
	})

	t.Run("has rate flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("rate")
		if flag == nil {
			t.Fatal("expected rate flag")
		}
		if flag.DefValue != "600" {
			t.Errorf("expected default '600', got %q", flag.DefValue)
		}
	})

	t.Run("has rate-period flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("rate-period")
		if flag == nil {
			t.Fatal("expected rate-period flag")
		}
		if flag.DefValue != "5m0s" {
			t.Errorf("expected default '5m0s', got %q", flag.DefValue)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has retries flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("retries")
		if flag == nil {
			t.Fatal("expected retries flag")
		}
		if flag.DefValue != "3" {
			t.Errorf("expected default '3', got %q", flag.DefValue)
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
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

	t.Run("has csv flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("csv")
		if flag == nil {
			t.Fatal("expected csv flag")
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has no-save flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("no-save")
		if flag == nil {
			t.Fatal("expected no-save flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewScanCmd()
		if getVerboseFlag(cmd) {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		if err := root.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatalf("failed to set verbose flag: %v", err)
		}

		scanCmd, _, err := root.Find([]string{"scan"})
		if err != nil {
			t.Fatalf("failed to find scan command: %v", err)
		}

		if !getVerboseFlag(scanCmd) {
			t.Error("expected true when parent verbose flag set")
		}
	})
}

// TestReadSeedList tests seed list file parsing.
func TestReadSeedList(t *testing.T) {
	t.Parallel()

	t.Run("reads seeds skipping blanks and comments", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "seeds.txt")
		content := "# portfolio companies\n01234567\n\n  07654321  \n# trailing comment\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write seed list: %v", err)
		}

		seeds, err := readSeedList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seeds) != 2 {
			t.Fatalf("expected 2 seeds, got %d", len(seeds))
		}
		if seeds[0] != "01234567" {
			t.Errorf("expected first seed '01234567', got %q", seeds[0])
		}
		if seeds[1] != "07654321" {
			t.Errorf("expected second seed '07654321', got %q", seeds[1])
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := readSeedList(filepath.Join(t.TempDir(), "absent.txt"))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})
}

// TestBuildConfig tests config construction from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("uses defaults with positional seeds", func(t *testing.T) {
		cmd := NewScanCmd()
		t.Setenv("COMPANIES_HOUSE_API_KEY", "test-key-from-env")

		cfg, err := buildConfig(cmd, []string{"01234567"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxDepth != 1 {
			t.Errorf("expected max depth 1, got %d", cfg.MaxDepth)
		}
		if cfg.MaxCompanies != 100 {
			t.Errorf("expected max companies 100, got %d", cfg.MaxCompanies)
		}
		if !cfg.ActiveOnly {
			t.Error("expected active-only by default")
		}
		if !cfg.SaveToDB {
			t.Error("expected database saving by default")
		}
		if cfg.APIKey != "test-key-from-env" {
			t.Errorf("expected API key from environment, got %q", cfg.APIKey)
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "01234567" {
			t.Errorf("expected seeds [01234567], got %v", cfg.Seeds)
		}
	})

	t.Run("api-key flag overrides environment", func(t *testing.T) {
		cmd := NewScanCmd()
		t.Setenv("COMPANIES_HOUSE_API_KEY", "env-key")
		if err := cmd.Flags().Set("api-key", "flag-key"); err != nil {
			t.Fatalf("failed to set api-key flag: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"01234567"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.APIKey != "flag-key" {
			t.Errorf("expected flag to win, got %q", cfg.APIKey)
		}
	})

	t.Run("include-inactive disables active-only", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.Flags().Set("include-inactive", "true"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"01234567"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ActiveOnly {
			t.Error("expected ActiveOnly to be false")
		}
	})

	t.Run("no-save disables database saving", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.Flags().Set("no-save", "true"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"01234567"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
	})

	t.Run("appends seeds from list file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seeds.txt")
		if err := os.WriteFile(path, []byte("07654321\n09999999\n"), 0600); err != nil {
			t.Fatalf("failed to write seed list: %v", err)
		}

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("list", path); err != nil {
			t.Fatalf("failed to set list flag: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"01234567"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"01234567", "07654321", "09999999"}
		if len(cfg.Seeds) != len(want) {
			t.Fatalf("expected %d seeds, got %d", len(want), len(cfg.Seeds))
		}
		for i, seed := range want {
			if cfg.Seeds[i] != seed {
				t.Errorf("seed %d: expected %q, got %q", i, seed, cfg.Seeds[i])
			}
		}
	})

	t.Run("errors for explicit missing config file", func(t *testing.T) {
		cmd := NewScanCmd()
		missing := filepath.Join(t.TempDir(), "absent.yml")
		if err := cmd.Flags().Set("config", missing); err != nil {
			t.Fatalf("failed to set config flag: %v", err)
		}

		_, err := buildConfig(cmd, []string{"01234567"})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not-found error, got %v", err)
		}
	})

	t.Run("applies profile from config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".signalwatch")
		content := `profiles:
  portfolio:
    seeds:
      - "01234567"
      - "07654321"
    maxDepth: 2
    maxCompanies: 250
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("config", path); err != nil {
			t.Fatalf("failed to set config flag: %v", err)
		}
		if err := cmd.Flags().Set("profile", "portfolio"); err != nil {
			t.Fatalf("failed to set profile flag: %v", err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Seeds) != 2 {
			t.Fatalf("expected 2 seeds from profile, got %d", len(cfg.Seeds))
		}
		if cfg.MaxDepth != 2 {
			t.Errorf("expected profile max depth 2, got %d", cfg.MaxDepth)
		}
		if cfg.MaxCompanies != 250 {
			t.Errorf("expected profile max companies 250, got %d", cfg.MaxCompanies)
		}
	})

	t.Run("explicit flags win over profile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".signalwatch")
		content := `profiles:
  portfolio:
    seeds:
      - "01234567"
    maxDepth: 3
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("config", path); err != nil {
			t.Fatalf("failed to set config flag: %v", err)
		}
		if err := cmd.Flags().Set("profile", "portfolio"); err != nil {
			t.Fatalf("failed to set profile flag: %v", err)
		}
		if err := cmd.Flags().Set("depth", "5"); err != nil {
			t.Fatalf("failed to set depth flag: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"09999999"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxDepth != 5 {
			t.Errorf("expected flag depth 5 to win, got %d", cfg.MaxDepth)
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "09999999" {
			t.Errorf("expected positional seeds to win, got %v", cfg.Seeds)
		}
	})
}
