package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/signalwatch/signalwatch/internal/model"
)

// ScanDB provides SQLite-based storage for network snapshots.
// It manages connection pooling and provides methods for saving and
// querying scan history.
//
// Design decision: We use a single database file for all scans rather
// than one file per seed. This makes cross-scan queries (which scans
// touched company X) a single indexed lookup and simplifies backup.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, "signalwatch.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to refuse creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, so a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Scan records store complete network snapshots as JSON
	CREATE TABLE IF NOT EXISTS scan_networks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seeds TEXT NOT NULL,
		max_depth INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		network_json TEXT NOT NULL,
		total_companies INTEGER NOT NULL,
		total_directors INTEGER NOT NULL,
		total_connections INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_networks_seeds ON scan_networks(seeds);
	CREATE INDEX IF NOT EXISTS idx_networks_timestamp ON scan_networks(timestamp);

	-- Per-company index into scans, one row per company per scan
	CREATE TABLE IF NOT EXISTS network_companies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL REFERENCES scan_networks(id) ON DELETE CASCADE,
		company_number TEXT NOT NULL,
		company_name TEXT,
		status TEXT,
		depth INTEGER NOT NULL,
		UNIQUE(scan_id, company_number)
	);

	CREATE INDEX IF NOT EXISTS idx_companies_number ON network_companies(company_number);
	CREATE INDEX IF NOT EXISTS idx_companies_scan ON network_companies(scan_id);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveNetwork stores a finished snapshot and indexes its companies.
// Returns the scan record's database ID.
func (sdb *ScanDB) SaveNetwork(ctx context.Context, network *model.Network) (int64, error) {
	networkJSON, err := json.Marshal(network)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize network: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO scan_networks (seeds, max_depth, network_json, total_companies, total_directors, total_connections)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		strings.Join(network.SeedCompanies, ","),
		network.MaxDepth,
		string(networkJSON),
		network.Statistics.TotalCompanies,
		network.Statistics.TotalDirectors,
		network.Statistics.TotalConnections,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save network: %w", err)
	}

	scanID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan id: %w", err)
	}

	for _, company := range network.CompaniesInOrder() {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO network_companies (scan_id, company_number, company_name, status, depth)
		VALUES (?, ?, ?, ?, ?)
		`,
			scanID,
			company.CompanyNumber,
			company.CompanyName,
			company.CompanyStatus,
			company.Depth,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to index company %s: %w", company.CompanyNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}
	return scanID, nil
}

// GetNetworkByID retrieves a snapshot by its database ID.
// Returns nil without error when no such scan exists.
func (sdb *ScanDB) GetNetworkByID(ctx context.Context, id int64) (*model.Network, error) {
	var networkJSON string
	err := sdb.db.QueryRowContext(ctx,
		`SELECT network_json FROM scan_networks WHERE id = ?`, id,
	).Scan(&networkJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get network: %w", err)
	}

	var network model.Network
	if err := json.Unmarshal([]byte(networkJSON), &network); err != nil {
		return nil, fmt.Errorf("failed to parse network: %w", err)
	}
	return &network, nil
}

// GetLatestNetwork retrieves the most recent snapshot whose seed list
// contains the given company number. Returns nil without error when no
// scan matches.
func (sdb *ScanDB) GetLatestNetwork(ctx context.Context, seed string) (*model.Network, error) {
	var networkJSON string
	err := sdb.db.QueryRowContext(ctx, `
	SELECT network_json FROM scan_networks
	WHERE ',' || seeds || ',' LIKE '%,' || ? || ',%'
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, seed).Scan(&networkJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest network: %w", err)
	}

	var network model.Network
	if err := json.Unmarshal([]byte(networkJSON), &network); err != nil {
		return nil, fmt.Errorf("failed to parse network: %w", err)
	}
	return &network, nil
}

// ScanMetadata contains summary information about a stored scan.
// This is used for displaying scan history without loading the full
// snapshot.
type ScanMetadata struct {
	// ID is the unique identifier of the scan in the database.
	ID int64

	// Seeds are the company numbers the scan started from.
	Seeds []string

	// MaxDepth is the depth bound the scan ran with.
	MaxDepth int

	// Timestamp is when the scan was stored.
	Timestamp time.Time

	// TotalCompanies, TotalDirectors and TotalConnections summarize
	// the snapshot size.
	TotalCompanies   int
	TotalDirectors   int
	TotalConnections int
}

// ListScans returns metadata for all stored scans, newest first.
func (sdb *ScanDB) ListScans(ctx context.Context) ([]ScanMetadata, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT id, seeds, max_depth, timestamp, total_companies, total_directors, total_connections
	FROM scan_networks
	ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var seeds string
		var timestamp string

		if err := rows.Scan(
			&meta.ID,
			&seeds,
			&meta.MaxDepth,
			&timestamp,
			&meta.TotalCompanies,
			&meta.TotalDirectors,
			&meta.TotalConnections,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Seeds = splitSeeds(seeds)
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// ScansForCompany returns metadata for every scan whose snapshot
// contains the given company, newest first. The company need not be a
// seed; discovered companies match too.
func (sdb *ScanDB) ScansForCompany(ctx context.Context, companyNumber string) ([]ScanMetadata, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT s.id, s.seeds, s.max_depth, s.timestamp, s.total_companies, s.total_directors, s.total_connections
	FROM scan_networks s
	JOIN network_companies c ON c.scan_id = s.id
	WHERE c.company_number = ?
	ORDER BY s.timestamp DESC, s.id DESC
	`, companyNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans for company: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var seeds string
		var timestamp string

		if err := rows.Scan(
			&meta.ID,
			&seeds,
			&meta.MaxDepth,
			&timestamp,
			&meta.TotalCompanies,
			&meta.TotalDirectors,
			&meta.TotalConnections,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Seeds = splitSeeds(seeds)
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// splitSeeds undoes the comma join used for the seeds column.
func splitSeeds(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
