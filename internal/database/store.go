package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// DBFileName is the name of the database file inside the data directory.
const DBFileName = "webcrawler.db"

// RunStore keeps the history of finished crawl runs in SQLite.
//
// Design decision: The store is write-once history. Runs are saved after
// they finish and are only read back by the history and compare commands.
// A crawl never loads a frontier or visited set from here, so every run
// starts from scratch.
type RunStore struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunStore behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging, so history queries do not block
	// a concurrent batch that is saving runs.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the run store in dbDir.
// With CreateIfNotExists false, a missing database is an error.
func Open(dbDir string, opts Options) (*RunStore, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &RunStore{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// ErrNotFound is returned by Open when the database does not exist and
// creation is disabled.
var ErrNotFound = errors.New("database not found")

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RunStore) Path() string {
	return s.dbPath
}

func (s *RunStore) createTables() error {
	schema := `
	-- One row per finished crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		origin TEXT NOT NULL,
		keyword TEXT NOT NULL,
		depth_limit INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		pages_visited INTEGER NOT NULL,
		match_count INTEGER NOT NULL,
		failure_count INTEGER NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_origin ON runs(origin);

	-- Matches in discovery order
	CREATE TABLE IF NOT EXISTS matches (
		run_pk INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		url TEXT NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (run_pk, seq)
	);

	-- Successfully fetched pages with their content fingerprint
	CREATE TABLE IF NOT EXISTS pages (
		run_pk INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		depth INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		links INTEGER NOT NULL,
		matches INTEGER NOT NULL,
		PRIMARY KEY (run_pk, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a finished run with its matches and pages in one
// transaction and returns the run's database ID.
func (s *RunStore) SaveRun(ctx context.Context, report *model.CrawlReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (run_id, origin, keyword, depth_limit, started_at, finished_at,
		pages_visited, match_count, failure_count, cancelled, error, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Origin,
		report.Keyword,
		report.DepthLimit,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.FinishedAt.UTC().Format(time.RFC3339Nano),
		report.PagesVisited,
		len(report.Matches),
		len(report.Failures),
		report.Cancelled,
		report.Error,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runPK, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for i, m := range report.Matches {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO matches (run_pk, seq, url, text) VALUES (?, ?, ?, ?)`,
			runPK, i, m.URL, m.Text); err != nil {
			return 0, fmt.Errorf("failed to insert match: %w", err)
		}
	}

	for _, p := range report.Pages {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO pages (run_pk, url, depth, fingerprint, links, matches)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_pk, url) DO NOTHING`,
			runPK, p.URL, p.Depth, p.Fingerprint, p.Links, p.Matches); err != nil {
			return 0, fmt.Errorf("failed to insert page: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runPK, nil
}

// GetRunByID returns the stored report with database ID id,
// or nil if there is none.
func (s *RunStore) GetRunByID(ctx context.Context, id int64) (*model.CrawlReport, error) {
	var reportJSON string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return decodeReport(reportJSON)
}

// LatestRuns returns up to limit runs of origin, newest first, with their
// database IDs.
func (s *RunStore) LatestRuns(ctx context.Context, origin string, limit int) ([]StoredRun, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, report_json FROM runs
	WHERE origin = ?
	ORDER BY id DESC
	LIMIT ?`, origin, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []StoredRun
	for rows.Next() {
		var id int64
		var reportJSON string
		if err := rows.Scan(&id, &reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		report, err := decodeReport(reportJSON)
		if err != nil {
			continue // Skip malformed reports
		}
		runs = append(runs, StoredRun{ID: id, Report: report})
	}
	return runs, rows.Err()
}

// StoredRun is a report together with its database ID.
type StoredRun struct {
	ID     int64
	Report *model.CrawlReport
}

// ListOrigins returns every origin with at least one stored run.
func (s *RunStore) ListOrigins(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT origin FROM runs ORDER BY origin`)
	if err != nil {
		return nil, fmt.Errorf("failed to list origins: %w", err)
	}
	defer rows.Close()

	var origins []string
	for rows.Next() {
		var origin string
		if err := rows.Scan(&origin); err != nil {
			return nil, fmt.Errorf("failed to scan origin: %w", err)
		}
		origins = append(origins, origin)
	}
	return origins, rows.Err()
}

// RunMetadata summarizes a stored run without loading the full report.
type RunMetadata struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	Origin       string    `json:"origin"`
	Keyword      string    `json:"keyword"`
	DepthLimit   int       `json:"depth_limit"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	PagesVisited int       `json:"pages_visited"`
	MatchCount   int       `json:"match_count"`
	FailureCount int       `json:"failure_count"`
	Cancelled    bool      `json:"cancelled"`
}

// History lists stored runs, newest first. An empty origin lists all runs.
func (s *RunStore) History(ctx context.Context, origin string) ([]RunMetadata, error) {
	query := `
	SELECT id, run_id, origin, keyword, depth_limit, started_at, finished_at,
		pages_visited, match_count, failure_count, cancelled
	FROM runs`
	args := []any{}
	if origin != "" {
		query += ` WHERE origin = ?`
		args = append(args, origin)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var started, finished string
		if err := rows.Scan(&meta.ID, &meta.RunID, &meta.Origin, &meta.Keyword, &meta.DepthLimit,
			&started, &finished, &meta.PagesVisited, &meta.MatchCount, &meta.FailureCount,
			&meta.Cancelled); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.StartedAt = parseTimestamp(started)
		meta.FinishedAt = parseTimestamp(finished)
		results = append(results, meta)
	}
	return results, rows.Err()
}

// PageVersion is one stored observation of a page.
type PageVersion struct {
	RunPK       int64     `json:"run"`
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	Depth       int       `json:"depth"`
	Fingerprint string    `json:"fingerprint"`
}

// PageHistory returns every stored observation of pageURL, newest first.
func (s *RunStore) PageHistory(ctx context.Context, pageURL string) ([]PageVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT r.id, r.run_id, r.started_at, p.depth, p.fingerprint
	FROM pages p
	JOIN runs r ON r.id = p.run_pk
	WHERE p.url = ?
	ORDER BY r.id DESC`, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get page history: %w", err)
	}
	defer rows.Close()

	var versions []PageVersion
	for rows.Next() {
		var v PageVersion
		var started string
		if err := rows.Scan(&v.RunPK, &v.RunID, &started, &v.Depth, &v.Fingerprint); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		v.StartedAt = parseTimestamp(started)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func decodeReport(reportJSON string) (*model.CrawlReport, error) {
	var report model.CrawlReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// timestampFormats are the formats a stored timestamp may have.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite CURRENT_TIMESTAMP
}

// parseTimestamp parses a stored timestamp, or returns the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
