// Package sqlite persists analyses in a SQLite database so past
// reports can be listed and re-rendered.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/carbon14-labs/carbon14-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.AnalysisStore = (*Store)(nil)

// Store is a SQLite-backed analysis store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.carbon14/data/carbon14.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".carbon14", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "carbon14.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores an analysis and its findings.
func (s *Store) Save(ctx context.Context, analysis *domain.Analysis) error {
	if analysis == nil || analysis.ID == "" {
		return domain.ErrInvalidInput
	}

	headersJSON, err := json.Marshal(analysis.Headers)
	if err != nil {
		return fmt.Errorf("marshalling headers: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analyses (id, url, author, title, headers, started_at, ended_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			author = excluded.author,
			title = excluded.title,
			headers = excluded.headers,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at
	`, analysis.ID, analysis.URL, analysis.Author, analysis.Title, string(headersJSON),
		analysis.StartedAt, analysis.EndedAt, analysis.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}

	// Findings are replaced wholesale; position preserves sort order.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM findings WHERE analysis_id = ?", analysis.ID); err != nil {
		return fmt.Errorf("clearing findings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (analysis_id, position, url, last_modified, internal)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for i, f := range analysis.Findings {
		if _, err := stmt.ExecContext(ctx,
			analysis.ID, i, f.URL, f.LastModified, f.Internal); err != nil {
			return fmt.Errorf("saving finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves an analysis by ID or unambiguous ID prefix.
func (s *Store) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, author, title, headers, started_at, ended_at, created_at
		FROM analyses WHERE id = ?
	`, fullID)

	analysis, err := scanAnalysis(row)
	if err != nil {
		return nil, err
	}

	findings, err := s.findings(ctx, fullID)
	if err != nil {
		return nil, err
	}
	analysis.Findings = findings
	analysis.FindingCount = len(findings)

	return analysis, nil
}

// List returns all stored analyses, newest first, without findings.
func (s *Store) List(ctx context.Context) ([]domain.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, author, title, headers, started_at, ended_at, created_at,
			(SELECT COUNT(*) FROM findings WHERE analysis_id = analyses.id)
		FROM analyses ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var analyses []domain.Analysis //nolint:prealloc // size unknown from query
	for rows.Next() {
		analysis, err := scanAnalysisRows(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}

	return analyses, nil
}

// Delete removes an analysis and its findings.
func (s *Store) Delete(ctx context.Context, id string) error {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", fullID)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	return nil
}

// resolveID expands an ID prefix to the single matching full ID.
func (s *Store) resolveID(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", domain.ErrInvalidInput
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM analyses WHERE id LIKE ? LIMIT 2", id+"%")
	if err != nil {
		return "", fmt.Errorf("resolving id: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var matches []string
	for rows.Next() {
		var match string
		if err := rows.Scan(&match); err != nil {
			return "", fmt.Errorf("scanning id: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating ids: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", domain.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return "", domain.ErrAmbiguousID
	}
}

// findings loads the findings of one analysis in stored order.
func (s *Store) findings(ctx context.Context, analysisID string) ([]domain.ImageFinding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, last_modified, internal
		FROM findings WHERE analysis_id = ?
		ORDER BY position
	`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var findings []domain.ImageFinding //nolint:prealloc // size unknown from query
	for rows.Next() {
		var f domain.ImageFinding
		if err := rows.Scan(&f.URL, &f.LastModified, &f.Internal); err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		f.LastModified = f.LastModified.UTC()
		findings = append(findings, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating findings: %w", err)
	}

	return findings, nil
}

// scanAnalysis scans a single analysis row.
func scanAnalysis(row *sql.Row) (*domain.Analysis, error) {
	var analysis domain.Analysis
	var headersJSON string

	if err := row.Scan(&analysis.ID, &analysis.URL, &analysis.Author, &analysis.Title,
		&headersJSON, &analysis.StartedAt, &analysis.EndedAt, &analysis.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning analysis: %w", err)
	}

	if err := unmarshalHeaders(headersJSON, &analysis); err != nil {
		return nil, err
	}
	normaliseTimes(&analysis)

	return &analysis, nil
}

// scanAnalysisRows scans an analysis list row, including the finding count.
func scanAnalysisRows(rows *sql.Rows) (*domain.Analysis, error) {
	var analysis domain.Analysis
	var headersJSON string

	if err := rows.Scan(&analysis.ID, &analysis.URL, &analysis.Author, &analysis.Title,
		&headersJSON, &analysis.StartedAt, &analysis.EndedAt, &analysis.CreatedAt,
		&analysis.FindingCount); err != nil {
		return nil, fmt.Errorf("scanning analysis: %w", err)
	}

	if err := unmarshalHeaders(headersJSON, &analysis); err != nil {
		return nil, err
	}
	normaliseTimes(&analysis)

	return &analysis, nil
}

func unmarshalHeaders(headersJSON string, analysis *domain.Analysis) error {
	if headersJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(headersJSON), &analysis.Headers); err != nil {
		return fmt.Errorf("unmarshalling headers: %w", err)
	}
	return nil
}

func normaliseTimes(analysis *domain.Analysis) {
	analysis.StartedAt = analysis.StartedAt.UTC()
	analysis.EndedAt = analysis.EndedAt.UTC()
	analysis.CreatedAt = analysis.CreatedAt.UTC()
}
