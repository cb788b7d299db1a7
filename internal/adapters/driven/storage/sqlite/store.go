package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/semdesk/semdesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/semdesk/semdesk/internal/core/domain"
	"github.com/semdesk/semdesk/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ContentStore = (*Store)(nil)

// Store is the SQLite-backed content store. It is the source of truth for
// ingested text and metadata; ids it assigns are shared with the vector
// index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the content database in dataDir.
// If dataDir is empty, defaults to ~/.semdesk.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".semdesk")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "db.sqlite")

	// WAL mode so ingest writes do not block concurrent search reads
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
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
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

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
		// Extract version number (e.g., "001_content.up.sql" -> 1)
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
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Insert persists a new item and returns its assigned id.
func (s *Store) Insert(ctx context.Context, item domain.IngestItem) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO content (title, text, source, url, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, item.Title, item.Text, item.Source, nullableString(item.URL), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("inserting content: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}

	return id, nil
}

// FetchByIDs returns the items whose id is in ids. Missing ids are
// silently absent.
func (s *Store) FetchByIDs(ctx context.Context, ids []int64) ([]domain.ContentItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, text, source, url, created_at
		FROM content WHERE id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}
	defer rows.Close()

	var items []domain.ContentItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content: %w", err)
	}

	return items, nil
}

// ListIDs returns every committed id, ascending.
func (s *Store) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM content ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	defer rows.Close()

	var ids []int64 //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}

	return ids, nil
}

// Count returns the number of committed items.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting content: %w", err)
	}
	return count, nil
}

// scanContentItem scans a content row from *sql.Rows.
func scanContentItem(rows *sql.Rows) (*domain.ContentItem, error) {
	var item domain.ContentItem
	var url sql.NullString

	if err := rows.Scan(&item.ID, &item.Title, &item.Text, &item.Source,
		&url, &item.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning content: %w", err)
	}

	if url.Valid {
		item.URL = &url.String
	}

	return &item, nil
}

// nullableString converts an optional string to a driver value.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
