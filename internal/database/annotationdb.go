package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/scanmark/internal/annotation"
)

// FileName is the name of the database file inside the database directory.
const FileName = "scanmark.db"

var activeKey = annotation.ScannedActive.Key()

// AnnotationDB stores snapshots of the annotation registry in SQLite.
type AnnotationDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AnnotationDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AnnotationDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AnnotationDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

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

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AnnotationDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AnnotationDB) Close() error {
	return adb.db.Close()
}

// Path returns the path to the database file.
func (adb *AnnotationDB) Path() string {
	return adb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (adb *AnnotationDB) createTables() error {
	schema := `
	-- One row per canonical URL. position preserves registry insertion order.
	CREATE TABLE IF NOT EXISTS annotations (
		url TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		status TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		first_seen TEXT NOT NULL,
		-- Unix nanoseconds, compared by the upsert guard.
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_annotations_position ON annotations(position);
	CREATE INDEX IF NOT EXISTS idx_annotations_status ON annotations(status);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveEntries writes entries to the database in a single transaction.
// Existing URLs are updated in place and keep their position; new URLs are
// appended after the last stored one, in the order given.
//
// A stored row is only replaced by an entry with a later UpdatedAt, so a
// snapshot loaded before another process saved cannot roll that save back.
// A stored active status is never replaced.
func (adb *AnnotationDB) SaveEntries(ctx context.Context, entries []annotation.Entry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
	INSERT INTO annotations (url, position, status, tags, first_seen, updated_at)
	VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM annotations), ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status = CASE WHEN annotations.status = ? THEN annotations.status ELSE excluded.status END,
		tags = excluded.tags,
		updated_at = excluded.updated_at
	WHERE excluded.updated_at > annotations.updated_at
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		tagsJSON, err := json.Marshal(nonNilTags(entry.Record.Tags))
		if err != nil {
			return fmt.Errorf("failed to serialize tags for %s: %w", entry.URL, err)
		}

		if _, err := stmt.ExecContext(ctx,
			entry.URL,
			entry.Record.Status.Key(),
			string(tagsJSON),
			formatTimestamp(entry.Record.FirstSeen),
			unixNano(entry.Record.UpdatedAt),
			activeKey,
		); err != nil {
			return fmt.Errorf("failed to save annotation for %s: %w", entry.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadEntries returns every stored entry in insertion order.
func (adb *AnnotationDB) LoadEntries(ctx context.Context) ([]annotation.Entry, error) {
	query := `
	SELECT url, status, tags, first_seen, updated_at
	FROM annotations
	ORDER BY position ASC
	`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	var entries []annotation.Entry
	for rows.Next() {
		var (
			entry     annotation.Entry
			statusKey string
			tagsJSON  string
			firstSeen string
			updatedAt int64
		)
		if err := rows.Scan(&entry.URL, &statusKey, &tagsJSON, &firstSeen, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan annotation row: %w", err)
		}

		status, err := annotation.ParseStatus(statusKey)
		if err != nil {
			return nil, fmt.Errorf("invalid status for %s: %w", entry.URL, err)
		}
		entry.Record.Status = status

		if err := json.Unmarshal([]byte(tagsJSON), &entry.Record.Tags); err != nil {
			return nil, fmt.Errorf("failed to deserialize tags for %s: %w", entry.URL, err)
		}
		entry.Record.FirstSeen = parseTimestamp(firstSeen)
		entry.Record.UpdatedAt = fromUnixNano(updatedAt)

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}
	return entries, nil
}

// CountByStatus returns how many stored URLs have each status.
func (adb *AnnotationDB) CountByStatus(ctx context.Context) (map[annotation.Status]int, error) {
	rows, err := adb.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM annotations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count annotations: %w", err)
	}
	defer rows.Close()

	counts := make(map[annotation.Status]int)
	for rows.Next() {
		var (
			statusKey string
			n         int
		)
		if err := rows.Scan(&statusKey, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		status, err := annotation.ParseStatus(statusKey)
		if err != nil {
			return nil, err
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}
	return counts, nil
}

// LoadInto restores the stored snapshot into reg.
func (adb *AnnotationDB) LoadInto(ctx context.Context, reg *annotation.Registry) error {
	entries, err := adb.LoadEntries(ctx)
	if err != nil {
		return err
	}
	reg.Restore(entries)
	return nil
}

// SaveFrom writes the current contents of reg.
func (adb *AnnotationDB) SaveFrom(ctx context.Context, reg *annotation.Registry) error {
	return adb.SaveEntries(ctx, reg.ListAll())
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// unixNano stores the zero time as 0.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // written by formatTimestamp
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
