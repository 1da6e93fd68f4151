package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Store persists export records in SQLite
type Store struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewStore opens (or creates) a SQLite export database
func NewStore(dbPath string) (*Store, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertRecords inserts records, replacing any previous rows for the same
// (source, chunk id). The whole batch runs in one transaction.
func (s *Store) UpsertRecords(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO chunks (source, chunk_id, context, content, tags, created_at, version, priority, dependencies, chunk_type, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, chunk_id) DO UPDATE SET
			context = excluded.context,
			content = excluded.content,
			tags = excluded.tags,
			created_at = excluded.created_at,
			version = excluded.version,
			priority = excluded.priority,
			dependencies = excluded.dependencies,
			chunk_type = excluded.chunk_type,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	for _, record := range records {
		tags, err := json.Marshal(record.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", record.ID, err)
		}

		deps := []byte("[]")
		if record.Dependencies != nil {
			deps, err = json.Marshal(record.Dependencies)
			if err != nil {
				return fmt.Errorf("marshal dependencies for %s: %w", record.ID, err)
			}
		}

		_, err = tx.ExecContext(ctx, query,
			record.Source, record.ID, record.Context, record.Content,
			string(tags), record.CreatedAt, record.Version, record.Priority,
			string(deps), record.Type, now)
		if err != nil {
			return fmt.Errorf("upsert chunk %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetRecord retrieves one record by source and chunk id
func (s *Store) GetRecord(ctx context.Context, source, chunkID string) (*Record, error) {
	query := `
		SELECT chunk_id, context, content, tags, created_at, version, priority, dependencies, chunk_type
		FROM chunks WHERE source = ? AND chunk_id = ?
	`

	var (
		record   Record
		tags     string
		deps     string
		created  sql.NullString
		version  sql.NullInt64
		priority sql.NullString
		ctype    sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, source, chunkID).Scan(
		&record.ID, &record.Context, &record.Content, &tags,
		&created, &version, &priority, &deps, &ctype)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chunk %s in %s: not found", chunkID, source)
	}
	if err != nil {
		return nil, fmt.Errorf("query chunk %s: %w", chunkID, err)
	}

	record.Source = source
	record.CreatedAt = created.String
	record.Version = int(version.Int64)
	record.Priority = priority.String
	record.Type = ctype.String

	if err := json.Unmarshal([]byte(tags), &record.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags for %s: %w", chunkID, err)
	}
	if err := json.Unmarshal([]byte(deps), &record.Dependencies); err != nil {
		return nil, fmt.Errorf("unmarshal dependencies for %s: %w", chunkID, err)
	}

	return &record, nil
}

// CountChunks returns the number of stored chunks, optionally filtered by
// source (empty source counts everything)
func (s *Store) CountChunks(ctx context.Context, source string) (int, error) {
	var (
		count int
		err   error
	)
	if source == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE source = ?", source).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

// ListSources returns the distinct source documents in the store
func (s *Store) ListSources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT source FROM chunks ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}
