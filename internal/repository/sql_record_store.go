package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Dialect selects the SQL flavour of the records table.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

type sqlQueries struct {
	schema string
	get    string
	upsert string
	delete string
}

var dialectQueries = map[Dialect]sqlQueries{
	DialectPostgres: {
		schema: `CREATE TABLE IF NOT EXISTS records (
	record_key VARCHAR(191) PRIMARY KEY,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
		get:    "SELECT payload FROM records WHERE record_key = $1",
		upsert: "INSERT INTO records (record_key, payload, updated_at) VALUES ($1, $2::jsonb, $3) ON CONFLICT (record_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at",
		delete: "DELETE FROM records WHERE record_key = $1",
	},
	DialectMySQL: {
		schema: `CREATE TABLE IF NOT EXISTS records (
	record_key VARCHAR(191) NOT NULL PRIMARY KEY,
	payload LONGTEXT NOT NULL,
	updated_at DATETIME(6) NOT NULL
)`,
		get:    "SELECT payload FROM records WHERE record_key = ?",
		upsert: "INSERT INTO records (record_key, payload, updated_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)",
		delete: "DELETE FROM records WHERE record_key = ?",
	},
}

// SQLRecordStore keeps records in a single key/payload table.
type SQLRecordStore struct {
	db      *sqlx.DB
	queries sqlQueries
}

// NewSQLRecordStore constructs a store for the given dialect.
func NewSQLRecordStore(db *sqlx.DB, dialect Dialect) (*SQLRecordStore, error) {
	queries, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	return &SQLRecordStore{db: db, queries: queries}, nil
}

// EnsureSchema creates the records table when missing.
func (s *SQLRecordStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.queries.schema); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (s *SQLRecordStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	var payload string
	if err := s.db.GetContext(ctx, &payload, s.queries.get, string(key)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select record %s: %w", key, err)
	}
	return []byte(payload), true, nil
}

func (s *SQLRecordStore) Set(ctx context.Context, key Key, raw []byte) error {
	if _, err := s.db.ExecContext(ctx, s.queries.upsert, string(key), string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}
	return nil
}

func (s *SQLRecordStore) Delete(ctx context.Context, key Key) error {
	if _, err := s.db.ExecContext(ctx, s.queries.delete, string(key)); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}
