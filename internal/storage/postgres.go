package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Compile-time interface check.
var _ domain.DocumentStore = (*PostgresStore)(nil)

// Schema is the single table every collection lives in.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	fields     JSONB       NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_collection_created ON documents (collection, created_at);
`

// PostgresStore keeps documents as JSONB rows keyed by (collection, id).
type PostgresStore struct {
	db  *sqlx.DB
	log *logger.Logger
}

type docRow struct {
	ID     string `db:"id"`
	Fields []byte `db:"fields"`
}

// OpenPostgres connects to dsn using the lib/pq driver.
func OpenPostgres(ctx context.Context, dsn string, log *logger.Logger) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return NewPostgresStore(db, log), nil
}

// NewPostgresStore wraps an existing database handle.
func NewPostgresStore(db *sqlx.DB, log *logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

// Migrate creates the documents table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// ListAll returns every document in the collection, oldest first.
func (s *PostgresStore) ListAll(ctx context.Context, collection string) ([]domain.Document, error) {
	var rows []docRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, fields FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`, collection)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	s.log.Debug("listing %s, count=%d", collection, len(rows))
	return decodeRows(rows)
}

// Add inserts a new document under a generated id.
func (s *PostgresStore) Add(ctx context.Context, collection string, fields map[string]string) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3)`, collection, id, raw)
	if err != nil {
		return "", fmt.Errorf("adding to %s: %w", collection, err)
	}
	s.log.Debug("stored %s/%s", collection, id)
	return id, nil
}

// Put upserts a document under a caller-chosen id.
func (s *PostgresStore) Put(ctx context.Context, collection, id string, fields map[string]string) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET fields = EXCLUDED.fields`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("putting %s/%s: %w", collection, id, err)
	}
	return nil
}

// FindWhere returns the documents whose field equals value.
func (s *PostgresStore) FindWhere(ctx context.Context, collection, field, value string) ([]domain.Document, error) {
	var rows []docRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, fields FROM documents
		WHERE collection = $1 AND fields ->> $2 = $3
		ORDER BY created_at, id`, collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("querying %s where %s: %w", collection, field, err)
	}
	return decodeRows(rows)
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	s.log.Debug("deleted %s/%s", collection, id)
	return nil
}

// Get returns a single document by id.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	var row docRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, fields FROM documents
		WHERE collection = $1 AND id = $2`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}
	doc, err := decodeRow(row)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeRows(rows []docRow) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(rows))
	for _, r := range rows {
		doc, err := decodeRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// decodeRow tolerates non-string JSON values by rendering them as text.
func decodeRow(r docRow) (domain.Document, error) {
	var raw map[string]any
	if len(r.Fields) > 0 {
		if err := json.Unmarshal(r.Fields, &raw); err != nil {
			return domain.Document{}, fmt.Errorf("decoding document %s: %w", r.ID, err)
		}
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case string:
			fields[k] = tv
		case nil:
			fields[k] = ""
		default:
			fields[k] = fmt.Sprint(tv)
		}
	}
	return domain.Document{ID: r.ID, Fields: fields}, nil
}
