package docstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Postgres stores documents as JSONB rows keyed by (collection, id).
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a Postgres backed store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the documents table when missing.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSONB NOT NULL,
		PRIMARY KEY (collection, id)
	)`
	_, err := s.pool.Exec(ctx, ddl)
	return err
}

// GetByID fetches a single document.
func (s *Postgres) GetByID(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return unmarshalDocument(raw)
}

// QueryByField returns all documents whose top-level field equals value.
func (s *Postgres) QueryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND data->>$2 = $3 ORDER BY id`,
		collection, field, value,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// List returns every document in a collection.
func (s *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM documents WHERE collection = $1 ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Put upserts a document. The id is stamped into the document body so reads
// never need a separate key column.
func (s *Postgres) Put(ctx context.Context, collection, id string, doc Document) error {
	stamped := make(Document, len(doc)+1)
	for k, v := range doc {
		stamped[k] = v
	}
	stamped["id"] = id
	raw, err := json.Marshal(stamped)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`,
		collection, id, raw,
	)
	return err
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *Postgres) Delete(ctx context.Context, collection, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	return err
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc, err := unmarshalDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func unmarshalDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

var _ Store = (*Postgres)(nil)
