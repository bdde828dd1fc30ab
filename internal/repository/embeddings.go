package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentassist/internal/model"

	"github.com/pgvector/pgvector-go"
)

// ErrVectorsUnsupported is returned when the backend is not Postgres.
var ErrVectorsUnsupported = errors.New("vector search requires the postgres backend")

// EmbeddingRepository stores listing vectors in a pgvector column.
type EmbeddingRepository struct {
	db         *Database
	dimensions int
}

// NewEmbeddingRepository creates the listing_embeddings table if needed.
func NewEmbeddingRepository(ctx context.Context, db *Database, dimensions int) (*EmbeddingRepository, error) {
	if !db.IsPostgres() {
		return nil, ErrVectorsUnsupported
	}
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS listing_embeddings (
			listing_key TEXT PRIMARY KEY,
			embedding   vector(%d) NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, dimensions),
	}
	for _, stmt := range stmts {
		if _, err := db.db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to prepare embeddings table: %w", err)
		}
	}
	return &EmbeddingRepository{db: db, dimensions: dimensions}, nil
}

// Dimensions is the vector size the table was created with.
func (r *EmbeddingRepository) Dimensions() int { return r.dimensions }

// BatchUpsert stores vectors for many listings in one transaction. Each
// item runs under its own savepoint so one bad row does not poison the rest.
func (r *EmbeddingRepository) BatchUpsert(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, []string{fmt.Sprintf("failed to start transaction: %v", err)}
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO listing_embeddings (listing_key, embedding, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (listing_key) DO UPDATE SET embedding = excluded.embedding, updated_at = NOW()
	`)
	if err != nil {
		return 0, []string{fmt.Sprintf("failed to prepare statement: %v", err)}
	}
	defer stmt.Close()

	for _, item := range items {
		if err := validateEmbedding(item, r.dimensions); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if _, err := tx.ExecContext(ctx, `SAVEPOINT embedding_item`); err != nil {
			return 0, append(errs, fmt.Sprintf("failed to create savepoint: %v", err))
		}
		if _, err := stmt.ExecContext(ctx, item.ListingID, pgvector.NewVector(item.Embedding)); err != nil {
			errs = append(errs, fmt.Sprintf("listing %s: %v", item.ListingID, err))
			if _, err := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT embedding_item`); err != nil {
				return 0, append(errs, fmt.Sprintf("failed to roll back item: %v", err))
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT embedding_item`); err != nil {
			return 0, append(errs, fmt.Sprintf("failed to release savepoint: %v", err))
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		return 0, append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
	}
	return success, errs
}

func validateEmbedding(item model.EmbeddingItem, dimensions int) error {
	if strings.TrimSpace(item.ListingID) == "" {
		return errors.New("listing id is required")
	}
	if len(item.Embedding) != dimensions {
		return fmt.Errorf("listing %s: embedding has %d dimensions, want %d", item.ListingID, len(item.Embedding), dimensions)
	}
	return nil
}

// Similar returns keys of the listings nearest to key by L2 distance.
func (r *EmbeddingRepository) Similar(ctx context.Context, key string, limit int) ([]string, error) {
	var keys []string
	query := `
		SELECT e.listing_key
		FROM listing_embeddings e, listing_embeddings src
		WHERE src.listing_key = $1 AND e.listing_key <> src.listing_key
		ORDER BY e.embedding <-> src.embedding
		LIMIT $2
	`
	if err := r.db.db.SelectContext(ctx, &keys, query, key, limit); err != nil {
		return nil, fmt.Errorf("failed to find similar listings: %w", err)
	}
	return keys, nil
}
