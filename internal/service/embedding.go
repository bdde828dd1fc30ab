package service

import (
	"context"
	"fmt"

	"rentassist/internal/model"
	"rentassist/internal/repository"
)

// EmbeddingStore is the vector storage EmbeddingService needs.
type EmbeddingStore interface {
	Dimensions() int
	BatchUpsert(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	Similar(ctx context.Context, key string, limit int) ([]string, error)
}

var _ EmbeddingStore = (*repository.EmbeddingRepository)(nil)

// EmbeddingService stores listing vectors and answers similar-listing lookups.
type EmbeddingService struct {
	store   EmbeddingStore
	catalog *model.Catalog
}

// NewEmbeddingService creates an EmbeddingService.
func NewEmbeddingService(store EmbeddingStore, catalog *model.Catalog) *EmbeddingService {
	return &EmbeddingService{store: store, catalog: catalog}
}

// UpdateEmbeddings validates and stores vectors. Items for unknown listings
// or with the wrong dimension are reported and skipped.
func (s *EmbeddingService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	var valid []model.EmbeddingItem
	var errs []string
	for i, item := range items {
		switch {
		case len(item.Embedding) != s.store.Dimensions():
			errs = append(errs, fmt.Sprintf("item %d: dimension %d, expected %d", i, len(item.Embedding), s.store.Dimensions()))
		case !s.known(item.ListingID):
			errs = append(errs, fmt.Sprintf("item %d: unknown listing %s", i, item.ListingID))
		default:
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return 0, errs
	}
	success, storeErrs := s.store.BatchUpsert(ctx, valid)
	return success, append(errs, storeErrs...)
}

func (s *EmbeddingService) known(key string) bool {
	_, ok := s.catalog.Find(key)
	return ok
}

// Similar returns listings nearest to key, skipping keys no longer in the catalog.
func (s *EmbeddingService) Similar(ctx context.Context, key string, limit int) ([]model.Listing, error) {
	keys, err := s.store.Similar(ctx, key, limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Listing, 0, len(keys))
	for _, k := range keys {
		if l, ok := s.catalog.Find(k); ok {
			out = append(out, l)
		}
	}
	return out, nil
}
