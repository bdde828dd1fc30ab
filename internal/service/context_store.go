package service

import (
	"context"

	"rentassist/internal/model"
	"rentassist/internal/repository"
)

// ContextStore owns per-user filters, pages and favorites on top of a SessionStore.
type ContextStore struct {
	store repository.SessionStore
}

// NewContextStore creates a ContextStore.
func NewContextStore(store repository.SessionStore) *ContextStore {
	return &ContextStore{store: store}
}

// Merge layers incoming onto the user's filters and returns the effective set.
func (c *ContextStore) Merge(ctx context.Context, userID string, incoming model.FilterSet) (model.FilterSet, error) {
	state, err := c.store.Update(ctx, userID, func(s *model.SessionState) error {
		s.Filters = s.Filters.Merge(incoming)
		return nil
	})
	if err != nil {
		return model.FilterSet{}, err
	}
	return state.Filters, nil
}

// Reset clears the user's filters. Favorites and shown pages are kept.
func (c *ContextStore) Reset(ctx context.Context, userID string) error {
	_, err := c.store.Update(ctx, userID, func(s *model.SessionState) error {
		s.Filters = model.FilterSet{}
		return nil
	})
	return err
}

// Session returns a snapshot of the user's state.
func (c *ContextStore) Session(ctx context.Context, userID string) (*model.SessionState, error) {
	return c.store.Get(ctx, userID)
}

// Update runs fn inside the user's critical section.
func (c *ContextStore) Update(ctx context.Context, userID string, fn func(*model.SessionState) error) (*model.SessionState, error) {
	return c.store.Update(ctx, userID, fn)
}
