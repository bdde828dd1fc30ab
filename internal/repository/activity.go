package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rentassist/internal/model"

	"github.com/google/uuid"
)

// ActivityLog is the feed of searches, favorites and outbound messages.
type ActivityLog interface {
	Record(ctx context.Context, a model.Activity) error
	Recent(ctx context.Context, limit int) ([]model.Activity, error)
	// ForListing returns up to limit entries about one listing, newest first.
	ForListing(ctx context.Context, listingKey string, limit int) ([]model.Activity, error)
	// Prune keeps only the newest keep entries and reports how many were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}

func stamp(a *model.Activity) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
}

// MemoryActivityLog holds at most capacity entries, dropping the oldest.
type MemoryActivityLog struct {
	mu       sync.Mutex
	entries  []model.Activity
	capacity int
}

// NewMemoryActivityLog creates a log; capacity <= 0 means unbounded.
func NewMemoryActivityLog(capacity int) *MemoryActivityLog {
	return &MemoryActivityLog{capacity: capacity}
}

// Record implements ActivityLog.
func (m *MemoryActivityLog) Record(_ context.Context, a model.Activity) error {
	stamp(&a)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, a)
	if m.capacity > 0 && len(m.entries) > m.capacity {
		m.entries = append([]model.Activity(nil), m.entries[len(m.entries)-m.capacity:]...)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (m *MemoryActivityLog) Recent(_ context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Activity, 0, min(limit, len(m.entries)))
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// ForListing implements ActivityLog.
func (m *MemoryActivityLog) ForListing(_ context.Context, listingKey string, limit int) ([]model.Activity, error) {
	if limit <= 0 || listingKey == "" {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Activity
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].ListingKey == listingKey {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

// Prune implements ActivityLog.
func (m *MemoryActivityLog) Prune(_ context.Context, keep int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if keep < 0 || len(m.entries) <= keep {
		return 0, nil
	}
	removed := len(m.entries) - keep
	m.entries = append([]model.Activity(nil), m.entries[removed:]...)
	return int64(removed), nil
}

// SQLActivityLog stores the feed in the activities table.
type SQLActivityLog struct {
	db *Database
}

// NewSQLActivityLog creates an activity log on an opened, migrated database.
func NewSQLActivityLog(db *Database) *SQLActivityLog {
	return &SQLActivityLog{db: db}
}

type activityRow struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Kind       string `db:"kind"`
	ListingKey string `db:"listing_key"`
	Message    string `db:"message"`
	CreatedAt  int64  `db:"created_at"`
}

// Record implements ActivityLog.
func (s *SQLActivityLog) Record(ctx context.Context, a model.Activity) error {
	stamp(&a)
	query := s.db.db.Rebind(`
		INSERT INTO activities (id, user_id, kind, listing_key, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.db.ExecContext(ctx, query, a.ID, a.UserID, a.Kind, a.ListingKey, a.Message, toMillis(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// Recent implements ActivityLog.
func (s *SQLActivityLog) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	query := s.db.db.Rebind(`
		SELECT id, user_id, kind, listing_key, message, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT ?
	`)
	return s.selectActivities(ctx, query, limit)
}

// ForListing implements ActivityLog.
func (s *SQLActivityLog) ForListing(ctx context.Context, listingKey string, limit int) ([]model.Activity, error) {
	query := s.db.db.Rebind(`
		SELECT id, user_id, kind, listing_key, message, created_at
		FROM activities
		WHERE listing_key = ?
		ORDER BY created_at DESC
		LIMIT ?
	`)
	return s.selectActivities(ctx, query, listingKey, limit)
}

func (s *SQLActivityLog) selectActivities(ctx context.Context, query string, args ...any) ([]model.Activity, error) {
	var rows []activityRow
	if err := s.db.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	out := make([]model.Activity, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Activity{
			ID:         r.ID,
			UserID:     r.UserID,
			Kind:       r.Kind,
			ListingKey: r.ListingKey,
			Message:    r.Message,
			CreatedAt:  fromMillis(r.CreatedAt),
		})
	}
	return out, nil
}

// Prune implements ActivityLog.
func (s *SQLActivityLog) Prune(ctx context.Context, keep int) (int64, error) {
	query := s.db.db.Rebind(`
		DELETE FROM activities
		WHERE id NOT IN (SELECT id FROM activities ORDER BY created_at DESC LIMIT ?)
	`)
	res, err := s.db.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activities: %w", err)
	}
	return res.RowsAffected()
}
