package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"rentassist/internal/model"
	"rentassist/internal/utils"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SessionStore keeps per-user conversation state.
//
// Update runs fn inside the user's critical section: reads and writes for
// one user are serialized, different users proceed in parallel. When fn
// returns an error nothing is saved.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*model.SessionState, error)
	Update(ctx context.Context, userID string, fn func(*model.SessionState) error) (*model.SessionState, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

// MemoryStore is the in-process SessionStore. With maxUsers > 0 the least
// recently used sessions are evicted past that bound; otherwise it is unbounded.
type MemoryStore struct {
	locks    *utils.KeyedMutex
	sessions *lru.Cache[string, *model.SessionState]
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore.
func NewMemoryStore(maxUsers int) (*MemoryStore, error) {
	size := maxUsers
	if size <= 0 {
		size = math.MaxInt32
	}
	cache, err := lru.New[string, *model.SessionState](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &MemoryStore{
		locks:    utils.NewKeyedMutex(),
		sessions: cache,
		now:      time.Now,
	}, nil
}

// Get returns a copy of the user's state, or a fresh state on first contact.
func (s *MemoryStore) Get(_ context.Context, userID string) (*model.SessionState, error) {
	if state, ok := s.sessions.Get(userID); ok {
		return state.Clone(), nil
	}
	return model.NewSessionState(userID), nil
}

// Update implements SessionStore.
func (s *MemoryStore) Update(ctx context.Context, userID string, fn func(*model.SessionState) error) (*model.SessionState, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state, _ := s.Get(ctx, userID)
	if err := fn(state); err != nil {
		return nil, err
	}
	state.UserID = userID
	state.UpdatedAt = s.now().UTC()
	s.sessions.Add(userID, state.Clone())
	return state, nil
}

// Len returns the number of remembered users.
func (s *MemoryStore) Len(context.Context) (int, error) {
	return s.sessions.Len(), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// SQLSessionStore persists state as one JSON row per user.
// The critical section is per process; run one instance per database.
type SQLSessionStore struct {
	db    *Database
	locks *utils.KeyedMutex
	now   func() time.Time
}

// NewSQLSessionStore creates a session store on an opened, migrated database.
func NewSQLSessionStore(db *Database) *SQLSessionStore {
	return &SQLSessionStore{db: db, locks: utils.NewKeyedMutex(), now: time.Now}
}

// Get implements SessionStore.
func (s *SQLSessionStore) Get(ctx context.Context, userID string) (*model.SessionState, error) {
	var rows []model.SessionState
	query := s.db.db.Rebind(`SELECT state FROM user_sessions WHERE user_id = ?`)
	if err := s.db.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(rows) == 0 {
		return model.NewSessionState(userID), nil
	}
	state := rows[0]
	state.UserID = userID
	return &state, nil
}

// Update implements SessionStore.
func (s *SQLSessionStore) Update(ctx context.Context, userID string, fn func(*model.SessionState) error) (*model.SessionState, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	state, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	state.UserID = userID
	state.UpdatedAt = s.now().UTC()

	query := s.db.db.Rebind(`
		INSERT INTO user_sessions (user_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`)
	if _, err := s.db.db.ExecContext(ctx, query, userID, *state, toMillis(state.UpdatedAt)); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return state, nil
}

// Len implements SessionStore.
func (s *SQLSessionStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM user_sessions`); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// Close is a no-op; the Database is closed by its owner.
func (s *SQLSessionStore) Close() error { return nil }
