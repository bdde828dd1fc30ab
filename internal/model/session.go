package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Views a position can refer to.
const (
	ViewSearch    = "search"
	ViewFavorites = "favorites"
)

// SessionState is everything remembered about one user between turns.
type SessionState struct {
	UserID        string    `json:"user_id"`
	Filters       FilterSet `json:"filters"`
	LastPage      []Listing `json:"last_page,omitempty"`
	FavoritesPage []Listing `json:"favorites_page,omitempty"`
	LastView      string    `json:"last_view,omitempty"`
	PageShown     bool      `json:"page_shown,omitempty"`
	Favorites     []string  `json:"favorites,omitempty"`
	SentMessages  []string  `json:"sent_messages,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewSessionState returns the state of a user seen for the first time.
func NewSessionState(userID string) *SessionState {
	return &SessionState{UserID: userID, LastView: ViewSearch}
}

// Clone returns a deep copy, so callers can hand state out without sharing slices.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.LastPage = append([]Listing(nil), s.LastPage...)
	out.FavoritesPage = append([]Listing(nil), s.FavoritesPage...)
	out.Favorites = append([]string(nil), s.Favorites...)
	out.SentMessages = append([]string(nil), s.SentMessages...)
	return &out
}

// RecordSearchPage replaces the last search page and makes it the active view.
func (s *SessionState) RecordSearchPage(page []Listing) {
	s.LastPage = append([]Listing(nil), page...)
	s.LastView = ViewSearch
	s.PageShown = true
}

// RecordFavoritesPage replaces the favorites page and makes it the active view.
func (s *SessionState) RecordFavoritesPage(page []Listing) {
	s.FavoritesPage = append([]Listing(nil), page...)
	s.LastView = ViewFavorites
	s.PageShown = true
}

// ActivePage is the page positions refer to.
func (s *SessionState) ActivePage() []Listing {
	if s.LastView == ViewFavorites {
		return s.FavoritesPage
	}
	return s.LastPage
}

// AtPosition returns the listing at 1-based position n of page.
func AtPosition(page []Listing, n int) (Listing, bool) {
	if n < 1 || n > len(page) {
		return Listing{}, false
	}
	return page[n-1], true
}

// IsFavorite reports whether key is saved.
func (s *SessionState) IsFavorite(key string) bool {
	for _, k := range s.Favorites {
		if k == key {
			return true
		}
	}
	return false
}

// AddFavorite appends key unless present. It reports whether anything changed.
func (s *SessionState) AddFavorite(key string) bool {
	if key == "" || s.IsFavorite(key) {
		return false
	}
	s.Favorites = append(s.Favorites, key)
	return true
}

// RemoveFavorite drops key. It reports whether anything changed.
func (s *SessionState) RemoveFavorite(key string) bool {
	for i, k := range s.Favorites {
		if k == key {
			s.Favorites = append(s.Favorites[:i:i], s.Favorites[i+1:]...)
			return true
		}
	}
	return false
}

// HasSent reports whether a message with this content hash was delivered.
func (s *SessionState) HasSent(hash string) bool {
	for _, h := range s.SentMessages {
		if h == hash {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer so state can be stored as a JSON column.
func (s SessionState) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *SessionState) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = SessionState{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported session state column type %T", value)
	}
}
