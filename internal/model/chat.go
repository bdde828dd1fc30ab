package model

import "time"

// ChatRequest is one conversational turn.
// Criteria carries structured output of the upstream classifier; CriteriaRaw
// is the same output as unparsed model text.
type ChatRequest struct {
	UserID         string         `json:"user_id,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Message        string         `json:"message"`
	Criteria       map[string]any `json:"criteria,omitempty"`
	CriteriaRaw    string         `json:"criteria_raw,omitempty"`
}

// ChatResponse answers a turn.
type ChatResponse struct {
	ConversationID string          `json:"conversation_id"`
	Intent         Intent          `json:"intent"`
	Reply          string          `json:"reply"`
	Properties     []ListingResult `json:"properties"`
	Filters        FilterSet       `json:"filters"`
	Took           int64           `json:"took_ms"`
}

// ActionRequest triggers a page action without free text.
type ActionRequest struct {
	Action    string `json:"action" binding:"required"`
	Position  int    `json:"position,omitempty"`
	ListingID string `json:"listing_id,omitempty"`
	Field     string `json:"field,omitempty"`
	Order     string `json:"order,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body,omitempty"`
}

// SessionSummary is the read-only view of a user's state.
type SessionSummary struct {
	UserID    string    `json:"user_id"`
	Filters   FilterSet `json:"filters"`
	Summary   string    `json:"summary"`
	Favorites []string  `json:"favorites"`
	LastPage  []Listing `json:"last_page"`
	LastView  string    `json:"last_view"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Activity kinds.
const (
	ActivitySearch       = "search"
	ActivityMessage      = "message"
	ActivityMessageError = "message_failed"
	ActivityFavorite     = "favorite"
)

// Activity is one entry in the activity feed.
type Activity struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Kind       string    `json:"kind" db:"kind"`
	ListingKey string    `json:"listing_key,omitempty" db:"listing_key"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"created_at" db:"-"`
}

// OutboundMessage is an email to a listing agent.
type OutboundMessage struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	From       string    `json:"from" db:"sender"`
	To         string    `json:"to" db:"recipient"`
	Subject    string    `json:"subject" db:"subject"`
	Body       string    `json:"body" db:"body"`
	ListingKey string    `json:"listing_key" db:"listing_key"`
	CreatedAt  time.Time `json:"created_at" db:"-"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem is one listing vector keyed by listing key.
type EmbeddingItem struct {
	ListingID string    `json:"listing_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
