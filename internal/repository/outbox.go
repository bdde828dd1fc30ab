package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rentassist/internal/model"

	"github.com/google/uuid"
)

// Outbox queues outbound agent emails for the delivery worker.
type Outbox interface {
	Enqueue(ctx context.Context, msg model.OutboundMessage) (model.OutboundMessage, error)
	Pending(ctx context.Context, limit int) ([]model.OutboundMessage, error)
}

func stampMessage(m *model.OutboundMessage) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
}

// MemoryOutbox keeps queued messages in process.
type MemoryOutbox struct {
	mu       sync.Mutex
	messages []model.OutboundMessage
}

// NewMemoryOutbox creates an empty outbox.
func NewMemoryOutbox() *MemoryOutbox { return &MemoryOutbox{} }

// Enqueue implements Outbox.
func (o *MemoryOutbox) Enqueue(_ context.Context, msg model.OutboundMessage) (model.OutboundMessage, error) {
	stampMessage(&msg)
	o.mu.Lock()
	o.messages = append(o.messages, msg)
	o.mu.Unlock()
	return msg, nil
}

// Pending returns up to limit queued messages, oldest first.
func (o *MemoryOutbox) Pending(_ context.Context, limit int) ([]model.OutboundMessage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := max(0, min(limit, len(o.messages)))
	return append([]model.OutboundMessage(nil), o.messages[:n]...), nil
}

// SQLOutbox stores queued messages in outbox_messages.
type SQLOutbox struct {
	db *Database
}

// NewSQLOutbox creates an outbox on an opened, migrated database.
func NewSQLOutbox(db *Database) *SQLOutbox { return &SQLOutbox{db: db} }

type outboxRow struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Sender     string `db:"sender"`
	Recipient  string `db:"recipient"`
	Subject    string `db:"subject"`
	Body       string `db:"body"`
	ListingKey string `db:"listing_key"`
	CreatedAt  int64  `db:"created_at"`
}

// Enqueue implements Outbox.
func (o *SQLOutbox) Enqueue(ctx context.Context, msg model.OutboundMessage) (model.OutboundMessage, error) {
	stampMessage(&msg)
	query := o.db.db.Rebind(`
		INSERT INTO outbox_messages (id, user_id, sender, recipient, subject, body, listing_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := o.db.db.ExecContext(ctx, query,
		msg.ID, msg.UserID, msg.From, msg.To, msg.Subject, msg.Body, msg.ListingKey, toMillis(msg.CreatedAt))
	if err != nil {
		return model.OutboundMessage{}, fmt.Errorf("failed to enqueue message: %w", err)
	}
	return msg, nil
}

// Pending implements Outbox.
func (o *SQLOutbox) Pending(ctx context.Context, limit int) ([]model.OutboundMessage, error) {
	var rows []outboxRow
	query := o.db.db.Rebind(`
		SELECT id, user_id, sender, recipient, subject, body, listing_key, created_at
		FROM outbox_messages
		ORDER BY created_at ASC
		LIMIT ?
	`)
	if err := o.db.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch outbox: %w", err)
	}
	out := make([]model.OutboundMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.OutboundMessage{
			ID:         r.ID,
			UserID:     r.UserID,
			From:       r.Sender,
			To:         r.Recipient,
			Subject:    r.Subject,
			Body:       r.Body,
			ListingKey: r.ListingKey,
			CreatedAt:  fromMillis(r.CreatedAt),
		})
	}
	return out, nil
}
