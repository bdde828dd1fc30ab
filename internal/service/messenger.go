package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"rentassist/internal/model"
	"rentassist/internal/repository"
	"rentassist/internal/utils"

	"go.uber.org/zap"
)

// Mailer hands an outbound message to the email collaborator.
type Mailer interface {
	Send(ctx context.Context, msg model.OutboundMessage) error
}

// LogMailer only logs messages. Used when no delivery channel is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements Mailer.
func (m *LogMailer) Send(_ context.Context, msg model.OutboundMessage) error {
	m.logger.Info("outbound message",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("listing", msg.ListingKey))
	return nil
}

// OutboxMailer queues messages for a separate delivery worker.
type OutboxMailer struct {
	outbox repository.Outbox
}

// NewOutboxMailer creates an OutboxMailer.
func NewOutboxMailer(outbox repository.Outbox) *OutboxMailer {
	return &OutboxMailer{outbox: outbox}
}

// Send implements Mailer.
func (m *OutboxMailer) Send(ctx context.Context, msg model.OutboundMessage) error {
	_, err := m.outbox.Enqueue(ctx, msg)
	return err
}

// MessengerConfig bounds outbound delivery.
type MessengerConfig struct {
	From       string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// Messenger delivers agent emails with a timeout and retries, and records
// the outcome in the activity feed.
type Messenger struct {
	mailer   Mailer
	activity repository.ActivityLog
	cfg      MessengerConfig
	logger   *zap.Logger
}

// NewMessenger creates a Messenger.
func NewMessenger(mailer Mailer, activity repository.ActivityLog, cfg MessengerConfig, logger *zap.Logger) *Messenger {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Messenger{mailer: mailer, activity: activity, cfg: cfg, logger: logger}
}

// MessageHash identifies a message by recipient, listing and content.
func MessageHash(to, address, subject, body string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		strings.ToLower(strings.TrimSpace(to)), address, subject, body,
	}, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Deliver sends msg. The returned error is for the reply only; callers
// must not fail the turn on it.
func (m *Messenger) Deliver(ctx context.Context, msg model.OutboundMessage) error {
	if msg.From == "" {
		msg.From = m.cfg.From
	}
	retry := utils.RetryConfig{
		MaxAttempts: m.cfg.MaxRetries + 1,
		BaseDelay:   m.cfg.RetryBase,
		Logger:      m.logger,
	}
	err := retry.Do(ctx, "send message", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
		return m.mailer.Send(ctx, msg)
	})

	entry := model.Activity{
		UserID:     msg.UserID,
		Kind:       model.ActivityMessage,
		ListingKey: msg.ListingKey,
		Message:    fmt.Sprintf("Contacted %s about %s", msg.To, msg.Subject),
	}
	if err != nil {
		entry.Kind = model.ActivityMessageError
		entry.Message = fmt.Sprintf("Failed to contact %s about %s", msg.To, msg.Subject)
		m.logger.Warn("message delivery failed", zap.String("to", msg.To), zap.Error(err))
	}
	if m.activity != nil {
		if rerr := m.activity.Record(context.WithoutCancel(ctx), entry); rerr != nil {
			m.logger.Warn("failed to record activity", zap.Error(rerr))
		}
	}
	return err
}
