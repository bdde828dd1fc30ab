package service

import (
	"context"
	"testing"
	"time"

	"rentassist/internal/model"
	"rentassist/internal/repository"

	"go.uber.org/zap"
)

func TestMessengerRetries(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{failures: 1}
	activity := repository.NewMemoryActivityLog(10)
	m := NewMessenger(mailer, activity, MessengerConfig{
		From:       "rental@agentmail.to",
		MaxRetries: 2,
		RetryBase:  time.Millisecond,
	}, zap.NewNop())

	err := m.Deliver(ctx, model.OutboundMessage{UserID: "u1", To: "jane@example.com", Subject: "Hi", ListingKey: "a1"})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if mailer.calls != 2 || len(mailer.sent) != 1 {
		t.Errorf("calls=%d sent=%d, want 2 and 1", mailer.calls, len(mailer.sent))
	}
	if mailer.sent[0].From != "rental@agentmail.to" {
		t.Errorf("From = %q", mailer.sent[0].From)
	}

	recent, _ := activity.Recent(ctx, 10)
	if len(recent) != 1 || recent[0].Kind != model.ActivityMessage || recent[0].ListingKey != "a1" {
		t.Errorf("activity = %+v", recent)
	}
}

func TestMessengerGivesUp(t *testing.T) {
	mailer := &fakeMailer{failures: 5}
	m := NewMessenger(mailer, nil, MessengerConfig{MaxRetries: 2, RetryBase: time.Millisecond}, zap.NewNop())

	if err := m.Deliver(context.Background(), model.OutboundMessage{To: "x@example.com"}); err == nil {
		t.Fatal("Deliver() should fail")
	}
	if mailer.calls != 3 {
		t.Errorf("calls = %d, want 3", mailer.calls)
	}
}

func TestOutboxMailer(t *testing.T) {
	ctx := context.Background()
	outbox := repository.NewMemoryOutbox()
	m := NewMessenger(NewOutboxMailer(outbox), nil, MessengerConfig{From: "rental@agentmail.to"}, zap.NewNop())

	if err := m.Deliver(ctx, model.OutboundMessage{To: "jane@example.com", Subject: "Hi"}); err != nil {
		t.Fatal(err)
	}
	pending, err := outbox.Pending(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].To != "jane@example.com" || pending[0].ID == "" {
		t.Errorf("pending = %+v", pending)
	}
}

func TestMessageHash(t *testing.T) {
	a := MessageHash("Jane@Example.com ", "100 Congress Ave", "Hi", "Body")
	b := MessageHash("jane@example.com", "100 Congress Ave", "Hi", "Body")
	if a != b {
		t.Error("hash should ignore recipient case and spacing")
	}
	if a == MessageHash("jane@example.com", "100 Congress Ave", "Hi", "Other body") {
		t.Error("different bodies should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}
