package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rentassist/internal/model"
	"rentassist/internal/repository"

	"go.uber.org/zap"
)

func f(v float64) *float64 { return &v }

func testListings() []model.Listing {
	return []model.Listing{
		{ID: "a1", FormattedAddress: "100 Congress Ave, Austin, TX 78701", City: "Austin", State: "TX", ZipCode: "78701",
			PropertyType: "Single Family", Bedrooms: f(3), Bathrooms: f(2), SquareFootage: f(1600), Price: f(1900), DaysOnMarket: f(5),
			AgentName: "Jane Doe", AgentEmail: "jane@example.com", AgentPhone: "555-0101"},
		{ID: "a2", FormattedAddress: "200 Lamar Blvd, Austin, TX 78703", City: "Austin", State: "TX", ZipCode: "78703",
			PropertyType: "Multi-Family", Bedrooms: f(2), Bathrooms: f(1), SquareFootage: f(900), Price: f(1400),
			OfficeName: "Lone Star Realty", OfficePhone: "555-0200"},
		{ID: "a3", FormattedAddress: "300 Main St, Dallas, TX 75201", City: "Dallas", State: "TX", ZipCode: "75201",
			PropertyType: "Condo", Bedrooms: f(3), Bathrooms: f(2), Price: f(2500),
			AgentName: "Bob Ray", AgentEmail: "bob@example.com"},
		{ID: "a4", FormattedAddress: "400 Oak St, Austin, TX 78704", City: "Austin", State: "TX", ZipCode: "78704",
			PropertyType: "Single Family", Bathrooms: f(1), Price: f(1200)},
		{FormattedAddress: "500 Pine St, Austin, TX 78705", City: "Austin", State: "TX", ZipCode: "78705",
			PropertyType: "Townhouse", Bedrooms: f(4), Bathrooms: f(3), Price: f(2100), HOAFee: f(150), DaysOnMarket: f(40),
			AgentName: "Carl Fox", AgentEmail: "carl@example.com"},
		{ID: "a1", FormattedAddress: "100 Congress Ave, Austin, TX 78701", City: "Austin", State: "TX",
			PropertyType: "Single Family", Bedrooms: f(3), Bathrooms: f(2), Price: f(1900)},
		{ID: "a7", FormattedAddress: "700 Bay Rd, Miami, FL 33101", City: "Miami", State: "FL", ZipCode: "33101",
			PropertyType: "Condo", Bedrooms: f(1), Bathrooms: f(1), Price: f(3000)},
		{ID: "a8", FormattedAddress: "800 Elm St, Austin, TX 78702", City: "Austin", State: "TX",
			PropertyType: "Single Family", Bedrooms: f(3), Bathrooms: f(2)},
	}
}

func testEngine(pageSize int) *QueryEngine {
	return NewQueryEngine(model.NewCatalog(testListings()), pageSize)
}

func keys(page []model.Listing) []string {
	out := make([]string, len(page))
	for i, l := range page {
		out[i] = l.Key()
	}
	return out
}

// fakeMailer records messages and can fail a fixed number of times.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []model.OutboundMessage
	failures int
	calls    int
}

func (m *fakeMailer) Send(_ context.Context, msg model.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type harness struct {
	assistant *Assistant
	actions   *ActionResolver
	engine    *QueryEngine
	mailer    *fakeMailer
	activity  *repository.MemoryActivityLog
	contexts  *ContextStore
}

func newHarness(t *testing.T, pageSize int) *harness {
	t.Helper()
	store, err := repository.NewMemoryStore(0)
	if err != nil {
		t.Fatal(err)
	}
	logger := zap.NewNop()
	engine := testEngine(pageSize)
	mailer := &fakeMailer{}
	activity := repository.NewMemoryActivityLog(100)
	messenger := NewMessenger(mailer, activity, MessengerConfig{
		From:       "rental@agentmail.to",
		Timeout:    time.Second,
		MaxRetries: 1,
		RetryBase:  time.Millisecond,
	}, logger)
	actions := NewActionResolver(engine, messenger, activity, logger)
	contexts := NewContextStore(store)
	return &harness{
		assistant: NewAssistant(contexts, NewNormalizer(), NewIntentResolver(), engine, actions, logger),
		actions:   actions,
		engine:    engine,
		mailer:    mailer,
		activity:  activity,
		contexts:  contexts,
	}
}

func (h *harness) turn(t *testing.T, user, text string, criteria map[string]any) *TurnResult {
	t.Helper()
	res, err := h.assistant.HandleTurn(context.Background(), Turn{UserID: user, Text: text, Criteria: criteria})
	if err != nil {
		t.Fatalf("HandleTurn(%q) error = %v", text, err)
	}
	return res
}
