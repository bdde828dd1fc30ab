package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentassist/internal/model"

	"go.uber.org/zap"
)

// ErrMissingUser is returned when a turn has no user key.
var ErrMissingUser = errors.New("user id is required")

// Canned replies for turns that carry no actionable request.
var cannedReplies = map[model.IntentKind]string{
	model.IntentPricing: "Rents vary by listing. Tell me your budget, for example \"under $2,000\", and I'll show rentals in range.",
	model.IntentBooking: "Happy to help you set up a viewing. Pick a listing number and say \"message the agent of #1\" and I'll reach out for you.",
	model.IntentSupport: "Sorry you're running into trouble. Can you tell me a bit more about what's going wrong?",
	model.IntentUrgent:  "I understand this is urgent. Tell me the listing number and I'll get you the agent's contact details right away.",
	model.IntentGeneral: "I'm here to help you find a rental. Tell me a city, a budget, or how many bedrooms you need.",
}

// Turn is one user message with optional structured criteria.
type Turn struct {
	UserID   string
	Text     string
	Criteria map[string]any
}

// TurnResult is the outcome of a turn.
type TurnResult struct {
	Intent     model.Intent
	Reply      string
	Properties []model.ListingResult
	Filters    model.FilterSet
	Took       time.Duration
}

// Assistant runs whole turns: intent resolution, filter merge, query and actions.
type Assistant struct {
	contexts   *ContextStore
	normalizer *Normalizer
	intents    *IntentResolver
	engine     *QueryEngine
	actions    *ActionResolver
	logger     *zap.Logger
}

// NewAssistant creates an Assistant.
func NewAssistant(contexts *ContextStore, normalizer *Normalizer, intents *IntentResolver, engine *QueryEngine, actions *ActionResolver, logger *zap.Logger) *Assistant {
	return &Assistant{
		contexts:   contexts,
		normalizer: normalizer,
		intents:    intents,
		engine:     engine,
		actions:    actions,
		logger:     logger,
	}
}

// HandleTurn processes one message. The turn runs inside the user's critical
// section so concurrent messages for the same user cannot lose updates.
func (a *Assistant) HandleTurn(ctx context.Context, turn Turn) (*TurnResult, error) {
	if strings.TrimSpace(turn.UserID) == "" {
		return nil, ErrMissingUser
	}
	start := time.Now()
	intent := a.intents.Resolve(turn.Text, turn.Criteria)

	var out *TurnResult
	state, err := a.contexts.Update(ctx, turn.UserID, func(s *model.SessionState) error {
		out = a.apply(ctx, s, intent, turn.Criteria)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to handle turn: %w", err)
	}
	out.Filters = state.Filters
	out.Took = time.Since(start)

	a.logger.Debug("turn handled",
		zap.String("user_id", turn.UserID),
		zap.String("intent", string(intent.Kind)),
		zap.Int("properties", len(out.Properties)),
		zap.Duration("took", out.Took))
	return out, nil
}

// Execute runs a structured action without free text.
func (a *Assistant) Execute(ctx context.Context, userID string, intent model.Intent) (*TurnResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	if !intent.Kind.Valid() {
		return nil, fmt.Errorf("unknown action %q", intent.Kind)
	}
	start := time.Now()
	var out *TurnResult
	state, err := a.contexts.Update(ctx, userID, func(s *model.SessionState) error {
		out = a.apply(ctx, s, intent, nil)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", intent.Kind, err)
	}
	out.Filters = state.Filters
	out.Took = time.Since(start)
	return out, nil
}

func (a *Assistant) apply(ctx context.Context, s *model.SessionState, intent model.Intent, criteria map[string]any) *TurnResult {
	out := &TurnResult{Intent: intent}

	switch intent.Kind {
	case model.IntentSearch:
		incoming := a.normalizer.Normalize(criteria)
		s.Filters = s.Filters.Merge(incoming)
		res := a.actions.ShowRentals(ctx, s)
		out.Reply, out.Properties = res.Reply, res.Properties

	case model.IntentReset:
		s.Filters = model.FilterSet{}
		out.Reply = "Your search filters are cleared. Favorites are kept. What are you looking for now?"

	default:
		if reply, ok := cannedReplies[intent.Kind]; ok {
			out.Reply = reply
			break
		}
		res := a.actions.Resolve(ctx, s, intent)
		out.Reply, out.Properties = res.Reply, res.Properties
	}
	return out
}

// Session returns the read-only summary of a user's state.
func (a *Assistant) Session(ctx context.Context, userID string) (*model.SessionSummary, error) {
	s, err := a.contexts.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.SessionSummary{
		UserID:    userID,
		Filters:   s.Filters,
		Summary:   s.Filters.Summary(),
		Favorites: append([]string{}, s.Favorites...),
		LastPage:  append([]model.Listing{}, s.LastPage...),
		LastView:  s.LastView,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

// ResetFilters clears a user's filters.
func (a *Assistant) ResetFilters(ctx context.Context, userID string) error {
	return a.contexts.Reset(ctx, userID)
}

// Listing looks a listing up by key.
func (a *Assistant) Listing(key string) (model.Listing, bool) {
	return a.engine.Catalog().Find(key)
}
