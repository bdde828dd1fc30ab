package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"rentassist/internal/model"
	"rentassist/internal/repository"

	"go.uber.org/zap"
)

// ActionResult is the reply to one action plus any listings it displayed.
type ActionResult struct {
	Reply      string
	Properties []model.ListingResult
}

// ActionResolver runs page-relative commands against a user's state.
// Callers hold the user's critical section while it runs.
type ActionResolver struct {
	engine    *QueryEngine
	messenger *Messenger
	activity  repository.ActivityLog
	logger    *zap.Logger
}

// NewActionResolver creates an ActionResolver.
func NewActionResolver(engine *QueryEngine, messenger *Messenger, activity repository.ActivityLog, logger *zap.Logger) *ActionResolver {
	return &ActionResolver{engine: engine, messenger: messenger, activity: activity, logger: logger}
}

// Resolve executes in against state, mutating it in place.
func (r *ActionResolver) Resolve(ctx context.Context, state *model.SessionState, in model.Intent) ActionResult {
	if in.Kind.NeedsPage() && !state.PageShown {
		res := r.engine.Query(model.FilterSet{})
		state.RecordSearchPage(res.Page)
	}

	switch in.Kind {
	case model.IntentShowRentals:
		return r.ShowRentals(ctx, state)
	case model.IntentGetContact:
		return r.getContact(state, in)
	case model.IntentSort:
		return r.sortPage(state, in)
	case model.IntentCompare:
		return r.compare(state, in)
	case model.IntentDetails:
		return r.details(state, in)
	case model.IntentAddFavorite:
		return r.addFavorite(ctx, state, in)
	case model.IntentRemoveFavorite:
		return r.removeFavorite(state, in)
	case model.IntentListFavorites:
		return r.listFavorites(state)
	case model.IntentSendMessage:
		return r.sendMessage(ctx, state, in)
	}
	return ActionResult{Reply: fmt.Sprintf("I can't do %q here.", in.Kind)}
}

// ShowRentals reruns the query with the user's current filters.
func (r *ActionResolver) ShowRentals(ctx context.Context, state *model.SessionState) ActionResult {
	res := r.engine.Query(state.Filters)
	state.RecordSearchPage(res.Page)
	r.record(ctx, model.Activity{
		UserID:  state.UserID,
		Kind:    model.ActivitySearch,
		Message: fmt.Sprintf("Searched %s: %d matches", state.Filters.Summary(), res.Total),
	})
	return ActionResult{
		Reply:      formatSearchReply(state.Filters, res),
		Properties: rankPage(res.Page, state.Filters, state.Favorites),
	}
}

// pick resolves the listing an action refers to, by position or by id.
func pick(page []model.Listing, in model.Intent, catalog *model.Catalog) (model.Listing, int, string) {
	if in.Position == 0 && in.ListingID != "" {
		for i, l := range page {
			if l.Key() == in.ListingID {
				return l, i + 1, ""
			}
		}
		if l, ok := catalog.Find(in.ListingID); ok {
			return l, 0, ""
		}
		return model.Listing{}, 0, fmt.Sprintf("I couldn't find a listing with id %s.", in.ListingID)
	}
	if in.Position == 0 {
		if len(page) == 0 {
			return model.Listing{}, 0, "There are no listings on the current page. Try a search first."
		}
		return model.Listing{}, 0, fmt.Sprintf("Which listing do you mean? Give me a number from 1 to %d.", len(page))
	}
	l, ok := model.AtPosition(page, in.Position)
	if !ok {
		return model.Listing{}, 0, fmt.Sprintf("I couldn't find listing #%d; the current page has %d.", in.Position, len(page))
	}
	return l, in.Position, ""
}

func label(pos int, l model.Listing) string {
	if pos > 0 {
		return fmt.Sprintf("#%d (%s)", pos, l.Address())
	}
	return l.Address()
}

func (r *ActionResolver) getContact(state *model.SessionState, in model.Intent) ActionResult {
	l, pos, miss := pick(state.LastPage, in, r.engine.Catalog())
	if miss != "" {
		return ActionResult{Reply: miss}
	}
	switch {
	case l.HasAgentContact():
		return ActionResult{Reply: fmt.Sprintf("Agent for %s: %s", label(pos, l),
			joinNonEmpty(" | ", l.AgentName, l.AgentPhone, l.AgentEmail, l.AgentWebsite))}
	case l.HasOfficeContact():
		return ActionResult{Reply: fmt.Sprintf("No agent listed for %s. Office: %s", label(pos, l),
			joinNonEmpty(" | ", l.OfficeName, l.OfficePhone, l.OfficeEmail, l.OfficeWebsite))}
	}
	return ActionResult{Reply: fmt.Sprintf("Contact information is not available for %s.", label(pos, l))}
}

func (r *ActionResolver) sortPage(state *model.SessionState, in model.Intent) ActionResult {
	if len(state.LastPage) == 0 {
		return ActionResult{Reply: "There is nothing to sort yet. Try a search first."}
	}
	name := in.Field
	if name == "" {
		name = "price"
	}
	field, ok := model.LookupField(name)
	if !ok || !sortable(field.Name) {
		return ActionResult{Reply: fmt.Sprintf("I can't sort by %q. Available fields: %s.", name, strings.Join(model.SortableFields(), ", "))}
	}

	desc := in.Order == model.OrderDesc
	page := state.LastPage
	sort.SliceStable(page, func(i, j int) bool {
		return lessBy(field, &page[i], &page[j], desc)
	})
	state.RecordSearchPage(page)

	order := "ascending"
	if desc {
		order = "descending"
	}
	return ActionResult{
		Reply:      formatPage(fmt.Sprintf("Sorted by %s (%s):", strings.ToLower(field.Label), order), page),
		Properties: rankPage(page, state.Filters, state.Favorites),
	}
}

func sortable(name string) bool {
	for _, n := range model.SortableFields() {
		if n == name {
			return true
		}
	}
	return false
}

// lessBy orders by field; absent values sort last in both directions.
func lessBy(f model.Field, a, b *model.Listing, desc bool) bool {
	if f.Numeric {
		x, y := f.Number(a), f.Number(b)
		switch {
		case x == nil:
			return false
		case y == nil:
			return true
		case desc:
			return *x > *y
		default:
			return *x < *y
		}
	}
	x, y := strings.ToLower(f.Text(a)), strings.ToLower(f.Text(b))
	switch {
	case x == "":
		return false
	case y == "":
		return true
	case desc:
		return x > y
	default:
		return x < y
	}
}

func (r *ActionResolver) compare(state *model.SessionState, in model.Intent) ActionResult {
	if len(state.LastPage) < 2 {
		return ActionResult{Reply: "I need at least two listings on the page to compare."}
	}
	name := in.Field
	if name == "" {
		name = "price"
	}
	field, ok := model.LookupField(name)
	if !ok {
		return ActionResult{Reply: fmt.Sprintf("I don't know the field %q. Available fields: %s.", name, strings.Join(model.SortableFields(), ", "))}
	}
	a, b := state.LastPage[0], state.LastPage[1]
	raw := func(l *model.Listing) string {
		if v := field.Text(l); v != "" {
			return v
		}
		return "n/a"
	}
	return ActionResult{Reply: fmt.Sprintf("%s:\n#1 %s: %s\n#2 %s: %s",
		field.Label, a.Address(), raw(&a), b.Address(), raw(&b))}
}

func (r *ActionResolver) details(state *model.SessionState, in model.Intent) ActionResult {
	l, pos, miss := pick(state.LastPage, in, r.engine.Catalog())
	if miss != "" {
		return ActionResult{Reply: miss}
	}
	return ActionResult{
		Reply:      formatDetails(pos, l),
		Properties: []model.ListingResult{{Position: pos, Listing: l, MatchedReasons: ExplainMatch(l, state.Filters)}},
	}
}

func (r *ActionResolver) addFavorite(ctx context.Context, state *model.SessionState, in model.Intent) ActionResult {
	l, pos, miss := pick(state.LastPage, in, r.engine.Catalog())
	if miss != "" {
		return ActionResult{Reply: miss}
	}
	if !state.AddFavorite(l.Key()) {
		return ActionResult{Reply: fmt.Sprintf("%s is already in your favorites.", label(pos, l))}
	}
	r.record(ctx, model.Activity{
		UserID:     state.UserID,
		Kind:       model.ActivityFavorite,
		ListingKey: l.Key(),
		Message:    "Saved " + l.Address(),
	})
	return ActionResult{Reply: fmt.Sprintf("Added %s to your favorites. You have %d saved.", label(pos, l), len(state.Favorites))}
}

// removeFavorite resolves positions against whichever list was shown last.
func (r *ActionResolver) removeFavorite(state *model.SessionState, in model.Intent) ActionResult {
	var key, name string
	if in.Position == 0 && in.ListingID != "" {
		key, name = in.ListingID, in.ListingID
		if l, ok := r.engine.Catalog().Find(key); ok {
			name = l.Address()
		}
	} else {
		l, pos, miss := pick(state.ActivePage(), in, r.engine.Catalog())
		if miss != "" {
			return ActionResult{Reply: miss}
		}
		key, name = l.Key(), label(pos, l)
	}

	if !state.RemoveFavorite(key) {
		return ActionResult{Reply: fmt.Sprintf("%s isn't in your favorites.", name)}
	}
	if state.LastView == model.ViewFavorites {
		kept := state.FavoritesPage[:0:0]
		for _, l := range state.FavoritesPage {
			if l.Key() != key {
				kept = append(kept, l)
			}
		}
		state.RecordFavoritesPage(kept)
	}
	return ActionResult{Reply: fmt.Sprintf("Removed %s from your favorites. You have %d saved.", name, len(state.Favorites))}
}

func (r *ActionResolver) listFavorites(state *model.SessionState) ActionResult {
	if len(state.Favorites) == 0 {
		return ActionResult{Reply: "You have no favorites yet. Say \"favorite 1\" after a search to save one."}
	}
	page := make([]model.Listing, 0, len(state.Favorites))
	for _, key := range state.Favorites {
		if l, ok := r.engine.Catalog().Find(key); ok {
			page = append(page, l)
		}
	}
	state.RecordFavoritesPage(page)
	return ActionResult{
		Reply:      formatPage(fmt.Sprintf("Your favorites (%d):", len(page)), page),
		Properties: rankPage(page, model.FilterSet{}, state.Favorites),
	}
}

func (r *ActionResolver) sendMessage(ctx context.Context, state *model.SessionState, in model.Intent) ActionResult {
	l, pos, miss := pick(state.LastPage, in, r.engine.Catalog())
	if miss != "" {
		return ActionResult{Reply: miss}
	}
	if l.AgentEmail == "" {
		reply := fmt.Sprintf("No agent email found for %s, so I can't send a message.", label(pos, l))
		if fallback := joinNonEmpty(" | ", l.AgentPhone, l.OfficeEmail, l.OfficePhone); fallback != "" {
			reply += " You could try " + fallback + "."
		}
		return ActionResult{Reply: reply}
	}

	subject := in.Subject
	if subject == "" {
		subject = "Inquiry about " + l.Address()
	}
	body := in.Body
	if body == "" {
		greeting := "Hi"
		if l.AgentName != "" {
			greeting += " " + l.AgentName
		}
		body = fmt.Sprintf("%s,\n\nI'm interested in %s. Is it still available? I'd love to know more and arrange a viewing.\n\nThanks!", greeting, l.Address())
	}

	hash := MessageHash(l.AgentEmail, l.Address(), subject, body)
	if state.HasSent(hash) {
		return ActionResult{Reply: fmt.Sprintf("I already sent that message to %s about %s.", l.AgentEmail, l.Address())}
	}
	if r.messenger == nil {
		return ActionResult{Reply: fmt.Sprintf("Messaging is not set up. You can email the agent directly at %s.", l.AgentEmail)}
	}

	err := r.messenger.Deliver(ctx, model.OutboundMessage{
		UserID:     state.UserID,
		To:         l.AgentEmail,
		Subject:    subject,
		Body:       body,
		ListingKey: l.Key(),
	})
	if err != nil {
		return ActionResult{Reply: fmt.Sprintf("I couldn't send the message right now. You can email the agent directly at %s.", l.AgentEmail)}
	}
	state.SentMessages = append(state.SentMessages, hash)
	return ActionResult{Reply: fmt.Sprintf("Message sent to %s about %s.", joinNonEmpty(" ", l.AgentName, "<"+l.AgentEmail+">"), l.Address())}
}

func (r *ActionResolver) record(ctx context.Context, a model.Activity) {
	if r.activity == nil {
		return
	}
	if err := r.activity.Record(ctx, a); err != nil {
		r.logger.Warn("failed to record activity", zap.String("kind", a.Kind), zap.Error(err))
	}
}
