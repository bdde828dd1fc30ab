package service

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"rentassist/internal/model"
)

var austin = map[string]any{"city": "Austin"}

// Austin search page, cheapest first: a4, a2, a1, Pine, a8.

func favorites(t *testing.T, h *harness, user string) []string {
	t.Helper()
	s, err := h.contexts.Session(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	return s.Favorites
}

func TestFavoriteThenRemoveSamePage(t *testing.T) {
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in austin", austin)

	res := h.turn(t, "u1", "favorite 1", nil)
	if !strings.Contains(res.Reply, "Added #1") {
		t.Errorf("reply = %q", res.Reply)
	}
	if got := favorites(t, h, "u1"); !reflect.DeepEqual(got, []string{"a4"}) {
		t.Fatalf("favorites = %v, want [a4]", got)
	}

	res = h.turn(t, "u1", "favorite 1", nil)
	if !strings.Contains(res.Reply, "already in your favorites") {
		t.Errorf("second add reply = %q", res.Reply)
	}
	if got := favorites(t, h, "u1"); len(got) != 1 {
		t.Errorf("favorites = %v, want one entry", got)
	}

	res = h.turn(t, "u1", "remove favorite 1", nil)
	if !strings.Contains(res.Reply, "Removed #1") {
		t.Errorf("remove reply = %q", res.Reply)
	}
	if got := favorites(t, h, "u1"); len(got) != 0 {
		t.Errorf("favorites = %v, want none", got)
	}

	res = h.turn(t, "u1", "remove favorite 1", nil)
	if !strings.Contains(res.Reply, "isn't in your favorites") {
		t.Errorf("remove missing reply = %q", res.Reply)
	}
}

func TestRemoveFavoriteFollowsFavoritesView(t *testing.T) {
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in austin", austin)
	h.turn(t, "u1", "favorite 2", nil)
	h.turn(t, "u1", "favorite 3", nil)

	res := h.turn(t, "u1", "show my favorites", nil)
	if len(res.Properties) != 2 || res.Properties[1].Listing.ID != "a1" {
		t.Fatalf("favorites page = %+v", res.Properties)
	}

	h.turn(t, "u1", "remove favorite 2", nil)
	if got := favorites(t, h, "u1"); !reflect.DeepEqual(got, []string{"a2"}) {
		t.Errorf("favorites = %v, want [a2]", got)
	}

	s, _ := h.contexts.Session(context.Background(), "u1")
	if len(s.FavoritesPage) != 1 || s.FavoritesPage[0].ID != "a2" {
		t.Errorf("favorites page = %v", keys(s.FavoritesPage))
	}
	if len(s.LastPage) != 5 {
		t.Errorf("search page changed: %v", keys(s.LastPage))
	}
}

func TestListFavoritesEmpty(t *testing.T) {
	h := newHarness(t, 5)
	res := h.turn(t, "u1", "show my favorites", nil)
	if !strings.Contains(res.Reply, "no favorites yet") {
		t.Errorf("reply = %q", res.Reply)
	}
}

func TestGetContact(t *testing.T) {
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in austin", austin)

	tests := []struct {
		text string
		want string
	}{
		{text: "who is the agent for #3", want: "Agent for #3 (100 Congress Ave, Austin, TX 78701): Jane Doe | 555-0101 | jane@example.com"},
		{text: "who is the agent for #2", want: "Office: Lone Star Realty | 555-0200"},
		{text: "who is the agent for #1", want: "Contact information is not available"},
		{text: "who is the agent for #9", want: "couldn't find listing #9"},
		{text: "who is the agent", want: "Which listing do you mean?"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := h.turn(t, "u1", tt.text, nil)
			if !strings.Contains(res.Reply, tt.want) {
				t.Errorf("reply = %q, want it to contain %q", res.Reply, tt.want)
			}
		})
	}
}

func TestSortPage(t *testing.T) {
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in austin", austin)

	res := h.turn(t, "u1", "sort by price descending", nil)
	if !strings.Contains(res.Reply, "descending") {
		t.Errorf("reply = %q", res.Reply)
	}
	s, _ := h.contexts.Session(context.Background(), "u1")
	want := []string{"500 Pine St, Austin, TX 78705", "a1", "a2", "a4", "a8"}
	if got := keys(s.LastPage); !reflect.DeepEqual(got, want) {
		t.Errorf("page = %v, want %v", got, want)
	}

	// positions follow the sorted page
	h.turn(t, "u1", "favorite 1", nil)
	if got := favorites(t, h, "u1"); !reflect.DeepEqual(got, []string{"500 Pine St, Austin, TX 78705"}) {
		t.Errorf("favorites = %v", got)
	}

	out, err := h.assistant.Execute(context.Background(), "u1", model.Intent{Kind: model.IntentSort, Field: "color"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Reply, `can't sort by "color"`) || !strings.Contains(out.Reply, "bedrooms") {
		t.Errorf("unknown field reply = %q", out.Reply)
	}
}

func TestSortWithMissingValuesLast(t *testing.T) {
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in austin", austin)
	h.turn(t, "u1", "sort by bedrooms", nil)

	s, _ := h.contexts.Session(context.Background(), "u1")
	want := []string{"a2", "a1", "a8", "500 Pine St, Austin, TX 78705", "a4"}
	if got := keys(s.LastPage); !reflect.DeepEqual(got, want) {
		t.Errorf("page = %v, want %v", got, want)
	}
}

func TestCompare(t *testing.T) {
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in miami", map[string]any{"city": "Miami"})

	res := h.turn(t, "u1", "compare price", nil)
	if !strings.Contains(res.Reply, "at least two listings") {
		t.Errorf("reply = %q", res.Reply)
	}

	h.turn(t, "u1", "rentals in austin", austin)
	res = h.turn(t, "u1", "compare price", nil)
	for _, want := range []string{"#1 400 Oak St, Austin, TX 78704: 1200", "#2 200 Lamar Blvd, Austin, TX 78703: 1400"} {
		if !strings.Contains(res.Reply, want) {
			t.Errorf("reply %q missing %q", res.Reply, want)
		}
	}

	res = h.turn(t, "u1", "compare bedrooms", nil)
	if !strings.Contains(res.Reply, "#1 400 Oak St, Austin, TX 78704: n/a") {
		t.Errorf("reply = %q", res.Reply)
	}
}

func TestDetails(t *testing.T) {
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in austin", austin)

	res := h.turn(t, "u1", "tell me more about the third one", nil)
	if !strings.HasPrefix(res.Reply, "Details for #3:") || !strings.Contains(res.Reply, "Jane Doe") {
		t.Errorf("reply = %q", res.Reply)
	}
	if len(res.Properties) != 1 || res.Properties[0].Listing.ID != "a1" {
		t.Errorf("properties = %+v", res.Properties)
	}
}

func TestPageActionRunsUnfilteredQueryFirst(t *testing.T) {
	h := newHarness(t, 5)

	res := h.turn(t, "u1", "details of the first one", nil)
	if !strings.Contains(res.Reply, "400 Oak St") {
		t.Errorf("reply = %q", res.Reply)
	}
	s, _ := h.contexts.Session(context.Background(), "u1")
	if len(s.LastPage) != 5 || !s.Filters.IsEmpty() {
		t.Errorf("page = %v filters = %s", keys(s.LastPage), s.Filters.Summary())
	}
}

func TestEmptySearchPageIsNotReplaced(t *testing.T) {
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in nowhere", map[string]any{"city": "Nowhere"})

	res := h.turn(t, "u1", "details 1", nil)
	if !strings.Contains(res.Reply, "current page has 0") {
		t.Errorf("reply = %q", res.Reply)
	}
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 5)
	h.turn(t, "u1", "rentals in austin", austin)

	res := h.turn(t, "u1", "email the agent of #3", nil)
	if !strings.Contains(res.Reply, "Message sent to Jane Doe <jane@example.com>") {
		t.Fatalf("reply = %q", res.Reply)
	}
	if len(h.mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(h.mailer.sent))
	}
	msg := h.mailer.sent[0]
	if msg.To != "jane@example.com" || msg.From != "rental@agentmail.to" || msg.Subject != "Inquiry about 100 Congress Ave, Austin, TX 78701" {
		t.Errorf("message = %+v", msg)
	}

	res = h.turn(t, "u1", "email the agent of #3", nil)
	if !strings.Contains(res.Reply, "already sent") {
		t.Errorf("duplicate reply = %q", res.Reply)
	}
	if h.mailer.calls != 1 {
		t.Errorf("mailer called %d times, want 1", h.mailer.calls)
	}

	res = h.turn(t, "u1", "email the agent of #2", nil)
	if !strings.Contains(res.Reply, "No agent email found") || !strings.Contains(res.Reply, "555-0200") {
		t.Errorf("missing email reply = %q", res.Reply)
	}

	h.mailer.failures = 10
	res = h.turn(t, "u1", "email the agent of #4", nil)
	if !strings.Contains(res.Reply, "email the agent directly at carl@example.com") {
		t.Errorf("failure reply = %q", res.Reply)
	}
	s, _ := h.contexts.Session(ctx, "u1")
	if len(s.SentMessages) != 1 {
		t.Errorf("sent hashes = %d, want 1", len(s.SentMessages))
	}

	recent, err := h.activity.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].Kind != model.ActivityMessageError {
		t.Errorf("latest activity = %+v", recent)
	}

	h.mailer.failures = 0
	res = h.turn(t, "u1", "email the agent of #4", nil)
	if !strings.Contains(res.Reply, "Message sent to Carl Fox") {
		t.Errorf("retry reply = %q", res.Reply)
	}
}

func TestSendMessageWithoutMessenger(t *testing.T) {
	h := newHarness(t, 5)
	state := model.NewSessionState("u1")
	resolver := NewActionResolver(h.engine, nil, nil, nil)

	res := resolver.Resolve(context.Background(), state, model.Intent{Kind: model.IntentSendMessage, ListingID: "a3"})
	if !strings.Contains(res.Reply, "bob@example.com") || !strings.Contains(res.Reply, "not set up") {
		t.Errorf("reply = %q", res.Reply)
	}
}
