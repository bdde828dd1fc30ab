package model

// IntentKind names what the user asked for in one turn.
type IntentKind string

const (
	IntentSearch         IntentKind = "search"
	IntentReset          IntentKind = "reset"
	IntentShowRentals    IntentKind = "show_rentals"
	IntentGetContact     IntentKind = "get_contact"
	IntentSort           IntentKind = "sort"
	IntentCompare        IntentKind = "compare"
	IntentDetails        IntentKind = "details"
	IntentAddFavorite    IntentKind = "add_favorite"
	IntentRemoveFavorite IntentKind = "remove_favorite"
	IntentListFavorites  IntentKind = "list_favorites"
	IntentSendMessage    IntentKind = "send_message"

	// Canned replies when nothing actionable was asked.
	IntentPricing IntentKind = "pricing"
	IntentBooking IntentKind = "booking"
	IntentSupport IntentKind = "support"
	IntentUrgent  IntentKind = "urgent"
	IntentGeneral IntentKind = "general"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Intent is a resolved request plus the arguments its kind uses.
// Position is 1-based; zero means "not given".
type Intent struct {
	Kind      IntentKind `json:"kind"`
	Position  int        `json:"position,omitempty"`
	ListingID string     `json:"listing_id,omitempty"`
	Field     string     `json:"field,omitempty"`
	Order     string     `json:"order,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	Body      string     `json:"body,omitempty"`
}

var knownIntents = map[IntentKind]bool{
	IntentSearch: true, IntentReset: true, IntentShowRentals: true, IntentGetContact: true,
	IntentSort: true, IntentCompare: true, IntentDetails: true, IntentAddFavorite: true,
	IntentRemoveFavorite: true, IntentListFavorites: true, IntentSendMessage: true,
	IntentPricing: true, IntentBooking: true, IntentSupport: true, IntentUrgent: true, IntentGeneral: true,
}

// Valid reports whether k is a known kind.
func (k IntentKind) Valid() bool { return knownIntents[k] }

// NeedsPage reports whether the kind refers to a page of results by position.
func (k IntentKind) NeedsPage() bool {
	switch k {
	case IntentGetContact, IntentSort, IntentCompare, IntentDetails,
		IntentAddFavorite, IntentRemoveFavorite, IntentSendMessage:
		return true
	}
	return false
}
