package service

import (
	"regexp"
	"strconv"
	"strings"

	"rentassist/internal/model"
	"rentassist/internal/utils"
)

// Upstream intent labels and their kinds.
var intentLabels = map[string]model.IntentKind{
	"search": model.IntentSearch, "searchrentals": model.IntentSearch, "filter": model.IntentSearch,
	"findrentals": model.IntentSearch, "propertysearch": model.IntentSearch,
	"reset": model.IntentReset, "clearfilters": model.IntentReset, "startover": model.IntentReset,
	"showrentals": model.IntentShowRentals, "show": model.IntentShowRentals, "list": model.IntentShowRentals,
	"getcontact": model.IntentGetContact, "contact": model.IntentGetContact, "contactinfo": model.IntentGetContact,
	"sort": model.IntentSort, "compare": model.IntentCompare,
	"details": model.IntentDetails, "detail": model.IntentDetails,
	"addfavorite": model.IntentAddFavorite, "favorite": model.IntentAddFavorite, "save": model.IntentAddFavorite,
	"removefavorite": model.IntentRemoveFavorite, "unfavorite": model.IntentRemoveFavorite,
	"listfavorites": model.IntentListFavorites, "favorites": model.IntentListFavorites, "showfavorites": model.IntentListFavorites,
	"sendmessage": model.IntentSendMessage, "message": model.IntentSendMessage, "email": model.IntentSendMessage,
	"contactagent": model.IntentSendMessage, "emailagent": model.IntentSendMessage,
	"pricing": model.IntentPricing, "booking": model.IntentBooking, "support": model.IntentSupport,
	"urgent": model.IntentUrgent, "general": model.IntentGeneral,
}

var (
	resetPhrases         = []string{"reset", "start over", "clear filters", "clear my filters", "clear all", "clear the filters", "new search", "forget my", "remove all filters", "remove filters"}
	favoriteWords        = []string{"favorite", "favourite", "saved", "bookmark"}
	removeWords          = []string{"remove", "delete", "drop", "take off", "take out"}
	unfavoritePhrases    = []string{"unfavorite", "unfavourite", "unsave", "un-save", "unbookmark"}
	listFavoritesPhrases = []string{"my favorites", "my favourites", "show favorites", "show favourites", "list favorites", "list favourites", "saved listings", "saved homes", "my saved", "my list", "favorites list"}
	addFavoritePhrases   = []string{"favorite", "favourite", "bookmark", "save ", "add to my list", "shortlist"}
	sendMessagePhrases   = []string{"send a message", "send message", "send an email", "send email", "message the agent", "email the agent", "message the realtor", "email the realtor", "write to the agent", "reach out to the agent", "message agent", "email agent", "message the landlord", "email the landlord", "send a note"}
	contactPhrases       = []string{"contact", "agent", "realtor", "phone number", "email address", "who is listing", "who's listing", "landlord", "how do i reach", "office"}
	comparePhrases       = []string{"compare", " vs ", " vs. ", "versus", "difference between"}
	sortPhrases          = []string{"sort", "order by", "ordered by", "cheapest first", "most expensive first", "rank by", "arrange"}
	detailsPhrases       = []string{"details", "detail", "tell me more", "more info", "more about", "describe"}
	showPhrases          = []string{"show", "list", "rentals", "listings", "properties", "homes", "what's available", "what is available", "see options", "any places", "results"}
	pricingPhrases       = []string{"price", "cost", "how much", "fee", "deposit"}
	bookingPhrases       = []string{"book", "schedule", "appointment", "tour", "viewing", "visit"}
	supportPhrases       = []string{"problem", "issue", "complaint", "not working", "broken"}
	urgentPhrases        = []string{"urgent", "asap", "emergency", "immediately"}
	descPhrases          = []string{"desc", "descending", "highest", "most expensive", "largest", "biggest", "high to low", "most", "newest first", "reverse"}
)

var (
	hashPosition    = regexp.MustCompile(`#\s*(\d+)`)
	nounPosition    = regexp.MustCompile(`\b(?:number|no\.?|listing|property|option|home|house|place|result|rental|unit|item)\s*(\d+)\b`)
	ordinalNumeral  = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\b`)
	bareNumber      = regexp.MustCompile(`\b(\d{1,2})\b`)
	listingIDMarker = regexp.MustCompile(`(?i)\bid\b\s*[:#=]?\s*([A-Za-z0-9][A-Za-z0-9,._\-]*[A-Za-z0-9])`)
	subjectMarker   = regexp.MustCompile(`(?i)subject\s*[:=]\s*"?([^"\n]+?)"?\s*(?:body\s*[:=]|$)`)
	bodyMarker      = regexp.MustCompile(`(?is)(?:body\s*[:=]|saying|that says|message:)\s*"?(.+?)"?\s*$`)
	quoted          = regexp.MustCompile(`"([^"]+)"`)
)

var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"1st": 1, "2nd": 2, "3rd": 3,
}

// IntentResolver decides what a turn asks for. Structured intent from the
// upstream classifier wins; otherwise phrase rules apply in fixed precedence.
type IntentResolver struct{}

// NewIntentResolver creates a resolver.
func NewIntentResolver() *IntentResolver {
	return &IntentResolver{}
}

// Resolve maps a message and its optional criteria to an Intent.
func (r *IntentResolver) Resolve(text string, criteria map[string]any) model.Intent {
	lower := " " + strings.Join(strings.Fields(strings.ToLower(text)), " ") + " "

	kind, ok := structuredKind(criteria)
	if !ok {
		kind = r.classify(lower, criteria)
	}
	in := model.Intent{Kind: kind}
	r.fillArguments(&in, text, lower, criteria)
	return in
}

func structuredKind(criteria map[string]any) (model.IntentKind, bool) {
	for _, key := range []string{"intent", "action"} {
		label, ok := criteria[key].(string)
		if !ok {
			continue
		}
		if kind, ok := intentLabels[squashKey(label)]; ok {
			return kind, true
		}
	}
	return "", false
}

func (r *IntentResolver) classify(lower string, criteria map[string]any) model.IntentKind {
	if containsAny(lower, resetPhrases) {
		return model.IntentReset
	}
	action, isAction := actionKind(lower)
	if HasFilterFields(criteria) {
		// extracted filters outrank incidental action words
		if isAction && action.NeedsPage() && hasPositionMarker(lower) {
			return action
		}
		return model.IntentSearch
	}
	if isAction {
		return action
	}
	switch {
	case containsAny(lower, showPhrases):
		return model.IntentShowRentals
	case containsAny(lower, pricingPhrases):
		return model.IntentPricing
	case containsAny(lower, bookingPhrases):
		return model.IntentBooking
	case containsAny(lower, supportPhrases):
		return model.IntentSupport
	case isUrgent(lower, criteria):
		return model.IntentUrgent
	}
	return model.IntentGeneral
}

// actionKind matches the session and page action phrases in precedence order.
func actionKind(lower string) (model.IntentKind, bool) {
	switch {
	case containsAny(lower, unfavoritePhrases) ||
		(containsAny(lower, removeWords) && containsAny(lower, favoriteWords)):
		return model.IntentRemoveFavorite, true
	case containsAny(lower, listFavoritesPhrases) || strings.TrimSpace(lower) == "favorites" || strings.TrimSpace(lower) == "favourites":
		return model.IntentListFavorites, true
	case containsAny(lower, addFavoritePhrases) || strings.HasPrefix(strings.TrimSpace(lower), "save"):
		return model.IntentAddFavorite, true
	case containsAny(lower, sendMessagePhrases):
		return model.IntentSendMessage, true
	case containsAny(lower, contactPhrases):
		return model.IntentGetContact, true
	case containsAny(lower, comparePhrases):
		return model.IntentCompare, true
	case containsAny(lower, sortPhrases):
		return model.IntentSort, true
	case containsAny(lower, detailsPhrases):
		return model.IntentDetails, true
	}
	return "", false
}

// hasPositionMarker reports an explicit page reference: "#2", "listing 3",
// "3rd" or an ordinal word. Bare numbers do not count.
func hasPositionMarker(lower string) bool {
	for _, re := range []*regexp.Regexp{hashPosition, nounPosition, ordinalNumeral} {
		if re.MatchString(lower) {
			return true
		}
	}
	for _, w := range positionWords(lower) {
		if _, ok := ordinalWords[w]; ok {
			return true
		}
	}
	return false
}

func positionWords(lower string) []string {
	return strings.Fields(strings.Map(func(r rune) rune {
		if r == ',' || r == '.' || r == '?' || r == '!' {
			return ' '
		}
		return r
	}, lower))
}

func isUrgent(lower string, criteria map[string]any) bool {
	if u, ok := criteria["urgency"].(string); ok && strings.EqualFold(strings.TrimSpace(u), "high") {
		return true
	}
	return containsAny(lower, urgentPhrases)
}

func (r *IntentResolver) fillArguments(in *model.Intent, text, lower string, criteria map[string]any) {
	if !in.Kind.NeedsPage() {
		return
	}

	in.Position = structuredPosition(criteria)
	if in.Position == 0 {
		in.Position = parsePosition(lower)
	}
	if id, ok := criteria["listing_id"].(string); ok && strings.TrimSpace(id) != "" {
		in.ListingID = strings.TrimSpace(id)
	} else if m := listingIDMarker.FindStringSubmatch(text); m != nil && in.Position == 0 {
		in.ListingID = strings.TrimSpace(m[1])
	}

	switch in.Kind {
	case model.IntentSort, model.IntentCompare:
		in.Field = stringArg(criteria, "field", "sort_by", "compare_by")
		if in.Field == "" {
			in.Field = parseField(lower)
		}
		in.Order = strings.ToLower(stringArg(criteria, "order", "direction"))
		if in.Order == "" {
			in.Order = model.OrderAsc
			if containsAny(lower, descPhrases) {
				in.Order = model.OrderDesc
			}
		}
		if in.Order != model.OrderDesc {
			in.Order = model.OrderAsc
		}
		if in.Field == "" && containsAny(lower, []string{"cheap", "expensive"}) {
			in.Field = "price"
		}
	case model.IntentSendMessage:
		in.Subject = stringArg(criteria, "subject")
		in.Body = stringArg(criteria, "body", "message")
		if in.Subject == "" {
			if m := subjectMarker.FindStringSubmatch(text); m != nil {
				in.Subject = strings.TrimSpace(m[1])
			}
		}
		if in.Body == "" {
			if m := bodyMarker.FindStringSubmatch(text); m != nil {
				in.Body = strings.TrimSpace(m[1])
			} else if m := quoted.FindStringSubmatch(text); m != nil {
				in.Body = strings.TrimSpace(m[1])
			}
		}
	}
}

func structuredPosition(criteria map[string]any) int {
	for _, key := range []string{"position", "index", "listing_number", "number"} {
		if v, ok := criteria[key]; ok {
			if f, ok := utils.ParseNumber(v); ok && f >= 1 {
				return int(f)
			}
		}
	}
	return 0
}

// parsePosition reads a 1-based page position from text: "#2", "listing 3",
// "the second one", "3rd", or a lone small number.
func parsePosition(lower string) int {
	for _, re := range []*regexp.Regexp{hashPosition, nounPosition, ordinalNumeral} {
		if m := re.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	for _, w := range positionWords(lower) {
		if n, ok := ordinalWords[w]; ok {
			return n
		}
	}
	if strings.Contains(lower, "$") {
		return 0
	}
	if m := bareNumber.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// parseField finds the listing field a sort or compare refers to, preferring
// the words right after "by" or "on".
func parseField(lower string) string {
	words := strings.Fields(strings.NewReplacer(",", " ", "?", " ", ".", " ").Replace(lower))
	try := func(from int) string {
		for n := 3; n >= 1; n-- {
			if from+n > len(words) {
				continue
			}
			if f, ok := model.LookupField(strings.Join(words[from:from+n], " ")); ok {
				return f.Name
			}
		}
		return ""
	}
	for i, w := range words {
		if (w == "by" || w == "on" || w == "of") && i+1 < len(words) {
			if name := try(i + 1); name != "" {
				return name
			}
		}
	}
	for i := range words {
		if name := try(i); name != "" {
			return name
		}
	}
	return ""
}

func stringArg(criteria map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := criteria[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
