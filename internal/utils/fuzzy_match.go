package utils

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeLabel lower-cases, strips punctuation and collapses whitespace.
// "Multi-Family" and "multi family" both become "multifamily" when squashed.
func NormalizeLabel(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(s)
	s = nonAlnum.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func squash(s string) string {
	return strings.ReplaceAll(NormalizeLabel(s), " ", "")
}

// Property type aliases. Keys are squashed user terms, values are squashed
// catalog labels they should resolve to.
var propertyTypeAliases = map[string][]string{
	"apartment":    {"multifamily", "apartment", "condo"},
	"apartments":   {"multifamily", "apartment", "condo"},
	"apt":          {"multifamily", "apartment", "condo"},
	"flat":         {"multifamily", "apartment", "condo"},
	"unit":         {"multifamily", "apartment", "condo"},
	"duplex":       {"multifamily"},
	"triplex":      {"multifamily"},
	"condo":        {"condo", "condominium"},
	"condominium":  {"condo"},
	"house":        {"singlefamily", "house"},
	"home":         {"singlefamily", "house"},
	"detached":     {"singlefamily"},
	"sfh":          {"singlefamily"},
	"townhome":     {"townhouse"},
	"townhouse":    {"townhouse"},
	"rowhouse":     {"townhouse"},
	"mobile":       {"manufactured"},
	"mobilehome":   {"manufactured"},
	"trailer":      {"manufactured"},
	"manufactured": {"manufactured"},
	"lot":          {"land"},
	"land":         {"land"},
}

// ResolvePropertyTypes maps a requested type onto the distinct type labels
// of the catalog. It tries, in order: exact match, substring in either
// direction, the alias table, then best token overlap. An empty result
// means nothing resolved and callers fall back to a raw substring test.
func ResolvePropertyTypes(requested string, available []string) []string {
	want := NormalizeLabel(requested)
	if want == "" {
		return nil
	}
	wantSq := strings.ReplaceAll(want, " ", "")

	var exact, partial []string
	for _, label := range available {
		sq := squash(label)
		if sq == "" {
			continue
		}
		switch {
		case sq == wantSq:
			exact = append(exact, label)
		case strings.Contains(sq, wantSq) || strings.Contains(wantSq, sq):
			partial = append(partial, label)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	if len(partial) > 0 {
		return partial
	}

	if targets, ok := propertyTypeAliases[wantSq]; ok {
		var hits []string
		for _, label := range available {
			sq := squash(label)
			for _, t := range targets {
				if sq == t || strings.Contains(sq, t) {
					hits = append(hits, label)
					break
				}
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}

	// token overlap
	wantTokens := strings.Fields(want)
	best, bestScore := []string(nil), 0
	for _, label := range available {
		score := 0
		for _, lt := range strings.Fields(NormalizeLabel(label)) {
			for _, wt := range wantTokens {
				if lt == wt {
					score++
				}
			}
		}
		switch {
		case score == 0:
		case score > bestScore:
			best, bestScore = []string{label}, score
		case score == bestScore:
			best = append(best, label)
		}
	}
	return best
}

// ContainsFold reports whether sub occurs in s, ignoring case.
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}
