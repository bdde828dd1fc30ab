package utils

import "strings"

var stateCodes = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR", "california": "CA",
	"colorado": "CO", "connecticut": "CT", "delaware": "DE", "florida": "FL", "georgia": "GA",
	"hawaii": "HI", "idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS", "missouri": "MO",
	"montana": "MT", "nebraska": "NE", "nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
	"new mexico": "NM", "new york": "NY", "north carolina": "NC", "north dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT", "vermont": "VT",
	"virginia": "VA", "washington": "WA", "west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
	"district of columbia": "DC",
}

// NormalizeState maps a full US state name to its two-letter code.
// Anything else is returned trimmed and upper-cased.
func NormalizeState(s string) string {
	key := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if code, ok := stateCodes[key]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// StateCode reports the code for a full state name only.
func StateCode(name string) (string, bool) {
	code, ok := stateCodes[strings.Join(strings.Fields(strings.ToLower(name)), " ")]
	return code, ok
}
