package model

import (
	"strings"
)

// Listing represents one rental row from the listings file.
// Numeric fields are nil when the source cell was empty or malformed.
type Listing struct {
	ID               string   `json:"id,omitempty"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	AddressLine1     string   `json:"address_line1,omitempty"`
	AddressLine2     string   `json:"address_line2,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	ZipCode          string   `json:"zip_code,omitempty"`
	County           string   `json:"county,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	PropertyType     string   `json:"property_type,omitempty"`
	Bedrooms         *float64 `json:"bedrooms,omitempty"`
	Bathrooms        *float64 `json:"bathrooms,omitempty"`
	SquareFootage    *float64 `json:"square_footage,omitempty"`
	LotSize          *float64 `json:"lot_size,omitempty"`
	YearBuilt        *float64 `json:"year_built,omitempty"`
	Status           string   `json:"status,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	ListingType      string   `json:"listing_type,omitempty"`
	ListedDate       string   `json:"listed_date,omitempty"`
	DaysOnMarket     *float64 `json:"days_on_market,omitempty"`
	MLSNumber        string   `json:"mls_number,omitempty"`
	HOAFee           *float64 `json:"hoa_fee,omitempty"`

	AgentName     string `json:"agent_name,omitempty"`
	AgentPhone    string `json:"agent_phone,omitempty"`
	AgentEmail    string `json:"agent_email,omitempty"`
	AgentWebsite  string `json:"agent_website,omitempty"`
	OfficeName    string `json:"office_name,omitempty"`
	OfficePhone   string `json:"office_phone,omitempty"`
	OfficeEmail   string `json:"office_email,omitempty"`
	OfficeWebsite string `json:"office_website,omitempty"`
}

// Address returns the formatted address, or one assembled from its parts.
func (l *Listing) Address() string {
	if l.FormattedAddress != "" {
		return l.FormattedAddress
	}
	var parts []string
	for _, p := range []string{l.AddressLine1, l.AddressLine2, l.City, strings.TrimSpace(l.State + " " + l.ZipCode)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Key identifies the listing: its ID when present, otherwise its address.
func (l *Listing) Key() string {
	if id := strings.TrimSpace(l.ID); id != "" {
		return id
	}
	return l.Address()
}

// HasAgentContact reports whether any agent contact field is set.
func (l *Listing) HasAgentContact() bool {
	return l.AgentName != "" || l.AgentPhone != "" || l.AgentEmail != "" || l.AgentWebsite != ""
}

// HasOfficeContact reports whether any office contact field is set.
func (l *Listing) HasOfficeContact() bool {
	return l.OfficeName != "" || l.OfficePhone != "" || l.OfficeEmail != "" || l.OfficeWebsite != ""
}

// ListingResult is a listing placed on a results page.
type ListingResult struct {
	Position       int      `json:"position"`
	Listing        Listing  `json:"listing"`
	MatchedReasons []string `json:"matched_reasons,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s.
func String(s string) *string { return &s }
