package model

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// NumericFilter is a value with one of the canonical operators
// ">=", "<=", ">", "<", "=".
type NumericFilter struct {
	Op    string  `json:"op"`
	Value float64 `json:"value"`
}

// FilterSet holds a user's active search predicates. A nil field is inactive.
type FilterSet struct {
	BudgetMin       *float64       `json:"budget_min,omitempty"`
	BudgetMax       *float64       `json:"budget_max,omitempty"`
	Bedrooms        *NumericFilter `json:"bedrooms,omitempty"`
	Bathrooms       *NumericFilter `json:"bathrooms,omitempty"`
	City            *string        `json:"city,omitempty"`
	State           *string        `json:"state,omitempty"`
	Location        *string        `json:"location,omitempty"`
	PropertyType    *string        `json:"property_type,omitempty"`
	ZipCode         *string        `json:"zip_code,omitempty"`
	SqftMin         *float64       `json:"sqft_min,omitempty"`
	HOAMax          *float64       `json:"hoa_max,omitempty"`
	DaysOnMarketMax *float64       `json:"days_on_market_max,omitempty"`
}

// Merge layers incoming on top of f: every non-nil incoming field replaces
// the current value, nil fields leave it untouched.
func (f FilterSet) Merge(incoming FilterSet) FilterSet {
	out := f
	if incoming.BudgetMin != nil {
		out.BudgetMin = incoming.BudgetMin
	}
	if incoming.BudgetMax != nil {
		out.BudgetMax = incoming.BudgetMax
	}
	if incoming.Bedrooms != nil {
		out.Bedrooms = incoming.Bedrooms
	}
	if incoming.Bathrooms != nil {
		out.Bathrooms = incoming.Bathrooms
	}
	if incoming.City != nil {
		out.City = incoming.City
	}
	if incoming.State != nil {
		out.State = incoming.State
	}
	if incoming.Location != nil {
		out.Location = incoming.Location
	}
	if incoming.PropertyType != nil {
		out.PropertyType = incoming.PropertyType
	}
	if incoming.ZipCode != nil {
		out.ZipCode = incoming.ZipCode
	}
	if incoming.SqftMin != nil {
		out.SqftMin = incoming.SqftMin
	}
	if incoming.HOAMax != nil {
		out.HOAMax = incoming.HOAMax
	}
	if incoming.DaysOnMarketMax != nil {
		out.DaysOnMarketMax = incoming.DaysOnMarketMax
	}
	return out
}

// IsEmpty reports whether no predicate is active.
func (f FilterSet) IsEmpty() bool {
	return f == FilterSet{}
}

// Summary restates the active predicates in plain words.
func (f FilterSet) Summary() string {
	var parts []string
	switch {
	case f.BudgetMin != nil && f.BudgetMax != nil:
		parts = append(parts, fmt.Sprintf("price $%s-$%s", humanize.Commaf(*f.BudgetMin), humanize.Commaf(*f.BudgetMax)))
	case f.BudgetMin != nil:
		parts = append(parts, fmt.Sprintf("price at least $%s", humanize.Commaf(*f.BudgetMin)))
	case f.BudgetMax != nil:
		parts = append(parts, fmt.Sprintf("price up to $%s", humanize.Commaf(*f.BudgetMax)))
	}
	if f.Bedrooms != nil {
		parts = append(parts, fmt.Sprintf("bedrooms %s %s", f.Bedrooms.Op, humanize.Ftoa(f.Bedrooms.Value)))
	}
	if f.Bathrooms != nil {
		parts = append(parts, fmt.Sprintf("bathrooms %s %s", f.Bathrooms.Op, humanize.Ftoa(f.Bathrooms.Value)))
	}
	if f.PropertyType != nil {
		parts = append(parts, "type "+*f.PropertyType)
	}
	if f.City != nil {
		parts = append(parts, "city "+*f.City)
	}
	if f.State != nil {
		parts = append(parts, "state "+*f.State)
	}
	if f.Location != nil {
		parts = append(parts, "near "+*f.Location)
	}
	if f.ZipCode != nil {
		parts = append(parts, "zip "+*f.ZipCode)
	}
	if f.SqftMin != nil {
		parts = append(parts, fmt.Sprintf("at least %s sqft", humanize.Commaf(*f.SqftMin)))
	}
	if f.HOAMax != nil {
		parts = append(parts, fmt.Sprintf("HOA up to $%s", humanize.Commaf(*f.HOAMax)))
	}
	if f.DaysOnMarketMax != nil {
		parts = append(parts, fmt.Sprintf("listed within %s days", humanize.Ftoa(*f.DaysOnMarketMax)))
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, ", ")
}
