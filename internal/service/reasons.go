package service

import (
	"rentassist/internal/model"
)

// Match reason constants
const (
	ReasonPriceMatch     = "Price within budget"
	ReasonBedroomsMatch  = "Bedrooms match"
	ReasonBathroomsMatch = "Bathrooms match"
	ReasonTypeMatch      = "Property type match"
	ReasonLocationMatch  = "Location match"
	ReasonSizeMatch      = "Size match"
	ReasonLowHOA         = "HOA within limit"
	ReasonFreshListing   = "Recently listed"
	ReasonFavorite       = "Saved to favorites"
	ReasonGeneralMatch   = "General match"
)

// freshListingDays marks listings new enough to call out.
const freshListingDays = 7

// ExplainMatch lists the human-readable reasons a listing is on the page.
func ExplainMatch(l model.Listing, f model.FilterSet) []string {
	reasons := []string{}

	if (f.BudgetMin != nil || f.BudgetMax != nil) && l.Price != nil {
		reasons = append(reasons, ReasonPriceMatch)
	}
	if f.Bedrooms != nil && l.Bedrooms != nil {
		reasons = append(reasons, ReasonBedroomsMatch)
	}
	if f.Bathrooms != nil && l.Bathrooms != nil {
		reasons = append(reasons, ReasonBathroomsMatch)
	}
	if f.PropertyType != nil && l.PropertyType != "" {
		reasons = append(reasons, ReasonTypeMatch)
	}
	if f.City != nil || f.State != nil || f.Location != nil || f.ZipCode != nil {
		reasons = append(reasons, ReasonLocationMatch)
	}
	if f.SqftMin != nil && l.SquareFootage != nil {
		reasons = append(reasons, ReasonSizeMatch)
	}
	if f.HOAMax != nil && l.HOAFee != nil {
		reasons = append(reasons, ReasonLowHOA)
	}
	if l.DaysOnMarket != nil && *l.DaysOnMarket <= freshListingDays {
		reasons = append(reasons, ReasonFreshListing)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}
	return reasons
}

// rankPage numbers a page from 1 and attaches match reasons.
func rankPage(page []model.Listing, f model.FilterSet, favorites []string) []model.ListingResult {
	fav := make(map[string]bool, len(favorites))
	for _, k := range favorites {
		fav[k] = true
	}
	out := make([]model.ListingResult, 0, len(page))
	for i, l := range page {
		reasons := ExplainMatch(l, f)
		if fav[l.Key()] {
			reasons = append(reasons, ReasonFavorite)
		}
		out = append(out, model.ListingResult{Position: i + 1, Listing: l, MatchedReasons: reasons})
	}
	return out
}
