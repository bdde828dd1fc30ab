package model

import (
	"strconv"
	"strings"
)

// Field describes a listing attribute that can be sorted on, compared or
// shown in a details view.
type Field struct {
	Name    string
	Label   string
	Numeric bool
	number  func(*Listing) *float64
	text    func(*Listing) string
}

// Number returns the numeric value, or nil for text fields and absent values.
func (f Field) Number(l *Listing) *float64 {
	if f.number == nil {
		return nil
	}
	return f.number(l)
}

// Text returns the value as displayed; empty when absent.
func (f Field) Text(l *Listing) string {
	if f.text != nil {
		return f.text(l)
	}
	if v := f.Number(l); v != nil {
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return ""
}

var fields = []Field{
	{Name: "price", Label: "Price", Numeric: true, number: func(l *Listing) *float64 { return l.Price }},
	{Name: "bedrooms", Label: "Bedrooms", Numeric: true, number: func(l *Listing) *float64 { return l.Bedrooms }},
	{Name: "bathrooms", Label: "Bathrooms", Numeric: true, number: func(l *Listing) *float64 { return l.Bathrooms }},
	{Name: "square_footage", Label: "Square footage", Numeric: true, number: func(l *Listing) *float64 { return l.SquareFootage }},
	{Name: "lot_size", Label: "Lot size", Numeric: true, number: func(l *Listing) *float64 { return l.LotSize }},
	{Name: "year_built", Label: "Year built", Numeric: true, number: func(l *Listing) *float64 { return l.YearBuilt }},
	{Name: "days_on_market", Label: "Days on market", Numeric: true, number: func(l *Listing) *float64 { return l.DaysOnMarket }},
	{Name: "hoa_fee", Label: "HOA fee", Numeric: true, number: func(l *Listing) *float64 { return l.HOAFee }},
	{Name: "address", Label: "Address", text: func(l *Listing) string { return l.Address() }},
	{Name: "city", Label: "City", text: func(l *Listing) string { return l.City }},
	{Name: "state", Label: "State", text: func(l *Listing) string { return l.State }},
	{Name: "zip_code", Label: "Zip code", text: func(l *Listing) string { return l.ZipCode }},
	{Name: "county", Label: "County", text: func(l *Listing) string { return l.County }},
	{Name: "property_type", Label: "Property type", text: func(l *Listing) string { return l.PropertyType }},
	{Name: "status", Label: "Status", text: func(l *Listing) string { return l.Status }},
	{Name: "listing_type", Label: "Listing type", text: func(l *Listing) string { return l.ListingType }},
	{Name: "listed_date", Label: "Listed date", text: func(l *Listing) string { return l.ListedDate }},
	{Name: "mls_number", Label: "MLS number", text: func(l *Listing) string { return l.MLSNumber }},
	{Name: "agent_name", Label: "Agent", text: func(l *Listing) string { return l.AgentName }},
	{Name: "agent_phone", Label: "Agent phone", text: func(l *Listing) string { return l.AgentPhone }},
	{Name: "agent_email", Label: "Agent email", text: func(l *Listing) string { return l.AgentEmail }},
	{Name: "agent_website", Label: "Agent website", text: func(l *Listing) string { return l.AgentWebsite }},
	{Name: "office_name", Label: "Office", text: func(l *Listing) string { return l.OfficeName }},
	{Name: "office_phone", Label: "Office phone", text: func(l *Listing) string { return l.OfficePhone }},
	{Name: "office_email", Label: "Office email", text: func(l *Listing) string { return l.OfficeEmail }},
	{Name: "office_website", Label: "Office website", text: func(l *Listing) string { return l.OfficeWebsite }},
}

var fieldAliases = map[string]string{
	"rent":           "price",
	"cost":           "price",
	"beds":           "bedrooms",
	"bedroom":        "bedrooms",
	"bed":            "bedrooms",
	"baths":          "bathrooms",
	"bathroom":       "bathrooms",
	"bath":           "bathrooms",
	"sqft":           "square_footage",
	"square feet":    "square_footage",
	"square footage": "square_footage",
	"squarefootage":  "square_footage",
	"size":           "square_footage",
	"area":           "square_footage",
	"lot":            "lot_size",
	"year":           "year_built",
	"age":            "year_built",
	"dom":            "days_on_market",
	"days":           "days_on_market",
	"hoa":            "hoa_fee",
	"zip":            "zip_code",
	"zipcode":        "zip_code",
	"type":           "property_type",
	"propertytype":   "property_type",
	"agent":          "agent_name",
	"office":         "office_name",
}

// LookupField resolves a field name or alias, case-insensitively.
func LookupField(name string) (Field, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(name, "_", " "))), " ")
	if alias, ok := fieldAliases[key]; ok {
		key = alias
	}
	key = strings.ReplaceAll(key, " ", "_")
	for _, f := range fields {
		if f.Name == key {
			return f, true
		}
	}
	return Field{}, false
}

// SortableFields lists the field names accepted by sort and compare.
func SortableFields() []string {
	names := make([]string, 0, 12)
	for _, f := range fields {
		if f.Numeric || f.Name == "address" || f.Name == "city" || f.Name == "state" || f.Name == "zip_code" || f.Name == "property_type" {
			names = append(names, f.Name)
		}
	}
	return names
}

// Fields returns every known field in display order.
func Fields() []Field { return fields }
