package service

import (
	"reflect"
	"testing"

	"rentassist/internal/model"
)

func TestNormalizerNormalize(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		raw  map[string]any
		want model.FilterSet
	}{
		{
			name: "plain fields",
			raw:  map[string]any{"budget_max": "$2,000", "bedrooms": float64(3), "city": "Austin"},
			want: model.FilterSet{
				BudgetMax: model.Float(2000),
				Bedrooms:  &model.NumericFilter{Op: ">=", Value: 3},
				City:      model.String("Austin"),
			},
		},
		{
			name: "aliases and suffixes",
			raw:  map[string]any{"min_price": "1.5k", "max_price": "2k", "propertyType": "apartment", "zipCode": "78701"},
			want: model.FilterSet{
				BudgetMin:    model.Float(1500),
				BudgetMax:    model.Float(2000),
				PropertyType: model.String("apartment"),
				ZipCode:      model.String("78701"),
			},
		},
		{
			name: "nested key_info wins over top level",
			raw: map[string]any{
				"intent":   "search",
				"city":     "Dallas",
				"key_info": map[string]any{"city": "Austin", "state": "Texas"},
			},
			want: model.FilterSet{City: model.String("Austin"), State: model.String("TX")},
		},
		{
			name: "operator phrase in value",
			raw:  map[string]any{"bedrooms": "at most 2", "bathrooms": "2+"},
			want: model.FilterSet{
				Bedrooms:  &model.NumericFilter{Op: "<=", Value: 2},
				Bathrooms: &model.NumericFilter{Op: ">=", Value: 2},
			},
		},
		{
			name: "explicit operator field",
			raw:  map[string]any{"bedrooms": 3, "bedrooms_op": "exactly"},
			want: model.FilterSet{Bedrooms: &model.NumericFilter{Op: "=", Value: 3}},
		},
		{
			name: "unrecognized operator defaults to gte",
			raw:  map[string]any{"bathrooms": 1, "bathrooms_op": "roughly"},
			want: model.FilterSet{Bathrooms: &model.NumericFilter{Op: ">=", Value: 1}},
		},
		{
			name: "max bedrooms implies lte",
			raw:  map[string]any{"max_bedrooms": "2"},
			want: model.FilterSet{Bedrooms: &model.NumericFilter{Op: "<=", Value: 2}},
		},
		{
			name: "unparsable and blank fields are dropped",
			raw:  map[string]any{"budget_max": "cheap", "city": "  ", "state": nil, "bedrooms": "a few", "location": "null"},
			want: model.FilterSet{},
		},
		{
			name: "unknown state passes through upper-cased",
			raw:  map[string]any{"state": "ontario"},
			want: model.FilterSet{State: model.String("ONTARIO")},
		},
		{
			name: "extra filters",
			raw:  map[string]any{"min_sqft": "1,200", "max_hoa": 200, "max_days_on_market": "30"},
			want: model.FilterSet{SqftMin: model.Float(1200), HOAMax: model.Float(200), DaysOnMarketMax: model.Float(30)},
		},
		{name: "nil input", raw: nil, want: model.FilterSet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %s, want %s", got.Summary(), tt.want.Summary())
			}
		})
	}
}

func TestHasFilterFields(t *testing.T) {
	if HasFilterFields(map[string]any{"intent": "general", "urgency": "high"}) {
		t.Error("no filter fields expected")
	}
	if !HasFilterFields(map[string]any{"key_info": map[string]any{"city": "Austin"}}) {
		t.Error("nested city should count")
	}
	if HasFilterFields(map[string]any{"city": ""}) {
		t.Error("blank city should not count")
	}
}
