package model

import (
	"reflect"
	"strings"
	"testing"
)

func TestFilterSetMerge(t *testing.T) {
	prior := FilterSet{
		City:     String("Austin"),
		Bedrooms: &NumericFilter{Op: ">=", Value: 3},
	}

	tests := []struct {
		name     string
		incoming FilterSet
		want     FilterSet
	}{
		{
			name:     "nil fields preserve prior",
			incoming: FilterSet{BudgetMax: Float(2000)},
			want: FilterSet{
				City:      String("Austin"),
				Bedrooms:  &NumericFilter{Op: ">=", Value: 3},
				BudgetMax: Float(2000),
			},
		},
		{
			name:     "present fields overwrite",
			incoming: FilterSet{City: String("Dallas"), Bedrooms: &NumericFilter{Op: "=", Value: 2}},
			want: FilterSet{
				City:     String("Dallas"),
				Bedrooms: &NumericFilter{Op: "=", Value: 2},
			},
		},
		{
			name:     "empty incoming is a no-op",
			incoming: FilterSet{},
			want:     prior,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prior.Merge(tt.incoming)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFilterSetMergeIdempotent(t *testing.T) {
	a := FilterSet{State: String("TX")}
	b := FilterSet{BudgetMin: Float(1000), PropertyType: String("condo")}
	once := a.Merge(b)
	twice := once.Merge(b)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging twice changed the result: %+v vs %+v", once, twice)
	}
}

func TestFilterSetSummary(t *testing.T) {
	if got := (FilterSet{}).Summary(); got != "no filters" {
		t.Errorf("empty Summary() = %q", got)
	}
	f := FilterSet{
		BudgetMax: Float(2000),
		Bedrooms:  &NumericFilter{Op: ">=", Value: 3},
		City:      String("Austin"),
	}
	got := f.Summary()
	for _, want := range []string{"price up to $2,000", "bedrooms >= 3", "city Austin"} {
		if !strings.Contains(got, want) {
			t.Errorf("Summary() = %q, missing %q", got, want)
		}
	}
	if f.IsEmpty() || !(FilterSet{}).IsEmpty() {
		t.Error("IsEmpty misreports")
	}
}
