package utils

import (
	"reflect"
	"testing"
)

func TestResolvePropertyTypes(t *testing.T) {
	available := []string{"Single Family", "Multi-Family", "Condo", "Townhouse", "Manufactured", "Land"}

	tests := []struct {
		name      string
		requested string
		want      []string
	}{
		{"exact after normalization", "multi family", []string{"Multi-Family"}},
		{"case and punctuation", "CONDO!", []string{"Condo"}},
		{"substring of label", "town", []string{"Townhouse"}},
		{"label inside request", "single family home", []string{"Single Family"}},
		{"alias apartment", "apartment", []string{"Multi-Family", "Condo"}},
		{"alias mobile home", "mobile home", []string{"Manufactured"}},
		{"token overlap", "family estate", []string{"Single Family", "Multi-Family"}},
		{"nothing resolves", "castle", nil},
		{"empty request", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePropertyTypes(tt.requested, available)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolvePropertyTypes(%q) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  Multi-Family / Duplex "); got != "multi family duplex" {
		t.Errorf("NormalizeLabel = %q", got)
	}
}
