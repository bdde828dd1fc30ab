package utils

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCriteriaJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "plain object",
			input: `{"city": "Austin", "bedrooms": 3}`,
			want:  map[string]any{"city": "Austin", "bedrooms": float64(3)},
		},
		{
			name:  "markdown fence",
			input: "```json\n{\"budget_max\": \"$2,000\"}\n```",
			want:  map[string]any{"budget_max": "$2,000"},
		},
		{
			name:  "surrounded by prose",
			input: `Sure! Here are the filters: {"state": "TX", "key_info": {"city": "Dallas"}} Let me know.`,
			want:  map[string]any{"state": "TX", "key_info": map[string]any{"city": "Dallas"}},
		},
		{
			name:  "trailing comma",
			input: `{"city": "Austin",}`,
			want:  map[string]any{"city": "Austin"},
		},
		{
			name:  "unquoted keys",
			input: `{city: "Austin", bedrooms: 2}`,
			want:  map[string]any{"city": "Austin", "bedrooms": float64(2)},
		},
		{
			name:  "single quotes",
			input: `{'city': 'Austin'}`,
			want:  map[string]any{"city": "Austin"},
		},
		{
			name:  "brace inside string",
			input: `note {"location": "a {weird} place"} end`,
			want:  map[string]any{"location": "a {weird} place"},
		},
		{name: "empty", input: "  ", wantErr: true},
		{name: "no object", input: "no filters here", wantErr: true},
		{name: "array is not criteria", input: `[1, 2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCriteriaJSON(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCriteriaJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrNoCriteria) {
					t.Errorf("error %v does not wrap ErrNoCriteria", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCriteriaJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}
