package service

import (
	"strconv"
	"strings"

	"rentassist/internal/model"
	"rentassist/internal/utils"
)

// Keys that may wrap the criteria object in upstream output.
var nestedCriteriaKeys = []string{"keyinfo", "criteria", "filters"}

var (
	budgetMinKeys    = []string{"budgetmin", "minprice", "pricemin", "minbudget", "minrent"}
	budgetMaxKeys    = []string{"budgetmax", "maxprice", "pricemax", "budget", "maxbudget", "maxrent"}
	cityKeys         = []string{"city", "town"}
	stateKeys        = []string{"state"}
	locationKeys     = []string{"location", "area", "neighborhood", "neighbourhood", "place"}
	propertyTypeKeys = []string{"propertytype", "type", "hometype", "unittype"}
	zipKeys          = []string{"zipcode", "zip", "postalcode"}
	sqftMinKeys      = []string{"sqftmin", "minsqft", "minsquarefootage", "squarefootagemin"}
	hoaMaxKeys       = []string{"hoamax", "maxhoa", "maxhoafee"}
	domMaxKeys       = []string{"daysonmarketmax", "maxdaysonmarket", "maxdom"}
)

type comparisonKeys struct {
	value   []string
	implied map[string]string
	op      []string
}

var (
	bedroomKeys = comparisonKeys{
		value:   []string{"bedrooms", "beds", "bedroom", "minbedrooms", "maxbedrooms"},
		implied: map[string]string{"minbedrooms": utils.OpGTE, "maxbedrooms": utils.OpLTE},
		op:      []string{"bedroomsop", "bedroomsoperator", "bedsop", "bedroomop"},
	}
	bathroomKeys = comparisonKeys{
		value:   []string{"bathrooms", "baths", "bathroom", "minbathrooms", "maxbathrooms"},
		implied: map[string]string{"minbathrooms": utils.OpGTE, "maxbathrooms": utils.OpLTE},
		op:      []string{"bathroomsop", "bathroomsoperator", "bathsop", "bathroomop"},
	}
)

// Normalizer turns loosely structured criteria into a FilterSet.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize never fails: fields it cannot interpret are left out.
func (n *Normalizer) Normalize(raw map[string]any) model.FilterSet {
	fields := flattenCriteria(raw)
	var f model.FilterSet

	if v, ok := firstNumber(fields, budgetMinKeys); ok {
		f.BudgetMin = &v
	}
	if v, ok := firstNumber(fields, budgetMaxKeys); ok {
		f.BudgetMax = &v
	}
	f.Bedrooms = comparison(fields, bedroomKeys)
	f.Bathrooms = comparison(fields, bathroomKeys)

	if s, ok := firstText(fields, cityKeys); ok {
		f.City = &s
	}
	if s, ok := firstText(fields, stateKeys); ok {
		s = utils.NormalizeState(s)
		f.State = &s
	}
	if s, ok := firstText(fields, locationKeys); ok {
		f.Location = &s
	}
	if s, ok := firstText(fields, propertyTypeKeys); ok {
		f.PropertyType = &s
	}
	if s, ok := firstText(fields, zipKeys); ok {
		f.ZipCode = &s
	} else if v, ok := firstNumber(fields, zipKeys); ok {
		s := strconv.FormatFloat(v, 'f', 0, 64)
		f.ZipCode = &s
	}
	if v, ok := firstNumber(fields, sqftMinKeys); ok {
		f.SqftMin = &v
	}
	if v, ok := firstNumber(fields, hoaMaxKeys); ok {
		f.HOAMax = &v
	}
	if v, ok := firstNumber(fields, domMaxKeys); ok {
		f.DaysOnMarketMax = &v
	}
	return f
}

// HasFilterFields reports whether raw carries at least one filter field,
// interpretable or not.
func HasFilterFields(raw map[string]any) bool {
	fields := flattenCriteria(raw)
	for _, group := range [][]string{
		budgetMinKeys, budgetMaxKeys, bedroomKeys.value, bathroomKeys.value, cityKeys, stateKeys,
		locationKeys, propertyTypeKeys, zipKeys, sqftMinKeys, hoaMaxKeys, domMaxKeys,
	} {
		for _, k := range group {
			if v, ok := fields[k]; ok && !blank(v) {
				return true
			}
		}
	}
	return false
}

func squashKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("_", "", "-", "", " ", "", ".", "").Replace(k)
}

// flattenCriteria lifts nested criteria objects to the top level and
// squashes every key. Nested values win over top-level ones.
func flattenCriteria(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[squashKey(k)] = v
	}
	for _, nk := range nestedCriteriaKeys {
		nested, ok := out[nk].(map[string]any)
		if !ok {
			continue
		}
		for k, v := range nested {
			if !blank(v) {
				out[squashKey(k)] = v
			}
		}
	}
	return out
}

func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "null", "none", "any", "n/a", "unknown":
			return true
		}
	}
	return false
}

func firstNumber(fields map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && !blank(v) {
			if f, ok := utils.ParseNumber(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func firstText(fields map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && !blank(s) {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

func comparison(fields map[string]any, keys comparisonKeys) *model.NumericFilter {
	for _, k := range keys.value {
		v, ok := fields[k]
		if !ok || blank(v) {
			continue
		}
		value, op, ok := utils.ParseComparison(v)
		if !ok {
			continue
		}
		if implied, ok := keys.implied[k]; ok && !hasOwnOperator(v) {
			op = implied
		}
		for _, opKey := range keys.op {
			if s, isStr := fields[opKey].(string); isStr {
				if explicit, found := utils.ParseOperator(s); found {
					op = explicit
					break
				}
			}
		}
		return &model.NumericFilter{Op: op, Value: value}
	}
	return nil
}

func hasOwnOperator(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, found := utils.ParseOperator(firstNumeralStripped(s))
	return found
}

func firstNumeralStripped(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' {
			return ' '
		}
		return r
	}, s)
}
