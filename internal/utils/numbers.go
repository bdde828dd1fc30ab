package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`^\$?\s*(-?[0-9][0-9,]*(?:\.[0-9]+)?|-?\.[0-9]+)\s*([kKmM])?$`)

// ParseNumber converts a loosely formatted numeric value into a float.
// Accepts bare numbers, "$1,500", "2k", "1.2m". Returns false for anything else.
func ParseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		return parseNumberString(n)
	}
	return 0, false
}

func parseNumberString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "k":
		f *= 1_000
	case "m":
		f *= 1_000_000
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Canonical comparison operators.
const (
	OpGTE = ">="
	OpLTE = "<="
	OpGT  = ">"
	OpLT  = "<"
	OpEQ  = "="
)

// operatorPhrases is checked in order, so longer phrases come before
// the shorter phrases they contain ("at least" before "least").
var operatorPhrases = []struct {
	phrase string
	op     string
}{
	{"greater than or equal", OpGTE},
	{"less than or equal", OpLTE},
	{"no more than", OpLTE},
	{"no less than", OpGTE},
	{"not more than", OpLTE},
	{"not less than", OpGTE},
	{"more than", OpGT},
	{"greater than", OpGT},
	{"less than", OpLT},
	{"fewer than", OpLT},
	{"at least", OpGTE},
	{"at most", OpLTE},
	{"or more", OpGTE},
	{"or less", OpLTE},
	{"or fewer", OpLTE},
	{"up to", OpLTE},
	{"minimum", OpGTE},
	{"maximum", OpLTE},
	{"exactly", OpEQ},
	{"equal", OpEQ},
	{"over", OpGT},
	{"above", OpGT},
	{"under", OpLT},
	{"below", OpLT},
	{"gte", OpGTE},
	{"lte", OpLTE},
	{"min", OpGTE},
	{"max", OpLTE},
	{"gt", OpGT},
	{"lt", OpLT},
	{"eq", OpEQ},
	{">=", OpGTE},
	{"=>", OpGTE},
	{"<=", OpLTE},
	{"=<", OpLTE},
	{"==", OpEQ},
	{"+", OpGTE},
	{">", OpGT},
	{"<", OpLT},
	{"=", OpEQ},
}

var (
	wordPhrase   = regexp.MustCompile(`^[a-z ]+$`)
	firstNumeral = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

// ParseOperator maps an operator phrase to its canonical symbol.
// The second return is false when no phrase is recognized.
func ParseOperator(text string) (string, bool) {
	t := " " + strings.Join(strings.Fields(strings.ToLower(text)), " ") + " "
	if strings.TrimSpace(t) == "" {
		return "", false
	}
	for _, p := range operatorPhrases {
		if wordPhrase.MatchString(p.phrase) {
			if strings.Contains(t, " "+p.phrase+" ") {
				return p.op, true
			}
			continue
		}
		if strings.Contains(t, p.phrase) {
			return p.op, true
		}
	}
	return "", false
}

// ParseComparison reads a value that may carry its own operator phrase,
// such as "3+", "at least 2" or ">= 4". Without a phrase the operator is ">=".
func ParseComparison(v any) (float64, string, bool) {
	if s, ok := v.(string); ok {
		num := firstNumeral.FindString(s)
		if num == "" {
			return 0, "", false
		}
		f, ok := ParseNumber(num)
		if !ok {
			return 0, "", false
		}
		rest := strings.Replace(s, num, " ", 1)
		if op, ok := ParseOperator(rest); ok {
			return f, op, true
		}
		return f, OpGTE, true
	}
	f, ok := ParseNumber(v)
	if !ok {
		return 0, "", false
	}
	return f, OpGTE, true
}

// Compare applies a canonical operator.
func Compare(actual float64, op string, want float64) bool {
	switch op {
	case OpLTE:
		return actual <= want
	case OpGT:
		return actual > want
	case OpLT:
		return actual < want
	case OpEQ:
		return actual == want
	default:
		return actual >= want
	}
}
