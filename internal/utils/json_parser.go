package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedBlock   = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.+?)\\s*```")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	bareKey       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)
	controlChars  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ErrNoCriteria is returned when no JSON object can be recovered.
var ErrNoCriteria = errors.New("no criteria object found")

// ParseCriteriaJSON recovers a JSON object from model output. The text may be
// plain JSON, fenced in a markdown block, embedded in prose, or carry the usual
// slips (trailing commas, unquoted keys, single-quoted strings).
func ParseCriteriaJSON(input string) (map[string]any, error) {
	input = strings.TrimPrefix(strings.TrimSpace(input), "\ufeff")
	if input == "" {
		return nil, ErrNoCriteria
	}

	candidates := []string{input}
	if m := fencedBlock.FindStringSubmatch(input); len(m) > 1 {
		candidates = append(candidates, m[1])
	}
	if start := strings.IndexByte(input, '{'); start >= 0 {
		if obj := balancedObject(input[start:]); obj != "" {
			candidates = append(candidates, obj)
		}
	}

	for _, c := range candidates {
		if out, ok := decodeObject(c); ok {
			return out, nil
		}
	}
	for _, c := range candidates {
		if out, ok := decodeObject(repairJSON(c)); ok {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w in %q", ErrNoCriteria, clip(input, 80))
}

func decodeObject(s string) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return nil, false
	}
	return out, true
}

// balancedObject returns the first {...} span with balanced braces,
// ignoring braces inside string literals.
func balancedObject(s string) string {
	depth := 0
	inString, escaped := false, false
	for i, ch := range s {
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func repairJSON(s string) string {
	s = trailingComma.ReplaceAllString(s, "$1")
	s = singleToDoubleQuotes(s)
	s = bareKey.ReplaceAllString(s, `$1"$2"$3`)
	return controlChars.ReplaceAllString(s, "")
}

// singleToDoubleQuotes swaps quote characters that open or close a value,
// leaving apostrophes inside words and double-quoted strings alone.
func singleToDoubleQuotes(s string) string {
	var b strings.Builder
	inDouble, escaped := false, false
	runes := []rune(s)
	for i, ch := range runes {
		if escaped {
			escaped = false
			b.WriteRune(ch)
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
		case ch == '"':
			inDouble = !inDouble
		case ch == '\'' && !inDouble && quoteBoundary(runes, i):
			ch = '"'
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func quoteBoundary(runes []rune, i int) bool {
	prev, next := ' ', ' '
	for j := i - 1; j >= 0; j-- {
		if runes[j] != ' ' {
			prev = runes[j]
			break
		}
	}
	for j := i + 1; j < len(runes); j++ {
		if runes[j] != ' ' {
			next = runes[j]
			break
		}
	}
	return strings.ContainsRune("{[,:", prev) || strings.ContainsRune("}],:", next)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
