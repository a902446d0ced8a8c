package svgdom

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Style holds one parsed inline style declaration. Values that parse as
// numbers are stored as float64, everything else as lower-cased strings.
type Style map[string]interface{}

// ParseStyle parses a "key: value; key: value" declaration. Fragments
// without a separator, key or value are skipped.
func ParseStyle(text string) Style {
	st := Style{}
	for _, decl := range strings.Split(text, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(k))
		val := strings.ToLower(strings.TrimSpace(v))
		if key == "" || val == "" {
			continue
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			st[key] = f
		} else {
			st[key] = val
		}
	}
	return st
}

// Has reports whether the declaration sets the property.
func (s Style) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Float returns the numeric value for key when it parsed as a number.
func (s Style) Float(key string) (float64, bool) {
	f, ok := s[key].(float64)
	return f, ok
}

// Str returns the string value for key, or "" when absent or numeric.
func (s Style) Str(key string) string {
	v, _ := s[key].(string)
	return v
}

// Length returns the value for key as a number, stripping a trailing unit
// when the value kept one.
func (s Style) Length(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := ParseLength(v)
		return f, err == nil
	}
	return 0, false
}

var translateRe = regexp.MustCompile(`^\s*translate\(\s*([^,()\s]+)\s*,\s*([^,()\s]+)\s*\)\s*$`)

// ParseTranslate extracts the offset from a "translate(x, y)" transform.
// Any other transform text, including compositions with further functions
// and none at all, yields (0, 0).
func ParseTranslate(text string) (dx, dy float64) {
	m := translateRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0
	}
	dx, errX := strconv.ParseFloat(m[1], 64)
	dy, errY := strconv.ParseFloat(m[2], 64)
	if errX != nil || errY != nil {
		return 0, 0
	}
	return dx, dy
}

// ParseLength parses a numeric attribute that may carry a unit suffix
// ("2px", "16pt", "50%"). On failure it returns 0 and an error for the
// caller to log; geometry degrades to zero rather than aborting.
func ParseLength(text string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("svgdom: invalid length %q", text)
	}
	return f, nil
}

// Fields splits a point list attribute on commas and whitespace.
func Fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
