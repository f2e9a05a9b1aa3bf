package names

import (
	"sort"
	"strings"
	"unicode"
)

// Normalize lowercases a raw display name, strips punctuation, collapses
// whitespace and returns the token sequence. Deterministic and
// side-effect free; returns nil for names with no letter or digit
// content.
func Normalize(raw string) []string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '\'' || r == '.' || r == ',':
			b.WriteByte(' ')
		}
	}
	fields := strings.Fields(b.String())
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// NormalizeString returns the normalized tokens joined by single spaces.
func NormalizeString(raw string) string {
	return strings.Join(Normalize(raw), " ")
}

// Dictionary resolves informal given-name forms to a canonical
// name-group id. It is immutable once built; extensions return a new
// value.
type Dictionary struct {
	groups map[string]string
}

// NewDictionary builds a dictionary from a formal-name -> variants
// table. The formal name doubles as the group id, and maps to itself.
// A formal name always wins over a variant spelled the same way, and a
// variant listed under several formal names resolves to the
// alphabetically first one, so construction order never changes the
// outcome.
func NewDictionary(table map[string][]string) *Dictionary {
	variants := make(map[string][]string, len(table))
	formals := make([]string, 0, len(table))
	for formal, vs := range table {
		formal = NormalizeString(formal)
		if formal == "" {
			continue
		}
		if _, ok := variants[formal]; !ok {
			formals = append(formals, formal)
		}
		variants[formal] = append(variants[formal], vs...)
	}
	sort.Strings(formals)

	groups := make(map[string]string, len(table)*4)
	for _, formal := range formals {
		groups[formal] = formal
	}
	for _, formal := range formals {
		for _, v := range variants[formal] {
			v = NormalizeString(v)
			if v == "" {
				continue
			}
			if _, claimed := groups[v]; claimed {
				continue
			}
			groups[v] = formal
		}
	}
	return &Dictionary{groups: groups}
}

// Default returns the built-in nickname dictionary.
func Default() *Dictionary {
	return NewDictionary(nicknameTable)
}

// Extend returns a new dictionary with additional formal -> variants
// entries layered over this one. The receiver is not modified.
func (d *Dictionary) Extend(extra map[string][]string) *Dictionary {
	if len(extra) == 0 {
		return d
	}
	merged := make(map[string]string, len(d.groups)+len(extra)*4)
	for token, group := range d.groups {
		merged[token] = group
	}
	overlay := NewDictionary(extra)
	for token, group := range overlay.groups {
		merged[token] = group
	}
	return &Dictionary{groups: merged}
}

// Group returns the canonical group id for a normalized token. Total:
// a token absent from the dictionary is its own group.
func (d *Dictionary) Group(token string) string {
	if group, ok := d.groups[token]; ok {
		return group
	}
	return token
}

// Known reports whether the token has a defined nickname group, as
// opposed to falling back to itself.
func (d *Dictionary) Known(token string) bool {
	_, ok := d.groups[token]
	return ok
}
