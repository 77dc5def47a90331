// Package query implements the list filtering shared by the API and the
// client: a free-text search term plus categorical filters, combined with
// logical AND, applied as a pure pass over an in-memory collection.
package query

import "strings"

// All is the sentinel filter value meaning "filter disabled".
const All = "all"

// Searchable is implemented by every resource type that can be filtered.
type Searchable interface {
	// SearchFields returns the field values the text search matches against.
	SearchFields() []string
	// Attribute returns the value of a categorical attribute, or "" when the
	// type has no such attribute.
	Attribute(name string) string
}

// State is the transient filter state: a search term plus categorical
// selections. The zero value matches everything.
type State struct {
	Search  string
	Filters map[string]string
}

// Active reports whether any predicate would actually exclude something.
func (s State) Active() bool {
	if strings.TrimSpace(s.Search) != "" {
		return true
	}
	for _, v := range s.Filters {
		if v != "" && v != All {
			return true
		}
	}
	return false
}

// Matches reports whether a single resource satisfies every active predicate.
func Matches(r Searchable, s State) bool {
	if term := strings.ToLower(strings.TrimSpace(s.Search)); term != "" {
		found := false
		for _, f := range r.SearchFields() {
			if f != "" && strings.Contains(strings.ToLower(f), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for name, want := range s.Filters {
		if want == "" || want == All {
			continue
		}
		if r.Attribute(name) != want {
			return false
		}
	}
	return true
}

// Apply returns the ordered sub-sequence of items satisfying the filter
// state. The input is never mutated and relative order is preserved.
func Apply[T Searchable](items []T, s State) []T {
	if !s.Active() {
		result := make([]T, len(items))
		copy(result, items)
		return result
	}
	result := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(item, s) {
			result = append(result, item)
		}
	}
	return result
}
