// Package selection tracks which catalog entries are checked for bulk
// operations. The set itself is pure state; the state store embeds it so
// that membership changes land in the same transition as collection changes.
package selection

import "sort"

// Set is a set of product identifiers. The zero value is not ready for use;
// call New.
type Set struct {
	ids map[string]struct{}
}

// New returns an empty selection set.
func New() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Add marks an identifier as selected.
func (s *Set) Add(id string) {
	s.ids[id] = struct{}{}
}

// Remove unmarks an identifier. Removing an absent identifier is a no-op.
func (s *Set) Remove(id string) {
	delete(s.ids, id)
}

// Has reports whether the identifier is selected.
func (s *Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected identifiers.
func (s *Set) Len() int { return len(s.ids) }

// Clear empties the set.
func (s *Set) Clear() {
	s.ids = make(map[string]struct{})
}

// ToggleAll selects every identifier on the current page, or clears the page
// selection when every page identifier is already selected.
func (s *Set) ToggleAll(pageIDs []string) {
	all := len(pageIDs) > 0
	for _, id := range pageIDs {
		if !s.Has(id) {
			all = false
			break
		}
	}
	for _, id := range pageIDs {
		if all {
			delete(s.ids, id)
		} else {
			s.ids[id] = struct{}{}
		}
	}
}

// Retain drops every selected identifier not present in keep, preserving the
// invariant that the selection is a subset of the loaded collection.
func (s *Set) Retain(keep []string) {
	allowed := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		allowed[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := allowed[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// IDs returns the selected identifiers in stable sorted order.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
