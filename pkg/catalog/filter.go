package catalog

import (
	"sort"
	"sync"
)

// Filter holds the active facet selections for the gallery view. Selection
// within a category is OR'd; across categories AND'd. An empty selection
// set for a category means "no constraint" for that category, never
// "matches nothing".
type Filter struct {
	mu       sync.RWMutex
	selected map[Facet]map[string]struct{}
}

// NewFilter creates a filter with no active selections.
func NewFilter() *Filter {
	f := &Filter{selected: make(map[Facet]map[string]struct{}, 4)}
	for _, c := range Facets() {
		f.selected[c] = make(map[string]struct{})
	}
	return f
}

// Toggle flips membership of a concrete value in a category's selection
// set and reports whether the value is selected afterwards.
func (f *Filter) Toggle(c Facet, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	set := f.selected[c]
	if set == nil {
		set = make(map[string]struct{})
		f.selected[c] = set
	}
	if _, ok := set[value]; ok {
		delete(set, value)
		return false
	}
	set[value] = struct{}{}
	return true
}

// Clear empties one category's selection set. This is the "all" sentinel:
// it is not a facet value, and selecting it while concrete selections
// exist drops them all.
func (f *Filter) Clear(c Facet) {
	f.mu.Lock()
	f.selected[c] = make(map[string]struct{})
	f.mu.Unlock()
}

// Reset empties every category's selection set.
func (f *Filter) Reset() {
	f.mu.Lock()
	for _, c := range Facets() {
		f.selected[c] = make(map[string]struct{})
	}
	f.mu.Unlock()
}

// IsActive reports whether a concrete value is currently selected.
func (f *Filter) IsActive(c Facet, value string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.selected[c][value]
	return ok
}

// Selected returns one category's selected values, sorted.
func (f *Filter) Selected(c Facet) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	values := make([]string, 0, len(f.selected[c]))
	for v := range f.selected[c] {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// IsEmpty reports whether no category has an active selection.
func (f *Filter) IsEmpty() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, set := range f.selected {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

// Matches reports whether a product satisfies the filter: for every
// category, either that category has no selection or the product's values
// intersect the selection non-emptily.
func (f *Filter) Matches(p *Product) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, c := range Facets() {
		set := f.selected[c]
		if len(set) == 0 {
			continue
		}
		if !intersects(p.Values(c), set) {
			return false
		}
	}
	return true
}

// Apply returns the products satisfying the filter, preserving the
// catalog's original relative order. An empty result is a valid state,
// not an error.
func (f *Filter) Apply(products []*Product) []*Product {
	filtered := make([]*Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func intersects(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
