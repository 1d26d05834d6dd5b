package catalog

import (
	"sort"
	"sync"
)

// Pool is the derived, per-category collection of every facet value seen
// across the product set, plus any ad-hoc values an operator has typed but
// not yet persisted remotely. Values are kept sorted lexicographically.
//
// The pool is recomputed in full on every catalog rebuild; catalogs are
// small enough that incremental maintenance is not worth the bookkeeping.
type Pool struct {
	mu     sync.RWMutex
	values map[Facet][]string
}

// NewPool creates an empty facet pool.
func NewPool() *Pool {
	return &Pool{values: make(map[Facet][]string)}
}

// Rebuild replaces the pool contents with the distinct facet values
// observed across the given products. Ad-hoc values not yet attached to
// any product are discarded by a rebuild, matching a fresh catalog load.
func (p *Pool) Rebuild(products []*Product) {
	fresh := make(map[Facet][]string, len(p.values))
	for _, f := range Facets() {
		seen := make(map[string]struct{})
		var values []string
		for _, product := range products {
			for _, v := range product.Values(f) {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				values = append(values, v)
			}
		}
		sort.Strings(values)
		fresh[f] = values
	}

	p.mu.Lock()
	p.values = fresh
	p.mu.Unlock()
}

// Add inserts an ad-hoc value into one category, keeping the category
// sorted. Inserting a case-sensitive exact duplicate of an existing value
// is a no-op; Add reports whether the value was newly inserted.
func (p *Pool) Add(f Facet, value string) bool {
	if value == "" {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	existing := p.values[f]
	for _, v := range existing {
		if v == value {
			return false
		}
	}
	existing = append(existing, value)
	sort.Strings(existing)
	p.values[f] = existing
	return true
}

// Values returns the sorted values for one category.
func (p *Pool) Values(f Facet) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, len(p.values[f]))
	copy(out, p.values[f])
	return out
}

// All returns the sorted values for every category.
func (p *Pool) All() map[Facet][]string {
	out := make(map[Facet][]string, 4)
	for _, f := range Facets() {
		out[f] = p.Values(f)
	}
	return out
}
