// Package catalog implements the product catalog core: the folder-name
// metadata codec, the derived facet pools, the filter engine, and the
// in-memory catalog store built from remote directory listings.
//
// A product is a remote directory whose leaf name encodes price, facet
// values, and display name; the files inside it are the product's images.
// The catalog never persists anything locally - it is rebuilt in full from
// each listing fetch.
package catalog

import (
	"strconv"
	"strings"

	"github.com/stylerack/stylerack/pkg/constants"
)

// Facet identifies one of the four independent classification axes a
// product can carry multiple values of.
type Facet string

// The four facet categories. The order of Facets() is the canonical
// field order inside an encoded folder name.
const (
	FacetStyle  Facet = "style"
	FacetTag    Facet = "tag"
	FacetSeason Facet = "season"
	FacetScene  Facet = "scene"
)

// Facets returns all facet categories in canonical (wire) order.
func Facets() []Facet {
	return []Facet{FacetStyle, FacetTag, FacetSeason, FacetScene}
}

// Image is a single product image hosted remotely.
type Image struct {
	// RemotePath is the full path of the file on the image host,
	// e.g. "服装/100-a-b-c-d-dress/front.jpg". It is the handle used
	// for deletion.
	RemotePath string `json:"remote_path"`

	// FileName is the final path segment of RemotePath.
	FileName string `json:"file_name"`
}

// Product is a decoded, image-bearing catalog entry. A product with zero
// images is never stored.
type Product struct {
	// ID is derived deterministically from Path and is safe for use as a
	// DOM/URL identifier. It is not parseable back into a path.
	ID string `json:"id"`

	// Path is the full remote directory path; unique by construction of
	// the remote filesystem namespace, and the product's store key.
	Path string `json:"path"`

	Price   int      `json:"price"`
	Name    string   `json:"name"`
	Styles  []string `json:"styles"`
	Tags    []string `json:"tags"`
	Seasons []string `json:"seasons"`
	Scenes  []string `json:"scenes"`
	Images  []Image  `json:"images"`
}

// Values returns the product's values for the given facet category.
func (p *Product) Values(f Facet) []string {
	switch f {
	case FacetStyle:
		return p.Styles
	case FacetTag:
		return p.Tags
	case FacetSeason:
		return p.Seasons
	case FacetScene:
		return p.Scenes
	}
	return nil
}

// DisplayPrice returns the price with the currency symbol prepended.
// The symbol is display-only and never stored in folder names.
func (p *Product) DisplayPrice() string {
	return constants.CurrencySymbol + strconv.Itoa(p.Price)
}

// idReplacer maps path characters that are unsafe in identifiers.
// '/' and '.' collapse to '_' first; '-' expands to '__' afterwards so the
// two substitutions cannot collide.
var idReplacer = strings.NewReplacer("/", "_", ".", "_")

// DeriveID derives a stable identifier from a remote directory path.
func DeriveID(path string) string {
	return strings.ReplaceAll(idReplacer.Replace(path), "-", "__")
}

// FacetSet is a string set that remembers insertion order. Encode order of
// facet values equals the order the operator selected them in, so plain
// maps are not enough here.
type FacetSet struct {
	order []string
	seen  map[string]struct{}
}

// NewFacetSet creates a FacetSet containing the given values in order.
func NewFacetSet(values ...string) *FacetSet {
	s := &FacetSet{seen: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts a value, reporting whether it was newly added. Duplicates
// (case-sensitive exact matches) and blank values are no-ops.
func (s *FacetSet) Add(v string) bool {
	if v == "" {
		return false
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Remove deletes a value, reporting whether it was present.
func (s *FacetSet) Remove(v string) bool {
	if _, ok := s.seen[v]; !ok {
		return false
	}
	delete(s.seen, v)
	for i, existing := range s.order {
		if existing == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether the value is in the set.
func (s *FacetSet) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// Values returns the values in insertion order.
func (s *FacetSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of values in the set.
func (s *FacetSet) Len() int {
	return len(s.order)
}

// Clear removes all values.
func (s *FacetSet) Clear() {
	s.order = s.order[:0]
	s.seen = make(map[string]struct{})
}
