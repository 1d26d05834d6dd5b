package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newFileCollator returns a collator that orders digit runs by numeric
// value, so "img2.jpg" sorts before "img10.jpg". Collators buffer
// internally and are not safe for concurrent use, hence one per call site.
func newFileCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric)
}

// CompareFileNames compares two filenames under numeric-aware collation.
// It returns -1, 0, or +1 following the usual comparison convention.
func CompareFileNames(a, b string) int {
	return newFileCollator().CompareString(a, b)
}

// SortImages sorts a product's images in place by filename under
// numeric-aware collation. The resulting order is invariant under input
// order permutation.
func SortImages(images []Image) {
	c := newFileCollator()
	sort.SliceStable(images, func(i, j int) bool {
		return c.CompareString(images[i].FileName, images[j].FileName) < 0
	})
}
