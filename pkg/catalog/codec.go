package catalog

import (
	"strconv"
	"strings"

	"github.com/stylerack/stylerack/pkg/constants"
	"github.com/stylerack/stylerack/pkg/errors"
)

// minFolderParts is the minimum number of '-'-separated fields in a
// conforming folder name: price, four facet fields, and a name.
const minFolderParts = 6

// ParseFolderName decodes a leaf directory name into a product record.
// The wire format is:
//
//	<price>-<styles>-<tags>-<seasons>-<scenes>-<name>
//
// where each facet field joins its values with '_' and the name may itself
// contain '-'. Names that do not conform return ErrNotProduct; the caller
// is expected to skip them silently rather than surface an error.
//
// The returned product carries only decoded metadata; Path, ID, and Images
// are filled in by the catalog store.
func ParseFolderName(folder string) (*Product, error) {
	parts := strings.Split(folder, constants.FieldSeparator)
	if len(parts) < minFolderParts {
		return nil, errors.ErrNotProduct
	}

	price, err := strconv.Atoi(parts[0])
	if err != nil || price < 0 {
		return nil, errors.ErrNotProduct
	}

	return &Product{
		Price:   price,
		Styles:  splitFacetField(parts[1]),
		Tags:    splitFacetField(parts[2]),
		Seasons: splitFacetField(parts[3]),
		Scenes:  splitFacetField(parts[4]),
		Name:    strings.Join(parts[5:], constants.FieldSeparator),
	}, nil
}

// splitFacetField splits one facet field on '_', discarding empty segments
// so a trailing or doubled separator never yields a blank facet value.
func splitFacetField(field string) []string {
	var values []string
	for _, v := range strings.Split(field, constants.FacetSeparator) {
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// EncodeFolderName encodes a new product's metadata into a folder name.
// It is the inverse of ParseFolderName: decode(encode(x)) == x for any
// input this function accepts.
//
// Validation is strict by policy: the name and every facet category must be
// non-empty, the price non-negative, and facet values must not contain the
// '-' or '_' separators (the format has no escaping, so such values would
// be misparsed on read). Violations return a ValidationError.
func EncodeFolderName(name string, price int, styles, tags, seasons, scenes []string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewValidationError("name", name, "display name must not be blank")
	}
	if price < 0 {
		return "", errors.NewValidationError("price", price, "price must be a non-negative integer")
	}

	fields := make([]string, 0, minFolderParts)
	fields = append(fields, strconv.Itoa(price))

	facets := []struct {
		facet  Facet
		values []string
	}{
		{FacetStyle, styles},
		{FacetTag, tags},
		{FacetSeason, seasons},
		{FacetScene, scenes},
	}
	for _, f := range facets {
		joined, err := encodeFacetField(f.facet, f.values)
		if err != nil {
			return "", err
		}
		fields = append(fields, joined)
	}

	fields = append(fields, name)
	return strings.Join(fields, constants.FieldSeparator), nil
}

// encodeFacetField joins one facet category's values, in the order given,
// rejecting empty categories and unrepresentable values.
func encodeFacetField(f Facet, values []string) (string, error) {
	if len(values) == 0 {
		return "", errors.NewValidationError(string(f), nil, "at least one value is required in every facet category")
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return "", errors.NewValidationError(string(f), v, "facet value must not be blank")
		}
		if strings.Contains(v, constants.FieldSeparator) || strings.Contains(v, constants.FacetSeparator) {
			return "", errors.NewValidationError(string(f), v, "facet value must not contain '-' or '_'")
		}
	}
	return strings.Join(values, constants.FacetSeparator), nil
}
