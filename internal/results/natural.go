package results

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a collator that compares digit runs by numeric
// value, so "Team 2" sorts before "Team 10". Collators keep internal
// buffers and must not be shared between goroutines.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.Numeric)
}

// SortNatural sorts names in place using natural order.
func SortNatural(names []string) {
	c := newCollator()
	slices.SortStableFunc(names, c.CompareString)
}

// NaturalCompare compares a and b in natural order. Callers sorting many
// values should prefer SortNatural, which reuses one collator.
func NaturalCompare(a, b string) int {
	return newCollator().CompareString(a, b)
}
