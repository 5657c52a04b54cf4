package model

import "strings"

// ShortRelation reduces a dependency label to its short name by stripping
// any subtype suffix: "prep_in" and "prep_on" become "prep", "nmod:poss"
// becomes "nmod".
func ShortRelation(label string) string {
	label = strings.TrimSpace(label)
	if i := strings.IndexAny(label, ":_"); i > 0 {
		return label[:i]
	}
	return label
}

// SameRelation reports whether two labels share the same short name.
func SameRelation(a, b string) bool {
	return ShortRelation(a) == ShortRelation(b)
}
