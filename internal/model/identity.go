package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeDirectorName normalizes an officer display name for identity
// matching: interior whitespace runs collapse to a single space, leading
// and trailing whitespace is trimmed, and the result is case-folded so
// "John Smith" and "JOHN SMITH" compare equal.
//
// Design decision: we use Unicode case folding rather than ToUpper
// because registry data contains non-ASCII names (accented characters,
// ligatures) where naive upper-casing is not a stable equivalence.
func NormalizeDirectorName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	return cases.Fold().String(collapsed)
}

// DirectorKey derives the identity key for an officer from the display
// name and the appointment date of the first sighting.
//
// Known ambiguity: two distinct people with an identical name appointed
// on the same date collide into one identity. The registry exposes no
// stable person identifier on company officer lists, so this grouping is
// deliberate and downstream consumers depend on it.
func DirectorKey(name, appointedOn string) string {
	return NormalizeDirectorName(name) + "_" + appointedOn
}
