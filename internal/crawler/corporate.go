package crawler

import "strings"

// CorporateOfficerPredicate reports whether an officer display name
// denotes a corporate entity rather than a natural person.
type CorporateOfficerPredicate func(name string) bool

// defaultCorporateMarkers are substrings that indicate an officer is
// itself a company. Matching is done on the upper-cased name, so the
// markers are plain upper-case tokens.
var defaultCorporateMarkers = []string{
	"LIMITED",
	"LTD",
	"PLC",
	"LLP",
	"COMPANY",
	"CORPORATE",
}

// IsCorporateOfficer is the default corporate-officer heuristic: the
// name contains any known organizational marker token.
//
// Substring matching is deliberately loose. A surname like "Holliday"
// does not match, but "PLATTCO NOMINEES LIMITED" and "SMITH & CO
// COMPANY SECRETARIES LLP" both do. False positives cost one missed
// fan-out; false negatives cost wasted registry calls, so the heuristic
// leans toward matching.
func IsCorporateOfficer(name string) bool {
	upper := strings.ToUpper(name)
	for _, marker := range defaultCorporateMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
