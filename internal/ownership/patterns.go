// internal/ownership/patterns.go

// Package ownership classifies institutes as government or private. The
// counselling data carries no ownership column, so classification is driven
// by a curated table of name patterns covering government naming conventions
// (GNM/ANM training schools, district hospitals, the named medical colleges).
package ownership

import (
	"fmt"
	"strings"
)

// governmentPatterns holds SQL LIKE patterns, matched case-sensitively against
// the uppercase institute names stored in the cutoff tables. The list is
// curated from the official seat matrix; institutes matching none of these
// are treated as private.
var governmentPatterns = []string{
	// Course-run government training schools
	"G.N.M.%",
	"GNM %",
	"%GNM SCHOOL%",
	"%GNM TRAINING%",
	"%(GNM)%",
	"A.N.M.%",
	"ANM %",
	"%ANM SCHOOL%",
	"%ANM TRAINING%",
	"%(ANM%",
	"%ANM)%",
	"PHARMACY%",
	"O.T.%",
	"LAB%",

	// Named government medical colleges and institutes
	"S.K.M.C.H.%",
	"P.M.I.%",
	"A.H.S.%",
	"A.N.M.M.C.H.%",
	"B.M.I.M.S.%",
	"D.M.C.H.%",
	"G.M.C.%",
	"G.P.I.%",
	"J.L.N.M.C.H.%",
	"N.M.C.H.%",
	"P.H.I.%",
	"P.M.C.H.%",
	"PATNA DENTAL%",

	// Generic government markers
	"GOVERNMENT%",
	"GOVT%",
	"STATE%",
	"DISTRICT%",
	"%CHC%",
	"%PHC%",
	"%SDH%",
	"%SADAR%",
	"CIVIL%",
	"%MEDICAL COLLEGE%",
}

// Patterns returns a copy of the government LIKE patterns.
func Patterns() []string {
	out := make([]string, len(governmentPatterns))
	copy(out, governmentPatterns)
	return out
}

// IsGovernment reports whether an institute name matches any government
// pattern. Matching mirrors SQL LIKE semantics for the two shapes the table
// uses, leading-anchor ("FOO%") and substring ("%FOO%").
func IsGovernment(institute string) bool {
	name := strings.ToUpper(institute)
	for _, p := range governmentPatterns {
		if likeMatch(name, p) {
			return true
		}
	}
	return false
}

func likeMatch(name, pattern string) bool {
	trimmed := strings.Trim(pattern, "%")
	switch {
	case strings.HasPrefix(pattern, "%") && strings.HasSuffix(pattern, "%"):
		return strings.Contains(name, trimmed)
	case strings.HasSuffix(pattern, "%"):
		return strings.HasPrefix(name, trimmed)
	case strings.HasPrefix(pattern, "%"):
		return strings.HasSuffix(name, trimmed)
	default:
		return name == trimmed
	}
}

// SQLPredicate renders the pattern table as a parenthesized OR chain of
// positional LIKE clauses starting at argIndex, plus the argument slice.
// Callers wrap it in AND (...) or AND NOT (...) depending on the filter.
func SQLPredicate(column string, argIndex int) (string, []interface{}) {
	clauses := make([]string, 0, len(governmentPatterns))
	args := make([]interface{}, 0, len(governmentPatterns))
	for i, p := range governmentPatterns {
		clauses = append(clauses, fmt.Sprintf("%s LIKE $%d", column, argIndex+i))
		args = append(args, p)
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}
