// Package prereq evaluates parsed prerequisite expressions against a student's
// course history and indexes which courses each course unlocks.
package prereq

import (
	"fmt"

	"github.com/jonathan/degree-advisor/internal/types"
)

// Satisfied reports whether the expression holds for the given set of satisfied course codes.
// Unsupported expressions are never satisfied. It panics on a structurally invalid
// expression, which can only come from a bug upstream of the parser.
func Satisfied(p types.Prereq, codes map[string]bool) bool {
	switch p.Kind {
	case types.PrereqNone, "":
		return true
	case types.PrereqSingle:
		return codes[p.Course]
	case types.PrereqAnd:
		for _, clause := range p.Clauses {
			if !Satisfied(clause, codes) {
				return false
			}
		}
		return true
	case types.PrereqOr:
		for _, code := range p.Courses {
			if codes[code] {
				return true
			}
		}
		return false
	case types.PrereqChooseN:
		if p.Count <= 0 || p.Count > len(p.Courses) {
			panic(fmt.Sprintf("prereq: invalid choose_n count %d for %d courses", p.Count, len(p.Courses)))
		}
		present := 0
		for _, code := range p.Courses {
			if codes[code] {
				present++
			}
		}
		return present >= p.Count
	case types.PrereqUnsupported:
		return false
	default:
		panic(fmt.Sprintf("prereq: unknown prerequisite kind %q", p.Kind))
	}
}

// CodeSet builds a lookup set from one or more code lists.
func CodeSet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, code := range list {
			set[code] = true
		}
	}
	return set
}
