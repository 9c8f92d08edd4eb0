package prereq

import (
	"fmt"
	"strings"

	"github.com/jonathan/degree-advisor/internal/types"
)

const (
	markCompleted  = "✓"
	markInProgress = "✓ (in progress)"
	markMissing    = "✗"
)

// RenderCheck renders the expression with each referenced course marked as
// completed, in progress or missing. The string is for advisors to read; it
// plays no part in deciding satisfaction.
func RenderCheck(p types.Prereq, completed, inProgress map[string]bool) string {
	switch p.Kind {
	case types.PrereqNone, "":
		return "none"
	case types.PrereqSingle:
		return markCode(p.Course, completed, inProgress)
	case types.PrereqOr:
		return strings.Join(markCodes(p.Courses, completed, inProgress), " or ")
	case types.PrereqChooseN:
		return fmt.Sprintf("%d of: %s", p.Count, strings.Join(markCodes(p.Courses, completed, inProgress), ", "))
	case types.PrereqAnd:
		parts := make([]string, 0, len(p.Clauses))
		for _, clause := range p.Clauses {
			rendered := RenderCheck(clause, completed, inProgress)
			if clause.Kind == types.PrereqOr {
				rendered = "(" + rendered + ")"
			}
			parts = append(parts, rendered)
		}
		return strings.Join(parts, "; ")
	case types.PrereqUnsupported:
		return "manual review: " + p.Raw
	default:
		return "unknown: " + string(p.Kind)
	}
}

func markCodes(codes []string, completed, inProgress map[string]bool) []string {
	marked := make([]string, 0, len(codes))
	for _, code := range codes {
		marked = append(marked, markCode(code, completed, inProgress))
	}
	return marked
}

func markCode(code string, completed, inProgress map[string]bool) string {
	switch {
	case completed[code]:
		return code + " " + markCompleted
	case inProgress[code]:
		return code + " " + markInProgress
	default:
		return code + " " + markMissing
	}
}
