package types

import "fmt"

// PrereqKind identifies the variant of a parsed prerequisite expression
type PrereqKind string

// Prerequisite variants. The set is closed: code switching on Kind must handle all six.
const (
	PrereqNone        PrereqKind = "none"
	PrereqSingle      PrereqKind = "single"
	PrereqAnd         PrereqKind = "and"
	PrereqOr          PrereqKind = "or"
	PrereqChooseN     PrereqKind = "choose_n"
	PrereqUnsupported PrereqKind = "unsupported"
)

// Prereq is a parsed prerequisite expression.
//
// Only the fields belonging to Kind are populated:
//   - single: Course
//   - and: Clauses, each a single or or node
//   - or: Courses
//   - choose_n: Count and Courses, with 0 < Count <= len(Courses)
//   - unsupported: Raw
type Prereq struct {
	Kind    PrereqKind `json:"type"`
	Course  string     `json:"course,omitempty"`
	Courses []string   `json:"courses,omitempty"`
	Clauses []Prereq   `json:"clauses,omitempty"`
	Count   int        `json:"count,omitempty"`
	Raw     string     `json:"raw,omitempty"`
}

// NoPrereq returns the empty prerequisite.
func NoPrereq() Prereq {
	return Prereq{Kind: PrereqNone}
}

// SinglePrereq returns a prerequisite on exactly one course.
func SinglePrereq(code string) Prereq {
	return Prereq{Kind: PrereqSingle, Course: code}
}

// OrPrereq returns an any-of prerequisite. A single member collapses to SinglePrereq.
func OrPrereq(codes ...string) Prereq {
	if len(codes) == 1 {
		return SinglePrereq(codes[0])
	}
	return Prereq{Kind: PrereqOr, Courses: codes}
}

// AndPrereq returns an all-of prerequisite. A single clause is returned as-is.
func AndPrereq(clauses ...Prereq) Prereq {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return Prereq{Kind: PrereqAnd, Clauses: clauses}
}

// ChooseNPrereq returns an n-of prerequisite. It panics when n is outside
// (0, len(codes)]; callers validate the count first.
func ChooseNPrereq(n int, codes ...string) Prereq {
	if n <= 0 || n > len(codes) {
		panic(fmt.Sprintf("types: invalid choose_n count %d for %d courses", n, len(codes)))
	}
	if n == 1 && len(codes) == 1 {
		return SinglePrereq(codes[0])
	}
	return Prereq{Kind: PrereqChooseN, Count: n, Courses: codes}
}

// UnsupportedPrereq returns a prerequisite that could not be parsed into a decidable rule.
func UnsupportedPrereq(raw string) Prereq {
	return Prereq{Kind: PrereqUnsupported, Raw: raw}
}

// IsUnsupported reports whether the expression needs manual review.
func (p Prereq) IsUnsupported() bool {
	return p.Kind == PrereqUnsupported
}

// IsNone reports whether the expression has no prerequisite.
func (p Prereq) IsNone() bool {
	return p.Kind == PrereqNone || p.Kind == ""
}

// Codes returns every course code referenced by the expression, in order of appearance.
func (p Prereq) Codes() []string {
	switch p.Kind {
	case PrereqSingle:
		return []string{p.Course}
	case PrereqOr, PrereqChooseN:
		return append([]string(nil), p.Courses...)
	case PrereqAnd:
		var codes []string
		for _, clause := range p.Clauses {
			codes = append(codes, clause.Codes()...)
		}
		return codes
	default:
		return nil
	}
}

// Validate checks the structural invariants of the expression.
func (p Prereq) Validate() error {
	switch p.Kind {
	case PrereqNone, "":
		return nil
	case PrereqSingle:
		if p.Course == "" {
			return fmt.Errorf("single prerequisite has no course")
		}
	case PrereqOr:
		if len(p.Courses) < 2 {
			return fmt.Errorf("or prerequisite needs at least two courses, got %d", len(p.Courses))
		}
	case PrereqChooseN:
		if p.Count <= 0 || p.Count > len(p.Courses) {
			return fmt.Errorf("choose_n count %d out of range for %d courses", p.Count, len(p.Courses))
		}
	case PrereqAnd:
		if len(p.Clauses) < 2 {
			return fmt.Errorf("and prerequisite needs at least two clauses, got %d", len(p.Clauses))
		}
		for i, clause := range p.Clauses {
			if clause.Kind != PrereqSingle && clause.Kind != PrereqOr {
				return fmt.Errorf("and clause %d has unsupported kind %q", i, clause.Kind)
			}
			if err := clause.Validate(); err != nil {
				return fmt.Errorf("and clause %d: %w", i, err)
			}
		}
	case PrereqUnsupported:
		return nil
	default:
		return fmt.Errorf("unknown prerequisite kind %q", p.Kind)
	}
	return nil
}
