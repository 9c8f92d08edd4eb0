// Package types provides type definitions for structured data used throughout the degree-advisor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Term labels accepted as a target term
const (
	TermFall   = "Fall"
	TermSpring = "Spring"
	TermSummer = "Summer"
)

// Course represents one catalog row. It is immutable reference data for the duration of a request.
type Course struct {
	CourseCode         string `json:"course_code" yaml:"course_code" validate:"required"`
	CourseName         string `json:"course_name,omitempty" yaml:"course_name,omitempty"`
	Credits            int    `json:"credits" yaml:"credits" validate:"gte=0"`
	Level              *int   `json:"level,omitempty" yaml:"level,omitempty" validate:"omitempty,gte=0"`
	OfferedFall        bool   `json:"offered_fall" yaml:"offered_fall"`
	OfferedSpring      bool   `json:"offered_spring" yaml:"offered_spring"`
	OfferedSummer      bool   `json:"offered_summer" yaml:"offered_summer"`
	PrereqHard         string `json:"prereq_hard,omitempty" yaml:"prereq_hard,omitempty"`
	PrereqSoft         string `json:"prereq_soft,omitempty" yaml:"prereq_soft,omitempty"`             // semicolon-delimited tags
	PrereqConcurrent   string `json:"prereq_concurrent,omitempty" yaml:"prereq_concurrent,omitempty"` // may be taken alongside
	MinStanding        *int   `json:"min_standing,omitempty" yaml:"min_standing,omitempty" validate:"omitempty,gte=1,lte=4"`
	OfferingConfidence string `json:"offering_confidence,omitempty" yaml:"offering_confidence,omitempty"`
	Notes              string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate validates the Course using the validator.
func (c *Course) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// OfferedIn reports whether the course is flagged as offered in the given term.
// Unknown terms are never offered.
func (c *Course) OfferedIn(term string) bool {
	switch term {
	case TermFall:
		return c.OfferedFall
	case TermSpring:
		return c.OfferedSpring
	case TermSummer:
		return c.OfferedSummer
	default:
		return false
	}
}

// EffectiveLevel returns the declared level, falling back to the level implied
// by the course number (e.g. "FINA 3001" -> 3000). Returns 0 when neither is known.
func (c *Course) EffectiveLevel() int {
	if c.Level != nil {
		return *c.Level
	}
	return LevelFromCode(c.CourseCode)
}

// LevelFromCode derives the thousand-level of a canonical course code from the
// leading digit of its number. Returns 0 when the code has no number.
func LevelFromCode(code string) int {
	fields := strings.Fields(code)
	if len(fields) < 2 {
		return 0
	}
	number := fields[len(fields)-1]
	if number == "" || number[0] < '0' || number[0] > '9' {
		return 0
	}
	return int(number[0]-'0') * 1000
}

// IntPtr returns a pointer to v. Used for the optional integer fields of reference rows.
func IntPtr(v int) *int {
	return &v
}
