package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// equivGroupPrefix marks an equivalency-group reference inside a mapping constraint
const equivGroupPrefix = "equiv_group:"

// TargetKind identifies how a bucket measures completion
type TargetKind string

// Bucket target kinds
const (
	TargetCount   TargetKind = "count"
	TargetCredits TargetKind = "credits"
	TargetNone    TargetKind = "none"
)

// Bucket represents a requirement bucket row for a track
type Bucket struct {
	TrackID          string `json:"track_id" yaml:"track_id" validate:"required"`
	BucketID         string `json:"bucket_id" yaml:"bucket_id" validate:"required"`
	Label            string `json:"bucket_label" yaml:"bucket_label"`
	Priority         int    `json:"priority" yaml:"priority"`
	NeededCount      *int   `json:"needed_count,omitempty" yaml:"needed_count,omitempty" validate:"omitempty,gte=0"`
	NeededCredits    *int   `json:"needed_credits,omitempty" yaml:"needed_credits,omitempty" validate:"omitempty,gte=0"`
	MinLevel         *int   `json:"min_level,omitempty" yaml:"min_level,omitempty" validate:"omitempty,gte=0"`
	AllowDoubleCount bool   `json:"allow_double_count" yaml:"allow_double_count"`
}

// Validate validates the Bucket using the validator.
func (b *Bucket) Validate() error {
	validate := validator.New()
	return validate.Struct(b)
}

// Target returns the bucket's target kind and value. A count target wins when
// both are populated; a bucket with neither reports TargetNone.
func (b *Bucket) Target() (TargetKind, int) {
	if b.NeededCount != nil {
		return TargetCount, *b.NeededCount
	}
	if b.NeededCredits != nil {
		return TargetCredits, *b.NeededCredits
	}
	return TargetNone, 0
}

// HasAmbiguousTarget reports whether both needed_count and needed_credits are set.
func (b *Bucket) HasAmbiguousTarget() bool {
	return b.NeededCount != nil && b.NeededCredits != nil
}

// CourseBucketMapping maps a course into a bucket for a track
type CourseBucketMapping struct {
	TrackID        string `json:"track_id" yaml:"track_id" validate:"required"`
	BucketID       string `json:"bucket_id" yaml:"bucket_id" validate:"required"`
	CourseCode     string `json:"course_code" yaml:"course_code" validate:"required"`
	CanDoubleCount bool   `json:"can_double_count,omitempty" yaml:"can_double_count,omitempty"`
	Constraints    string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Validate validates the CourseBucketMapping using the validator.
func (m *CourseBucketMapping) Validate() error {
	validate := validator.New()
	return validate.Struct(m)
}

// EquivGroup returns the equivalency group referenced by the constraints, or "".
func (m *CourseBucketMapping) EquivGroup() string {
	for _, part := range strings.Split(m.Constraints, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), equivGroupPrefix) {
			return strings.TrimSpace(part[len(equivGroupPrefix):])
		}
	}
	return ""
}

// Equivalency places a course into an equivalency group
type Equivalency struct {
	EquivGroupID string `json:"equiv_group_id" yaml:"equiv_group_id" validate:"required"`
	CourseCode   string `json:"course_code" yaml:"course_code" validate:"required"`
}

// Validate validates the Equivalency using the validator.
func (e *Equivalency) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}
