package advisor

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/degree-advisor/internal/types"
)

// Request is the per-student input of one advisor run
type Request struct {
	TrackID    string   `json:"track_id" yaml:"track_id" validate:"required"`
	TargetTerm string   `json:"target_term" yaml:"target_term" validate:"required"`
	Completed  []string `json:"completed" yaml:"completed"`
	InProgress []string `json:"in_progress" yaml:"in_progress"`
	Count      int      `json:"count" yaml:"count" validate:"gte=0,lte=50"` // 0 uses the policy's recommendation count
}

// Validate validates the Request using the validator.
func (r *Request) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Result holds every output of one advisor run
type Result struct {
	RunID           uuid.UUID                       `json:"run_id"`
	TrackID         string                          `json:"track_id"`
	TargetTerm      string                          `json:"target_term"`
	Allocation      *types.AllocationResult         `json:"allocation"`
	Candidates      []types.EligibleCourseCandidate `json:"candidates"`
	Recommendations *types.RecommendationSet        `json:"recommendations"`
}
