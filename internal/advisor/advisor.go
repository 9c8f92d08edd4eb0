// Package advisor runs the full rules pipeline for one student request:
// allocation, eligibility and ranking over an immutable catalog snapshot.
package advisor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/degree-advisor/internal/allocation"
	"github.com/jonathan/degree-advisor/internal/config"
	"github.com/jonathan/degree-advisor/internal/eligibility"
	"github.com/jonathan/degree-advisor/internal/parsing"
	"github.com/jonathan/degree-advisor/internal/prereq"
	"github.com/jonathan/degree-advisor/internal/ranking"
	"github.com/jonathan/degree-advisor/internal/types"
)

// Pipeline step names reported through ProgressCallback
const (
	StepAllocate    = "allocate"
	StepEligibility = "eligibility"
	StepRank        = "rank"
	StepSave        = "save"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	TrackID string `json:"track_id,omitempty"`
}

// ProgressCallback is called when a run finishes a step
type ProgressCallback func(event ProgressEvent)

// RunStore persists finished runs
type RunStore interface {
	SaveRun(ctx context.Context, runID uuid.UUID, trackID, targetTerm string, allocation, recommendations any) error
}

// Options holds the optional collaborators of an Advisor
type Options struct {
	Logger     *zap.Logger
	Store      RunStore
	OnProgress ProgressCallback
}

// Advisor evaluates requests against one catalog snapshot. Prerequisites are
// parsed once in New; an Advisor is safe for concurrent use.
type Advisor struct {
	catalog          *types.Catalog
	policy           config.Policy
	logger           *zap.Logger
	store            RunStore
	onProgress       ProgressCallback
	parsed           map[string]types.Prereq
	parsedConcurrent map[string]types.Prereq
	index            *prereq.Index
}

// New builds an Advisor over the catalog. The policy's track id is replaced
// per request.
func New(catalog *types.Catalog, policy config.Policy, opts Options) *Advisor {
	if catalog == nil {
		catalog = &types.Catalog{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed := parsing.ParseAll(catalog.Courses)
	return &Advisor{
		catalog:          catalog,
		policy:           policy,
		logger:           logger,
		store:            opts.Store,
		onProgress:       opts.OnProgress,
		parsed:           parsed,
		parsedConcurrent: parsing.ParseAllConcurrent(catalog.Courses),
		index:            prereq.BuildIndex(parsed),
	}
}

// Index returns the reverse-prerequisite index of the catalog.
func (a *Advisor) Index() *prereq.Index {
	return a.index
}

// Parsed returns the parsed hard prerequisite of every catalog course.
func (a *Advisor) Parsed() map[string]types.Prereq {
	return a.parsed
}

// Run evaluates one request: allocate completed courses, list eligible
// courses for the target term, then rank them.
func (a *Advisor) Run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, &RequestError{Message: "invalid request", Cause: err}
	}
	term, err := parsing.NormalizeTerm(req.TargetTerm)
	if err != nil {
		return nil, &RequestError{Message: "invalid target term", Cause: err}
	}

	policy := a.policy.WithTrack(req.TrackID)
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy for track %s: %w", req.TrackID, err)
	}

	runID := uuid.New()
	logger := a.logger.With(zap.String("run_id", runID.String()), zap.String("track_id", req.TrackID))

	completed := parsing.NormalizeCourseCodes(req.Completed)
	inProgress := parsing.NormalizeCourseCodes(req.InProgress)

	result := &Result{RunID: runID, TrackID: req.TrackID, TargetTerm: term}

	result.Allocation = allocation.Allocate(policy, allocation.Input{
		Completed:  completed,
		InProgress: inProgress,
		Catalog:    a.catalog,
	})
	if len(result.Allocation.Buckets) == 0 {
		logger.Debug("track has no buckets in catalog")
	}
	logger.Debug("allocated courses",
		zap.Int("buckets", len(result.Allocation.Buckets)),
		zap.Int("double_counted", len(result.Allocation.DoubleCounted)),
		zap.Int("unallocated", len(result.Allocation.Unallocated)))
	a.emit(runID, req.TrackID, StepAllocate, fmt.Sprintf("Allocated %d completed courses", len(completed)-len(result.Allocation.Unallocated)))

	result.Candidates = eligibility.EligibleCourses(policy, eligibility.Input{
		Courses:          a.catalog.Courses,
		Completed:        completed,
		InProgress:       inProgress,
		TargetTerm:       term,
		Parsed:           a.parsed,
		ParsedConcurrent: a.parsedConcurrent,
		Allocation:       result.Allocation,
		Buckets:          a.catalog.BucketsForTrack(req.TrackID),
		Mappings:         a.catalog.MappingsForTrack(req.TrackID),
		Equivalencies:    a.catalog.Equivalencies,
	})
	logger.Debug("evaluated eligibility", zap.Int("candidates", len(result.Candidates)))
	a.emit(runID, req.TrackID, StepEligibility, fmt.Sprintf("Found %d eligible courses", len(result.Candidates)))

	result.Recommendations = ranking.Recommend(policy, ranking.Input{
		Candidates:        result.Candidates,
		Index:             a.index,
		RequiredRemaining: ranking.RequiredRemaining(policy, result.Allocation),
		ElectivePool:      ranking.ElectivePool(policy, result.Allocation),
		Completed:         completed,
		InProgress:        inProgress,
		Count:             req.Count,
	})
	logger.Debug("ranked recommendations",
		zap.Int("recommended", len(result.Recommendations.Recommendations)),
		zap.Int("manual_review", len(result.Recommendations.ManualReview)),
		zap.Int("blocking_warnings", len(result.Recommendations.BlockingWarnings)))
	a.emit(runID, req.TrackID, StepRank, fmt.Sprintf("Recommended %d courses", len(result.Recommendations.Recommendations)))

	if a.store != nil {
		if err := a.store.SaveRun(ctx, runID, req.TrackID, term, result.Allocation, result.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		a.emit(runID, req.TrackID, StepSave, "Saved run")
	}

	return result, nil
}

// RunTracks evaluates the same student against several tracks in parallel.
// Results are returned in trackIDs order; the first failure cancels the rest.
func (a *Advisor) RunTracks(ctx context.Context, req Request, trackIDs []string) ([]*Result, error) {
	results := make([]*Result, len(trackIDs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, trackID := range trackIDs {
		i, trackID := i, trackID
		g.Go(func() error {
			trackReq := req
			trackReq.TrackID = trackID
			result, err := a.Run(gCtx, trackReq)
			if err != nil {
				return fmt.Errorf("track %s failed: %w", trackID, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Advisor) emit(runID uuid.UUID, trackID, step, message string) {
	if a.onProgress == nil {
		return
	}
	a.onProgress(ProgressEvent{Step: step, Message: message, RunID: runID.String(), TrackID: trackID})
}
