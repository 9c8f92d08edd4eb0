package allocation

import (
	"fmt"
	"sort"

	"github.com/jonathan/degree-advisor/internal/config"
	"github.com/jonathan/degree-advisor/internal/types"
)

// Input is the per-request data of one allocation pass. Course codes must
// already be normalized; the catalog may contain rows of other tracks.
type Input struct {
	Completed  []string
	InProgress []string
	Catalog    *types.Catalog
}

// bucketState is the accumulator of one bucket during a single Allocate call
type bucketState struct {
	bucket      types.Bucket
	kind        types.TargetKind
	target      int
	slotsUsed   int
	creditsUsed int
	completed   []string
	inProgress  []string
}

func newBucketState(b types.Bucket) *bucketState {
	kind, target := b.Target()
	return &bucketState{
		bucket:     b,
		kind:       kind,
		target:     target,
		completed:  []string{},
		inProgress: []string{},
	}
}

// full reports whether the bucket can accept no more completed courses.
// A bucket without a target never accepts courses.
func (s *bucketState) full() bool {
	switch s.kind {
	case types.TargetCount:
		return s.slotsUsed >= s.target
	case types.TargetCredits:
		return s.creditsUsed >= s.target
	default:
		return true
	}
}

// fullReason describes why a full bucket accepts no more courses.
func (s *bucketState) fullReason() string {
	if s.kind == types.TargetNone {
		return "has no target"
	}
	return "is already full"
}

// noRoomReason explains why none of the eligible buckets took a course.
func noRoomReason(eligible []int, states []*bucketState) string {
	for _, ix := range eligible {
		if states[ix].kind != types.TargetNone {
			return "every eligible bucket is already full"
		}
	}
	return "no eligible bucket has a target"
}

func (s *bucketState) satisfied() bool {
	switch s.kind {
	case types.TargetCount:
		return s.slotsUsed >= s.target
	case types.TargetCredits:
		return s.creditsUsed >= s.target
	default:
		return false
	}
}

func (s *bucketState) remaining() int {
	var used int
	switch s.kind {
	case types.TargetCount:
		used = s.slotsUsed
	case types.TargetCredits:
		used = s.creditsUsed
	default:
		return 0
	}
	if s.target > used {
		return s.target - used
	}
	return 0
}

func (s *bucketState) apply(code string, credits int) {
	s.completed = append(s.completed, code)
	s.slotsUsed++
	s.creditsUsed += credits
}

// pairKey identifies an unordered pair of bucket ordinals
type pairKey struct{ a, b int }

func makePair(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Allocate assigns completed courses to the requirement buckets of the policy's track.
//
// Courses with fewer eligible buckets are placed first so a course that can only
// fill one bucket is not crowded out by a flexible course. Each course gets one
// primary bucket and at most one secondary bucket, and only when both buckets
// allow double counting. In-progress courses are recorded for display and never
// consume slots.
func Allocate(policy config.Policy, in Input) *types.AllocationResult {
	catalog := in.Catalog
	if catalog == nil {
		catalog = &types.Catalog{}
	}

	maxBuckets := policy.MaxBucketsPerCourse
	if maxBuckets < 1 {
		maxBuckets = 1
	}

	mappings := ExpandMappings(catalog.MappingsForTrack(policy.TrackID), catalog.Equivalencies)
	resolver := NewBucketResolver(catalog.BucketsForTrack(policy.TrackID), mappings)
	buckets := resolver.Buckets()
	courses := catalog.CourseByCode()

	states := make([]*bucketState, len(buckets))
	for i, b := range buckets {
		states[i] = newBucketState(b)
	}

	allowedPairs := make(map[pairKey]bool)
	for i := range buckets {
		for j := i + 1; j < len(buckets); j++ {
			if buckets[i].AllowDoubleCount && buckets[j].AllowDoubleCount {
				allowedPairs[makePair(i, j)] = true
			}
		}
	}

	result := &types.AllocationResult{
		TrackID:       policy.TrackID,
		Buckets:       make([]types.BucketAllocation, 0, len(buckets)),
		DoubleCounted: []types.DoubleCountedCourse{},
		Notes:         []string{},
		Unallocated:   []string{},
	}

	type candidate struct {
		code     string
		credits  int
		eligible []int
	}

	completedSet := make(map[string]bool)
	candidates := make([]candidate, 0, len(in.Completed))
	for _, code := range in.Completed {
		if completedSet[code] {
			continue
		}
		completedSet[code] = true

		eligible := resolver.Eligible(code, courseLevel(code, courses))
		if len(eligible) == 0 {
			result.Unallocated = append(result.Unallocated, code)
			continue
		}
		candidates = append(candidates, candidate{code: code, credits: courseCredits(code, courses), eligible: eligible})
	}

	// Most-constrained first; ties keep input order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].eligible) < len(candidates[j].eligible)
	})

	for _, c := range candidates {
		primary := -1
		for _, ix := range c.eligible {
			if !states[ix].full() {
				primary = ix
				break
			}
		}
		if primary < 0 {
			result.Notes = append(result.Notes, fmt.Sprintf(
				"%s was not applied: %s", c.code, noRoomReason(c.eligible, states)))
			continue
		}

		states[primary].apply(c.code, c.credits)
		assigned := []string{buckets[primary].BucketID}

		if maxBuckets > 1 && buckets[primary].AllowDoubleCount {
			for _, ix := range c.eligible {
				if ix == primary || !buckets[ix].AllowDoubleCount || !allowedPairs[makePair(primary, ix)] {
					continue
				}
				if states[ix].full() {
					result.Notes = append(result.Notes, fmt.Sprintf(
						"%s could double-count into %s, but %s %s",
						c.code, buckets[ix].BucketID, buckets[ix].BucketID, states[ix].fullReason()))
					continue
				}
				states[ix].apply(c.code, c.credits)
				assigned = append(assigned, buckets[ix].BucketID)
				break
			}
		}

		if len(assigned) > 1 {
			result.DoubleCounted = append(result.DoubleCounted, types.DoubleCountedCourse{
				CourseCode: c.code,
				Buckets:    assigned,
			})
		}
	}

	recordInProgress(in.InProgress, completedSet, resolver, courses, states, allowedPairs, maxBuckets)

	for i, s := range states {
		result.Buckets = append(result.Buckets, types.BucketAllocation{
			BucketID:          s.bucket.BucketID,
			Label:             s.bucket.Label,
			Priority:          s.bucket.Priority,
			TargetKind:        s.kind,
			Target:            s.target,
			AllowDoubleCount:  s.bucket.AllowDoubleCount,
			CompletedApplied:  s.completed,
			InProgressApplied: s.inProgress,
			SlotsUsed:         s.slotsUsed,
			CreditsApplied:    s.creditsUsed,
			Satisfied:         s.satisfied(),
			SlotsRemaining:    s.remaining(),
			RemainingCourses:  remainingCourses(resolver.CoursesIn(buckets[i].BucketID), completedSet, in.InProgress),
		})
	}

	return result
}

// recordInProgress lists in-progress courses against the buckets they would
// fill, preferring buckets that still have room, under the same per-course cap
// and double-count pairing as completed courses. Counters are not touched.
func recordInProgress(
	inProgress []string,
	completed map[string]bool,
	resolver *BucketResolver,
	courses map[string]*types.Course,
	states []*bucketState,
	allowedPairs map[pairKey]bool,
	maxBuckets int,
) {
	seen := make(map[string]bool)
	for _, code := range inProgress {
		if completed[code] || seen[code] {
			continue
		}
		seen[code] = true

		eligible := resolver.Eligible(code, courseLevel(code, courses))
		if len(eligible) == 0 {
			continue
		}

		first := eligible[0]
		for _, ix := range eligible {
			if !states[ix].full() {
				first = ix
				break
			}
		}
		states[first].inProgress = append(states[first].inProgress, code)

		if maxBuckets < 2 || !states[first].bucket.AllowDoubleCount {
			continue
		}
		for _, ix := range eligible {
			if ix == first || !allowedPairs[makePair(first, ix)] {
				continue
			}
			states[ix].inProgress = append(states[ix].inProgress, code)
			break
		}
	}
}

// remainingCourses returns the bucket's mapped courses not yet completed or in progress.
func remainingCourses(mapped []string, completed map[string]bool, inProgress []string) []string {
	active := make(map[string]bool, len(inProgress))
	for _, code := range inProgress {
		active[code] = true
	}
	remaining := make([]string, 0, len(mapped))
	for _, code := range mapped {
		if !completed[code] && !active[code] {
			remaining = append(remaining, code)
		}
	}
	return remaining
}

func courseLevel(code string, courses map[string]*types.Course) int {
	if c, ok := courses[code]; ok {
		return c.EffectiveLevel()
	}
	return types.LevelFromCode(code)
}

func courseCredits(code string, courses map[string]*types.Course) int {
	if c, ok := courses[code]; ok {
		return c.Credits
	}
	return 0
}
