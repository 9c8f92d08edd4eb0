// Package eligibility decides which catalog courses a student may take in a
// target term and orders them for the ranker.
package eligibility

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/degree-advisor/internal/allocation"
	"github.com/jonathan/degree-advisor/internal/config"
	"github.com/jonathan/degree-advisor/internal/parsing"
	"github.com/jonathan/degree-advisor/internal/prereq"
	"github.com/jonathan/degree-advisor/internal/types"
)

// Input is the per-request data of one eligibility pass.
//
// Parsed and ParsedConcurrent are keyed by course code; a course missing from
// either map has its raw text parsed on demand. Buckets and Mappings must
// already be filtered to the active track. Allocation supplies the currently
// unmet buckets; when nil every bucket counts as unmet.
type Input struct {
	Courses          []types.Course
	Completed        []string
	InProgress       []string
	TargetTerm       string
	Parsed           map[string]types.Prereq
	ParsedConcurrent map[string]types.Prereq
	Allocation       *types.AllocationResult
	Buckets          []types.Bucket
	Mappings         []types.CourseBucketMapping
	Equivalencies    []types.Equivalency
}

type sortKey struct {
	priority int
	score    int
	level    int
	depth    int
}

// EligibleCourses returns the candidate courses for the target term, sorted by
// primary bucket priority, then by how many unmet buckets the course fills,
// then by level and prerequisite depth, with the course code as tie-break.
//
// Courses already completed or in progress are never returned, nor are members
// of an equivalency group another member of which was taken. Courses offered
// outside the target term are kept and flagged low confidence.
func EligibleCourses(policy config.Policy, in Input) []types.EligibleCourseCandidate {
	completed := prereq.CodeSet(in.Completed)
	inProgress := prereq.CodeSet(in.InProgress)
	taken := prereq.CodeSet(in.Completed, in.InProgress)
	covered := equivalentsTaken(in.Equivalencies, taken)

	resolver := allocation.NewBucketResolver(in.Buckets, allocation.ExpandMappings(in.Mappings, in.Equivalencies))
	unmet := unmetBuckets(resolver.Buckets(), in.Allocation)

	depths := prereq.NewDepthCache(in.Parsed)
	candidates := make([]types.EligibleCourseCandidate, 0)
	keys := make(map[string]sortKey)
	seen := make(map[string]bool)

	for i := range in.Courses {
		course := &in.Courses[i]
		code := course.CourseCode
		if code == "" || seen[code] || taken[code] || covered[code] {
			continue
		}
		seen[code] = true

		hard := lookupPrereq(in.Parsed, code, course.PrereqHard)
		concurrent := lookupPrereq(in.ParsedConcurrent, code, course.PrereqConcurrent)
		tags := parsing.ParseSoftTags(course.PrereqSoft)

		hasConcurrentTag := false
		for _, tag := range tags {
			if policy.IsConcurrentTag(tag) {
				hasConcurrentTag = true
				break
			}
		}

		manualReview := isManualReview(policy, hard, concurrent, tags, hasConcurrentTag)

		level := course.EffectiveLevel()
		eligible := resolver.EligibleBuckets(code, level)
		if len(eligible) == 0 && !manualReview {
			continue
		}

		if !manualReview && !prereqsHold(hard, concurrent, hasConcurrentTag, completed, taken) {
			continue
		}

		minStanding, tags := reconcileStanding(policy, course, level, tags)

		candidate := types.EligibleCourseCandidate{
			CourseCode:            code,
			CourseName:            course.CourseName,
			Credits:               course.Credits,
			Level:                 level,
			PrimaryBucketPriority: math.MaxInt,
			FillsBuckets:          make([]string, 0, len(eligible)),
			PrereqCheck:           renderCheck(hard, concurrent, completed, inProgress),
			SoftTags:              tags,
			SoftWarnings:          softWarnings(policy, tags),
			MinStanding:           minStanding,
			ManualReview:          manualReview,
			LowConfidence:         lowConfidence(policy, course, in.TargetTerm),
			PrereqDepth:           depths.Depth(code),
		}
		if minStanding != nil {
			candidate.StandingLabel = StandingLabel(*minStanding)
		}

		for j, b := range eligible {
			if j == 0 {
				candidate.PrimaryBucket = b.BucketID
				candidate.PrimaryBucketLabel = b.Label
				candidate.PrimaryBucketPriority = b.Priority
			}
			candidate.FillsBuckets = append(candidate.FillsBuckets, b.BucketID)
			if unmet[b.BucketID] {
				candidate.MultiBucketScore++
			}
		}

		keys[code] = sortKey{
			priority: candidate.PrimaryBucketPriority,
			score:    candidate.MultiBucketScore,
			level:    level,
			depth:    candidate.PrereqDepth,
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := keys[candidates[i].CourseCode], keys[candidates[j].CourseCode]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.score != b.score {
			return a.score > b.score
		}
		if a.level != b.level {
			return a.level < b.level
		}
		if a.depth != b.depth {
			return a.depth < b.depth
		}
		return candidates[i].CourseCode < candidates[j].CourseCode
	})

	return candidates
}

// isManualReview flags courses whose prerequisites cannot be decided
// automatically. A gateway course with no hard prerequisite that may be taken
// concurrently is exempt from the complex-prerequisite tag.
func isManualReview(policy config.Policy, hard, concurrent types.Prereq, tags []string, hasConcurrentTag bool) bool {
	if hard.IsUnsupported() || concurrent.IsUnsupported() {
		return true
	}
	if policy.ComplexPrereqTag == "" || !containsTag(tags, policy.ComplexPrereqTag) {
		return false
	}
	return !(hard.IsNone() && hasConcurrentTag)
}

// prereqsHold evaluates the hard prerequisite against completed courses, or
// against completed and in-progress courses when the course may be taken
// concurrently. An explicit concurrent prerequisite must hold on its own
// against completed and in-progress courses.
func prereqsHold(hard, concurrent types.Prereq, hasConcurrentTag bool, completed, taken map[string]bool) bool {
	if !concurrent.IsNone() {
		return prereq.Satisfied(hard, completed) && prereq.Satisfied(concurrent, taken)
	}
	if hasConcurrentTag {
		return prereq.Satisfied(hard, taken)
	}
	return prereq.Satisfied(hard, completed)
}

// reconcileStanding infers a minimum standing for courses tagged with the
// standing requirement, and adds the tag to courses that declare a minimum.
func reconcileStanding(policy config.Policy, course *types.Course, level int, tags []string) (*int, []string) {
	minStanding := course.MinStanding
	if policy.StandingTag == "" {
		return minStanding, tags
	}

	hasTag := containsTag(tags, policy.StandingTag)
	switch {
	case hasTag && minStanding == nil:
		if inferred := InferStanding(level); inferred > 0 {
			minStanding = types.IntPtr(inferred)
		}
	case !hasTag && minStanding != nil:
		tags = append(append([]string{}, tags...), policy.StandingTag)
		sort.Strings(tags)
	}
	return minStanding, tags
}

func softWarnings(policy config.Policy, tags []string) []string {
	warnings := make([]string, 0, len(tags))
	for _, tag := range tags {
		if !policy.IsConcurrentTag(tag) {
			warnings = append(warnings, tag)
		}
	}
	return warnings
}

func lowConfidence(policy config.Policy, course *types.Course, term string) bool {
	if term != "" && !course.OfferedIn(term) {
		return true
	}
	return policy.IsLowConfidence(course.OfferingConfidence)
}

func renderCheck(hard, concurrent types.Prereq, completed, inProgress map[string]bool) string {
	check := prereq.RenderCheck(hard, completed, inProgress)
	if concurrent.IsNone() {
		return check
	}
	return strings.Join([]string{check, "concurrent: " + prereq.RenderCheck(concurrent, completed, inProgress)}, "; ")
}

// unmetBuckets returns the ids of buckets that still have slots remaining.
func unmetBuckets(buckets []types.Bucket, result *types.AllocationResult) map[string]bool {
	unmet := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		if result == nil {
			unmet[b.BucketID] = true
			continue
		}
		if alloc := result.Bucket(b.BucketID); alloc == nil || alloc.SlotsRemaining > 0 {
			unmet[b.BucketID] = true
		}
	}
	return unmet
}

// equivalentsTaken returns every course sharing an equivalency group with a taken course.
func equivalentsTaken(equivalencies []types.Equivalency, taken map[string]bool) map[string]bool {
	groups := make(map[string]bool)
	for _, e := range equivalencies {
		if taken[e.CourseCode] {
			groups[e.EquivGroupID] = true
		}
	}
	covered := make(map[string]bool)
	for _, e := range equivalencies {
		if groups[e.EquivGroupID] {
			covered[e.CourseCode] = true
		}
	}
	return covered
}

func lookupPrereq(parsed map[string]types.Prereq, code, raw string) types.Prereq {
	if p, ok := parsed[code]; ok {
		return p
	}
	return parsing.ParsePrereq(raw)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
