// Package ranking turns the eligibility candidate list into a ranked, truncated
// set of recommendations for one term.
package ranking

import (
	"sort"

	"github.com/jonathan/degree-advisor/internal/config"
	"github.com/jonathan/degree-advisor/internal/prereq"
	"github.com/jonathan/degree-advisor/internal/types"
)

// Input carries the candidates from eligibility and the context used for
// bridge promotion and blocking warnings.
type Input struct {
	Candidates        []types.EligibleCourseCandidate // in eligibility order
	Index             *prereq.Index
	RequiredRemaining []string
	ElectivePool      []string
	Completed         []string
	InProgress        []string
	Count             int // falls back to policy.RecommendationCount when <= 0
}

// Recommend selects up to Count candidates. Clean candidates come first in
// eligibility order; candidates with soft warnings are demoted and used only
// to fill the remaining places. Manual-review candidates are never
// recommended and are listed separately.
//
// Within the selected window, bridge courses (direct prerequisites of a
// still-unmet required course) move ahead of peers with the same demotion
// state and primary bucket priority.
func Recommend(policy config.Policy, in Input) *types.RecommendationSet {
	count := in.Count
	if count <= 0 {
		count = policy.RecommendationCount
	}

	index := in.Index
	if index == nil {
		index = prereq.BuildIndex(nil)
	}

	completed := prereq.CodeSet(in.Completed)
	inProgress := prereq.CodeSet(in.InProgress)

	set := &types.RecommendationSet{
		Recommendations: []types.Recommendation{},
		ManualReview:    []string{},
		BlockingWarnings: index.BlockingWarnings(
			in.RequiredRemaining, in.ElectivePool, completed, inProgress, policy.BlockingThreshold),
	}

	clean := make([]types.EligibleCourseCandidate, 0, len(in.Candidates))
	demoted := make([]types.EligibleCourseCandidate, 0)
	for _, c := range in.Candidates {
		switch {
		case c.ManualReview:
			set.ManualReview = append(set.ManualReview, c.CourseCode)
		case len(c.SoftWarnings) > 0:
			demoted = append(demoted, c)
		default:
			clean = append(clean, c)
		}
	}

	window := make([]types.Recommendation, 0, count)
	window = fill(window, clean, count, false)
	window = fill(window, demoted, count, true)

	required := unmetRequired(in.RequiredRemaining, completed, inProgress)
	for i := range window {
		window[i].Bridge = isBridge(index, window[i].CourseCode, required)
	}

	sort.SliceStable(window, func(i, j int) bool {
		a, b := window[i], window[j]
		if a.Demoted != b.Demoted {
			return !a.Demoted
		}
		if a.PrimaryBucketPriority != b.PrimaryBucketPriority {
			return a.PrimaryBucketPriority < b.PrimaryBucketPriority
		}
		return a.Bridge && !b.Bridge
	})

	for i := range window {
		window[i].Rank = i + 1
		window[i].Unlocks = index.DirectUnlocks(window[i].CourseCode, policy.UnlocksLimit)
	}
	set.Recommendations = window

	return set
}

// fill appends candidates to the window until it holds count recommendations.
func fill(window []types.Recommendation, candidates []types.EligibleCourseCandidate, count int, demoted bool) []types.Recommendation {
	for _, c := range candidates {
		if len(window) >= count {
			break
		}
		window = append(window, types.Recommendation{EligibleCourseCandidate: c, Demoted: demoted})
	}
	return window
}

// isBridge reports whether code is a direct prerequisite of any required course.
func isBridge(index *prereq.Index, code string, required []string) bool {
	for _, target := range required {
		if target != code && index.Unlocks(code, target) {
			return true
		}
	}
	return false
}

func unmetRequired(required []string, completed, inProgress map[string]bool) []string {
	unmet := make([]string, 0, len(required))
	for _, code := range required {
		if !completed[code] && !inProgress[code] {
			unmet = append(unmet, code)
		}
	}
	return unmet
}
