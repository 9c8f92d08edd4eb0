package ranking

import (
	"sort"

	"github.com/jonathan/degree-advisor/internal/config"
	"github.com/jonathan/degree-advisor/internal/types"
)

// RequiredRemaining returns the outstanding courses of every unmet required
// bucket, sorted and de-duplicated.
//
// A bucket is required when the policy names it. Without configured ids, an
// unmet count bucket is required when it leaves no choice: its target is at
// least the number of courses already applied plus every course still open.
func RequiredRemaining(policy config.Policy, result *types.AllocationResult) []string {
	if result == nil {
		return []string{}
	}
	codes := make([]string, 0)
	for i := range result.Buckets {
		b := &result.Buckets[i]
		if b.Satisfied || !isRequired(policy, b) {
			continue
		}
		codes = append(codes, b.RemainingCourses...)
	}
	return sortedUnique(codes)
}

// ElectivePool returns the outstanding courses of the unmet buckets that are
// not required, excluding anything RequiredRemaining lists.
func ElectivePool(policy config.Policy, result *types.AllocationResult) []string {
	if result == nil {
		return []string{}
	}
	required := make(map[string]bool)
	for _, code := range RequiredRemaining(policy, result) {
		required[code] = true
	}

	codes := make([]string, 0)
	for i := range result.Buckets {
		b := &result.Buckets[i]
		if b.Satisfied || isRequired(policy, b) {
			continue
		}
		for _, code := range b.RemainingCourses {
			if !required[code] {
				codes = append(codes, code)
			}
		}
	}
	return sortedUnique(codes)
}

func isRequired(policy config.Policy, b *types.BucketAllocation) bool {
	if len(policy.RequiredBucketIDs) > 0 {
		return policy.IsRequiredBucket(b.BucketID)
	}
	if b.TargetKind != types.TargetCount {
		return false
	}
	return b.Target >= b.SlotsUsed+len(b.InProgressApplied)+len(b.RemainingCourses)
}

func sortedUnique(codes []string) []string {
	sort.Strings(codes)
	out := make([]string, 0, len(codes))
	for i, code := range codes {
		if i > 0 && code == codes[i-1] {
			continue
		}
		out = append(out, code)
	}
	return out
}
