// Package allocation assigns completed courses to requirement buckets under
// double-count and minimum-level rules.
package allocation

import (
	"sort"

	"github.com/jonathan/degree-advisor/internal/types"
)

// ExpandMappings adds a mapping row for every other member of an equivalency
// group referenced by a row's constraints, then de-duplicates by
// (track, bucket, course). Input order is preserved; synthesized rows follow
// the row that referenced the group.
func ExpandMappings(rows []types.CourseBucketMapping, equivalencies []types.Equivalency) []types.CourseBucketMapping {
	groups := make(map[string][]string)
	for _, e := range equivalencies {
		groups[e.EquivGroupID] = append(groups[e.EquivGroupID], e.CourseCode)
	}

	type key struct{ track, bucket, course string }
	seen := make(map[key]bool)
	expanded := make([]types.CourseBucketMapping, 0, len(rows))

	add := func(m types.CourseBucketMapping) {
		k := key{m.TrackID, m.BucketID, m.CourseCode}
		if seen[k] {
			return
		}
		seen[k] = true
		expanded = append(expanded, m)
	}

	for _, m := range rows {
		add(m)
		group := m.EquivGroup()
		if group == "" {
			continue
		}
		for _, member := range groups[group] {
			if member == m.CourseCode {
				continue
			}
			synthesized := m
			synthesized.CourseCode = member
			add(synthesized)
		}
	}

	return expanded
}

// BucketResolver answers which buckets of one track a course may count toward
type BucketResolver struct {
	buckets  []types.Bucket
	ordinal  map[string]int
	byCourse map[string][]int
	byBucket map[string][]string
}

// NewBucketResolver indexes the mapping rows of a track. Buckets must already be
// filtered to the track; rows naming unknown buckets are ignored.
func NewBucketResolver(buckets []types.Bucket, mappings []types.CourseBucketMapping) *BucketResolver {
	sorted := append([]types.Bucket(nil), buckets...)
	types.SortBuckets(sorted)

	r := &BucketResolver{
		buckets:  sorted,
		ordinal:  make(map[string]int, len(sorted)),
		byCourse: make(map[string][]int),
		byBucket: make(map[string][]string),
	}
	for i, b := range sorted {
		if _, exists := r.ordinal[b.BucketID]; !exists {
			r.ordinal[b.BucketID] = i
		}
	}

	type pair struct {
		course string
		bucket int
	}
	seen := make(map[pair]bool)
	for _, m := range mappings {
		ix, ok := r.ordinal[m.BucketID]
		if !ok {
			continue
		}
		p := pair{m.CourseCode, ix}
		if seen[p] {
			continue
		}
		seen[p] = true
		r.byCourse[m.CourseCode] = append(r.byCourse[m.CourseCode], ix)
		r.byBucket[m.BucketID] = append(r.byBucket[m.BucketID], m.CourseCode)
	}

	for code := range r.byCourse {
		sort.Ints(r.byCourse[code])
	}
	for id := range r.byBucket {
		sort.Strings(r.byBucket[id])
	}
	return r
}

// Buckets returns the track's buckets in priority order.
func (r *BucketResolver) Buckets() []types.Bucket {
	return r.buckets
}

// Eligible returns the ordinals (indexes into Buckets) of the buckets the
// course maps to, in priority order, dropping buckets whose min_level exceeds level.
func (r *BucketResolver) Eligible(code string, level int) []int {
	eligible := make([]int, 0, len(r.byCourse[code]))
	for _, ix := range r.byCourse[code] {
		if minLevel := r.buckets[ix].MinLevel; minLevel != nil && level < *minLevel {
			continue
		}
		eligible = append(eligible, ix)
	}
	return eligible
}

// EligibleBuckets is Eligible resolved to bucket rows.
func (r *BucketResolver) EligibleBuckets(code string, level int) []types.Bucket {
	ordinals := r.Eligible(code, level)
	buckets := make([]types.Bucket, 0, len(ordinals))
	for _, ix := range ordinals {
		buckets = append(buckets, r.buckets[ix])
	}
	return buckets
}

// CoursesIn returns the sorted course codes mapped to a bucket.
func (r *BucketResolver) CoursesIn(bucketID string) []string {
	return r.byBucket[bucketID]
}
