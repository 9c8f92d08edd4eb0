package types

import "sort"

// Catalog is a snapshot of the reference tables a request is evaluated against
type Catalog struct {
	Courses       []Course              `json:"courses" yaml:"courses"`
	Buckets       []Bucket              `json:"buckets" yaml:"buckets"`
	Mappings      []CourseBucketMapping `json:"mappings" yaml:"mappings"`
	Equivalencies []Equivalency         `json:"equivalencies,omitempty" yaml:"equivalencies,omitempty"`
}

// CourseByCode builds a course_code -> Course lookup. Later duplicates are ignored.
func (c *Catalog) CourseByCode() map[string]*Course {
	lookup := make(map[string]*Course, len(c.Courses))
	for i := range c.Courses {
		code := c.Courses[i].CourseCode
		if _, exists := lookup[code]; !exists {
			lookup[code] = &c.Courses[i]
		}
	}
	return lookup
}

// BucketsForTrack returns the buckets of a track sorted by priority, then bucket id.
// Duplicate bucket ids keep their first row.
func (c *Catalog) BucketsForTrack(trackID string) []Bucket {
	seen := make(map[string]bool)
	buckets := make([]Bucket, 0)
	for _, b := range c.Buckets {
		if b.TrackID != trackID || seen[b.BucketID] {
			continue
		}
		seen[b.BucketID] = true
		buckets = append(buckets, b)
	}
	SortBuckets(buckets)
	return buckets
}

// MappingsForTrack returns the mapping rows belonging to a track, in input order.
func (c *Catalog) MappingsForTrack(trackID string) []CourseBucketMapping {
	rows := make([]CourseBucketMapping, 0)
	for _, m := range c.Mappings {
		if m.TrackID == trackID {
			rows = append(rows, m)
		}
	}
	return rows
}

// Tracks returns the distinct track ids that have at least one bucket, sorted.
func (c *Catalog) Tracks() []string {
	seen := make(map[string]bool)
	tracks := make([]string, 0)
	for _, b := range c.Buckets {
		if !seen[b.TrackID] {
			seen[b.TrackID] = true
			tracks = append(tracks, b.TrackID)
		}
	}
	sort.Strings(tracks)
	return tracks
}

// SortBuckets orders buckets by ascending priority, breaking ties by bucket id.
func SortBuckets(buckets []Bucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Priority != buckets[j].Priority {
			return buckets[i].Priority < buckets[j].Priority
		}
		return buckets[i].BucketID < buckets[j].BucketID
	})
}
