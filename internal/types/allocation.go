package types

// AllocationResult is the outcome of one allocation pass over a student's courses
type AllocationResult struct {
	TrackID       string                `json:"track_id"`
	Buckets       []BucketAllocation    `json:"buckets"`
	DoubleCounted []DoubleCountedCourse `json:"double_counted_courses"`
	Notes         []string              `json:"notes"`
	// Unallocated lists completed courses that matched no eligible bucket
	Unallocated []string `json:"unallocated_courses"`
}

// BucketAllocation is the per-bucket state after allocation
type BucketAllocation struct {
	BucketID          string     `json:"bucket_id"`
	Label             string     `json:"bucket_label"`
	Priority          int        `json:"priority"`
	TargetKind        TargetKind `json:"target_kind"`
	Target            int        `json:"target"`
	AllowDoubleCount  bool       `json:"allow_double_count"`
	CompletedApplied  []string   `json:"completed_applied"`
	InProgressApplied []string   `json:"in_progress_applied"`
	SlotsUsed         int        `json:"slots_used"`
	CreditsApplied    int        `json:"credits_applied"`
	Satisfied         bool       `json:"satisfied"`
	// SlotsRemaining is max(0, target - used) in the unit of the target
	SlotsRemaining   int      `json:"slots_remaining"`
	RemainingCourses []string `json:"remaining_courses"`
}

// DoubleCountedCourse records a completed course applied to more than one bucket
type DoubleCountedCourse struct {
	CourseCode string   `json:"course_code"`
	Buckets    []string `json:"buckets"`
}

// Bucket returns the allocation for a bucket id, or nil when the bucket is unknown.
func (r *AllocationResult) Bucket(bucketID string) *BucketAllocation {
	if r == nil {
		return nil
	}
	for i := range r.Buckets {
		if r.Buckets[i].BucketID == bucketID {
			return &r.Buckets[i]
		}
	}
	return nil
}

// Unmet reports whether the bucket still has remaining slots.
func (b *BucketAllocation) Unmet() bool {
	return b.SlotsRemaining > 0
}
