package types

// EligibleCourseCandidate is a course a student could take in the target term
type EligibleCourseCandidate struct {
	CourseCode            string   `json:"course_code"`
	CourseName            string   `json:"course_name,omitempty"`
	Credits               int      `json:"credits"`
	Level                 int      `json:"level"`
	PrimaryBucket         string   `json:"primary_bucket"`
	PrimaryBucketLabel    string   `json:"primary_bucket_label"`
	PrimaryBucketPriority int      `json:"primary_bucket_priority"`
	FillsBuckets          []string `json:"fills_buckets"`
	// MultiBucketScore counts only currently unmet buckets
	MultiBucketScore int      `json:"multi_bucket_score"`
	PrereqCheck      string   `json:"prereq_check"`
	SoftTags         []string `json:"soft_tags"`
	// SoftWarnings is SoftTags minus the tags that never demote a recommendation
	SoftWarnings  []string `json:"soft_warnings"`
	MinStanding   *int     `json:"min_standing,omitempty"`
	StandingLabel string   `json:"standing_label,omitempty"`
	ManualReview  bool     `json:"manual_review"`
	LowConfidence bool     `json:"low_confidence"`
	PrereqDepth   int      `json:"prereq_depth"`
}

// Recommendation is a ranked candidate enriched for display
type Recommendation struct {
	EligibleCourseCandidate
	Rank    int      `json:"rank"`
	Unlocks []string `json:"unlocks"`
	// Bridge is set when the course directly unblocks a still-unmet required course
	Bridge  bool `json:"bridge"`
	Demoted bool `json:"demoted"`
}

// RecommendationSet is the ranked, truncated output of one recommendation call
type RecommendationSet struct {
	Recommendations  []Recommendation `json:"recommendations"`
	ManualReview     []string         `json:"manual_review"`
	BlockingWarnings []string         `json:"blocking_warnings"`
}
