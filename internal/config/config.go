// Package config provides the advisor policy: the immutable settings passed into
// every allocation, eligibility and ranking call.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Soft-requirement tags with built-in meaning
const (
	TagMayBeConcurrent     = "may_be_concurrent"
	TagComplexPrereq       = "hard_prereq_complex"
	TagStandingRequirement = "standing_requirement"
)

// Policy holds the settings of one track evaluation. It can be loaded from a
// JSON or YAML file; missing values are filled by MergeWithDefaults.
type Policy struct {
	TrackID string `json:"track_id,omitempty" yaml:"track_id,omitempty"` // Active track/program identifier

	// Allocation
	MaxBucketsPerCourse int  `json:"max_buckets_per_course,omitempty" yaml:"max_buckets_per_course,omitempty"`
	StrictBucketTargets bool `json:"strict_bucket_targets,omitempty" yaml:"strict_bucket_targets,omitempty"` // Reject buckets with both count and credit targets

	// Recommendation
	RecommendationCount int      `json:"recommendation_count,omitempty" yaml:"recommendation_count,omitempty"`
	UnlocksLimit        int      `json:"unlocks_limit,omitempty" yaml:"unlocks_limit,omitempty"`
	BlockingThreshold   int      `json:"blocking_threshold,omitempty" yaml:"blocking_threshold,omitempty"`
	RequiredBucketIDs   []string `json:"required_bucket_ids,omitempty" yaml:"required_bucket_ids,omitempty"` // Buckets whose courses are all required

	// Soft-tag vocabulary
	ConcurrentTags      []string `json:"concurrent_tags,omitempty" yaml:"concurrent_tags,omitempty"` // Tags that allow in-progress prerequisites and never demote
	ComplexPrereqTag    string   `json:"complex_prereq_tag,omitempty" yaml:"complex_prereq_tag,omitempty"`
	StandingTag         string   `json:"standing_tag,omitempty" yaml:"standing_tag,omitempty"`
	LowConfidenceLabels []string `json:"low_confidence_labels,omitempty" yaml:"low_confidence_labels,omitempty"` // offering_confidence values treated as uncertain
}

// Default returns the reference policy. TrackID is left empty; callers must set it.
func Default() Policy {
	return Policy{
		MaxBucketsPerCourse: 2,
		RecommendationCount: 5,
		UnlocksLimit:        3,
		BlockingThreshold:   2,
		ConcurrentTags:      []string{TagMayBeConcurrent},
		ComplexPrereqTag:    TagComplexPrereq,
		StandingTag:         TagStandingRequirement,
		LowConfidenceLabels: []string{"low", "uncertain", "tentative"},
	}
}

// LoadPolicy loads a policy from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var p Policy
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &p, nil
}

// Validate checks that the policy has valid values.
func (p *Policy) Validate() error {
	if strings.TrimSpace(p.TrackID) == "" {
		return fmt.Errorf("config error: 'track_id' is required")
	}
	if p.MaxBucketsPerCourse < 1 {
		return fmt.Errorf("config error: 'max_buckets_per_course' must be at least 1")
	}
	if p.RecommendationCount < 0 {
		return fmt.Errorf("config error: 'recommendation_count' must be non-negative")
	}
	if p.UnlocksLimit < 0 {
		return fmt.Errorf("config error: 'unlocks_limit' must be non-negative")
	}
	if p.BlockingThreshold < 0 {
		return fmt.Errorf("config error: 'blocking_threshold' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Policy with empty fields filled from defaults.
func (p *Policy) MergeWithDefaults(defaults Policy) Policy {
	result := *p

	if result.TrackID == "" {
		result.TrackID = defaults.TrackID
	}
	if result.MaxBucketsPerCourse == 0 {
		result.MaxBucketsPerCourse = defaults.MaxBucketsPerCourse
	}
	if result.RecommendationCount == 0 {
		result.RecommendationCount = defaults.RecommendationCount
	}
	if result.UnlocksLimit == 0 {
		result.UnlocksLimit = defaults.UnlocksLimit
	}
	if result.BlockingThreshold == 0 {
		result.BlockingThreshold = defaults.BlockingThreshold
	}
	if len(result.RequiredBucketIDs) == 0 {
		result.RequiredBucketIDs = defaults.RequiredBucketIDs
	}
	if len(result.ConcurrentTags) == 0 {
		result.ConcurrentTags = defaults.ConcurrentTags
	}
	if result.ComplexPrereqTag == "" {
		result.ComplexPrereqTag = defaults.ComplexPrereqTag
	}
	if result.StandingTag == "" {
		result.StandingTag = defaults.StandingTag
	}
	if len(result.LowConfidenceLabels) == 0 {
		result.LowConfidenceLabels = defaults.LowConfidenceLabels
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// WithTrack returns a copy of the policy bound to another track.
func (p Policy) WithTrack(trackID string) Policy {
	p.TrackID = trackID
	return p
}

// IsConcurrentTag reports whether tag permits in-progress prerequisites.
func (p *Policy) IsConcurrentTag(tag string) bool {
	for _, t := range p.ConcurrentTags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsLowConfidence reports whether an offering-confidence label marks an uncertain offering.
func (p *Policy) IsLowConfidence(label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}
	for _, l := range p.LowConfidenceLabels {
		if strings.ToLower(l) == label {
			return true
		}
	}
	return false
}

// IsRequiredBucket reports whether the bucket was configured as a required-course bucket.
func (p *Policy) IsRequiredBucket(bucketID string) bool {
	for _, id := range p.RequiredBucketIDs {
		if id == bucketID {
			return true
		}
	}
	return false
}
