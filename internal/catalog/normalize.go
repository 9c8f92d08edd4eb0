package catalog

import (
	"fmt"

	"github.com/jonathan/degree-advisor/internal/parsing"
	"github.com/jonathan/degree-advisor/internal/types"
	"go.uber.org/zap"
)

// Normalize canonicalizes course codes and drops rows that fail validation.
// Reference problems (unknown buckets, tracks or courses, duplicate rows,
// buckets without a usable target) are kept in place and reported: the
// advisor excludes them silently, so the loader is where operators hear
// about them. Every warning is logged and returned.
//
// Under opts.StrictBucketTargets a bucket with both targets is an error.
func Normalize(catalog *types.Catalog, logger *zap.Logger, opts Options) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &warner{logger: logger}

	normalizeCourses(catalog, w)
	if err := normalizeBuckets(catalog, w, opts); err != nil {
		return w.warnings, err
	}
	normalizeMappings(catalog, w)
	normalizeEquivalencies(catalog, w)

	return w.warnings, nil
}

type warner struct {
	logger   *zap.Logger
	warnings []string
}

func (w *warner) warn(msg string, fields ...zap.Field) {
	w.warnings = append(w.warnings, msg)
	w.logger.Warn(msg, fields...)
}

func normalizeCourses(catalog *types.Catalog, w *warner) {
	kept := make([]types.Course, 0, len(catalog.Courses))
	seen := make(map[string]bool)
	for _, c := range catalog.Courses {
		c.CourseCode = parsing.NormalizeCourseCode(c.CourseCode)
		if err := c.Validate(); err != nil {
			w.warn("dropping invalid course row", zap.String("course_code", c.CourseCode), zap.Error(err))
			continue
		}
		if seen[c.CourseCode] {
			w.warn("duplicate course row ignored", zap.String("course_code", c.CourseCode))
			continue
		}
		seen[c.CourseCode] = true
		kept = append(kept, c)
	}
	catalog.Courses = kept
}

func normalizeBuckets(catalog *types.Catalog, w *warner, opts Options) error {
	kept := make([]types.Bucket, 0, len(catalog.Buckets))
	seen := make(map[string]bool)
	for _, b := range catalog.Buckets {
		if err := b.Validate(); err != nil {
			w.warn("dropping invalid bucket row", zap.String("track_id", b.TrackID), zap.String("bucket_id", b.BucketID), zap.Error(err))
			continue
		}

		key := b.TrackID + "/" + b.BucketID
		if seen[key] {
			w.warn("duplicate bucket row ignored", zap.String("track_id", b.TrackID), zap.String("bucket_id", b.BucketID))
			continue
		}
		seen[key] = true

		switch {
		case b.HasAmbiguousTarget() && opts.StrictBucketTargets:
			return &ValidationError{
				Message: fmt.Sprintf("bucket %s sets both needed_count and needed_credits", key),
			}
		case b.HasAmbiguousTarget():
			w.warn("bucket sets both needed_count and needed_credits; needed_count wins",
				zap.String("track_id", b.TrackID), zap.String("bucket_id", b.BucketID))
		case b.NeededCount == nil && b.NeededCredits == nil:
			w.warn("bucket has no target and can never be satisfied",
				zap.String("track_id", b.TrackID), zap.String("bucket_id", b.BucketID))
		}
		kept = append(kept, b)
	}
	catalog.Buckets = kept
	return nil
}

func normalizeMappings(catalog *types.Catalog, w *warner) {
	tracks := make(map[string]bool)
	buckets := make(map[string]bool)
	for _, b := range catalog.Buckets {
		tracks[b.TrackID] = true
		buckets[b.TrackID+"/"+b.BucketID] = true
	}
	courses := make(map[string]bool, len(catalog.Courses))
	for _, c := range catalog.Courses {
		courses[c.CourseCode] = true
	}

	kept := make([]types.CourseBucketMapping, 0, len(catalog.Mappings))
	for _, m := range catalog.Mappings {
		m.CourseCode = parsing.NormalizeCourseCode(m.CourseCode)
		if err := m.Validate(); err != nil {
			w.warn("dropping invalid mapping row", zap.String("bucket_id", m.BucketID), zap.String("course_code", m.CourseCode), zap.Error(err))
			continue
		}

		switch {
		case !tracks[m.TrackID]:
			w.warn("mapping references unknown track",
				zap.String("track_id", m.TrackID), zap.String("course_code", m.CourseCode))
		case !buckets[m.TrackID+"/"+m.BucketID]:
			w.warn("mapping references unknown bucket",
				zap.String("track_id", m.TrackID), zap.String("bucket_id", m.BucketID), zap.String("course_code", m.CourseCode))
		}
		if !courses[m.CourseCode] {
			w.warn("mapping references course missing from the course table",
				zap.String("bucket_id", m.BucketID), zap.String("course_code", m.CourseCode))
		}
		kept = append(kept, m)
	}
	catalog.Mappings = kept
}

func normalizeEquivalencies(catalog *types.Catalog, w *warner) {
	kept := make([]types.Equivalency, 0, len(catalog.Equivalencies))
	for _, e := range catalog.Equivalencies {
		e.CourseCode = parsing.NormalizeCourseCode(e.CourseCode)
		if err := e.Validate(); err != nil {
			w.warn("dropping invalid equivalency row", zap.String("equiv_group_id", e.EquivGroupID), zap.Error(err))
			continue
		}
		kept = append(kept, e)
	}
	catalog.Equivalencies = kept
}
