package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/degree-advisor/internal/types"
)

// LoadCatalog reads a catalog snapshot for one track: every course and
// equivalency row, plus the buckets and mappings of trackID.
func (db *DB) LoadCatalog(ctx context.Context, trackID string) (*types.Catalog, error) {
	catalog := &types.Catalog{}

	var err error
	if catalog.Courses, err = db.loadCourses(ctx); err != nil {
		return nil, err
	}
	if catalog.Buckets, err = db.loadBuckets(ctx, trackID); err != nil {
		return nil, err
	}
	if catalog.Mappings, err = db.loadMappings(ctx, trackID); err != nil {
		return nil, err
	}
	if catalog.Equivalencies, err = db.loadEquivalencies(ctx); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ListTracks returns the track ids that have at least one bucket
func (db *DB) ListTracks(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT DISTINCT track_id FROM buckets ORDER BY track_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]string, 0)
	for rows.Next() {
		var track string
		if err := rows.Scan(&track); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// SaveCatalog upserts every row of the catalog in one transaction
func (db *DB) SaveCatalog(ctx context.Context, catalog *types.Catalog) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, c := range catalog.Courses {
		batch.Queue(
			`INSERT INTO courses (course_code, course_name, credits, level, offered_fall, offered_spring, offered_summer,
			     prereq_hard, prereq_soft, prereq_concurrent, min_standing, offering_confidence, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 ON CONFLICT (course_code) DO UPDATE SET
			     course_name = $2, credits = $3, level = $4, offered_fall = $5, offered_spring = $6, offered_summer = $7,
			     prereq_hard = $8, prereq_soft = $9, prereq_concurrent = $10, min_standing = $11,
			     offering_confidence = $12, notes = $13`,
			c.CourseCode, c.CourseName, c.Credits, c.Level, c.OfferedFall, c.OfferedSpring, c.OfferedSummer,
			c.PrereqHard, c.PrereqSoft, c.PrereqConcurrent, c.MinStanding, c.OfferingConfidence, c.Notes,
		)
	}
	for _, b := range catalog.Buckets {
		batch.Queue(
			`INSERT INTO buckets (track_id, bucket_id, bucket_label, priority, needed_count, needed_credits, min_level, allow_double_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (track_id, bucket_id) DO UPDATE SET
			     bucket_label = $3, priority = $4, needed_count = $5, needed_credits = $6, min_level = $7, allow_double_count = $8`,
			b.TrackID, b.BucketID, b.Label, b.Priority, b.NeededCount, b.NeededCredits, b.MinLevel, b.AllowDoubleCount,
		)
	}
	for _, m := range catalog.Mappings {
		batch.Queue(
			`INSERT INTO course_bucket_mappings (track_id, bucket_id, course_code, can_double_count, constraints)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (track_id, bucket_id, course_code) DO UPDATE SET can_double_count = $4, constraints = $5`,
			m.TrackID, m.BucketID, m.CourseCode, m.CanDoubleCount, m.Constraints,
		)
	}
	for _, e := range catalog.Equivalencies {
		batch.Queue(
			`INSERT INTO equivalencies (equiv_group_id, course_code) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			e.EquivGroupID, e.CourseCode,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

func (db *DB) loadCourses(ctx context.Context) ([]types.Course, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT course_code, COALESCE(course_name, ''), credits, level,
		        offered_fall, offered_spring, offered_summer,
		        COALESCE(prereq_hard, ''), COALESCE(prereq_soft, ''), COALESCE(prereq_concurrent, ''),
		        min_standing, COALESCE(offering_confidence, ''), COALESCE(notes, '')
		 FROM courses ORDER BY course_code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	defer rows.Close()

	courses := make([]types.Course, 0)
	for rows.Next() {
		var c types.Course
		if err := rows.Scan(&c.CourseCode, &c.CourseName, &c.Credits, &c.Level,
			&c.OfferedFall, &c.OfferedSpring, &c.OfferedSummer,
			&c.PrereqHard, &c.PrereqSoft, &c.PrereqConcurrent,
			&c.MinStanding, &c.OfferingConfidence, &c.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (db *DB) loadBuckets(ctx context.Context, trackID string) ([]types.Bucket, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT track_id, bucket_id, COALESCE(bucket_label, ''), priority,
		        needed_count, needed_credits, min_level, allow_double_count
		 FROM buckets WHERE track_id = $1 ORDER BY priority, bucket_id`,
		trackID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load buckets for track %s: %w", trackID, err)
	}
	defer rows.Close()

	buckets := make([]types.Bucket, 0)
	for rows.Next() {
		var b types.Bucket
		if err := rows.Scan(&b.TrackID, &b.BucketID, &b.Label, &b.Priority,
			&b.NeededCount, &b.NeededCredits, &b.MinLevel, &b.AllowDoubleCount); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (db *DB) loadMappings(ctx context.Context, trackID string) ([]types.CourseBucketMapping, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT track_id, bucket_id, course_code, can_double_count, COALESCE(constraints, '')
		 FROM course_bucket_mappings WHERE track_id = $1 ORDER BY bucket_id, course_code`,
		trackID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings for track %s: %w", trackID, err)
	}
	defer rows.Close()

	mappings := make([]types.CourseBucketMapping, 0)
	for rows.Next() {
		var m types.CourseBucketMapping
		if err := rows.Scan(&m.TrackID, &m.BucketID, &m.CourseCode, &m.CanDoubleCount, &m.Constraints); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

func (db *DB) loadEquivalencies(ctx context.Context) ([]types.Equivalency, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT equiv_group_id, course_code FROM equivalencies ORDER BY equiv_group_id, course_code`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load equivalencies: %w", err)
	}
	defer rows.Close()

	equivalencies := make([]types.Equivalency, 0)
	for rows.Next() {
		var e types.Equivalency
		if err := rows.Scan(&e.EquivGroupID, &e.CourseCode); err != nil {
			return nil, fmt.Errorf("failed to scan equivalency: %w", err)
		}
		equivalencies = append(equivalencies, e)
	}
	return equivalencies, rows.Err()
}
