package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourse_OfferedIn(t *testing.T) {
	c := Course{CourseCode: "FINA 3001", OfferedSpring: true}
	assert.False(t, c.OfferedIn(TermFall))
	assert.True(t, c.OfferedIn(TermSpring))
	assert.False(t, c.OfferedIn(TermSummer))
	assert.False(t, c.OfferedIn("Winter"))
}

func TestCourse_EffectiveLevel(t *testing.T) {
	declared := Course{CourseCode: "FINA 3001", Level: IntPtr(4000)}
	assert.Equal(t, 4000, declared.EffectiveLevel())

	derived := Course{CourseCode: "FINA 3001"}
	assert.Equal(t, 3000, derived.EffectiveLevel())

	unknown := Course{CourseCode: "SEMINAR"}
	assert.Equal(t, 0, unknown.EffectiveLevel())
}

func TestCourse_Validate(t *testing.T) {
	c := Course{CourseCode: "FINA 3001", Credits: 3}
	assert.NoError(t, c.Validate())

	c.Credits = -1
	assert.Error(t, c.Validate())

	c = Course{CourseCode: "FINA 3001", MinStanding: IntPtr(5)}
	assert.Error(t, c.Validate())
}

func TestCatalog_Lookups(t *testing.T) {
	cat := Catalog{
		Courses: []Course{{CourseCode: "A 1000", Credits: 3}, {CourseCode: "A 1000", Credits: 4}},
		Buckets: []Bucket{
			{TrackID: "T", BucketID: "ELEC", Priority: 2},
			{TrackID: "T", BucketID: "CORE", Priority: 1},
			{TrackID: "T", BucketID: "ALSO", Priority: 2},
			{TrackID: "U", BucketID: "OTHER", Priority: 0},
			{TrackID: "T", BucketID: "CORE", Priority: 9},
		},
		Mappings: []CourseBucketMapping{
			{TrackID: "T", BucketID: "CORE", CourseCode: "A 1000"},
			{TrackID: "U", BucketID: "OTHER", CourseCode: "A 1000"},
		},
	}

	assert.Equal(t, 3, cat.CourseByCode()["A 1000"].Credits)

	buckets := cat.BucketsForTrack("T")
	ids := make([]string, 0, len(buckets))
	for _, b := range buckets {
		ids = append(ids, b.BucketID)
	}
	assert.Equal(t, []string{"CORE", "ALSO", "ELEC"}, ids)
	assert.Equal(t, 1, buckets[0].Priority)

	assert.Len(t, cat.MappingsForTrack("T"), 1)
	assert.Equal(t, []string{"T", "U"}, cat.Tracks())
}
