package allocation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/degree-advisor/internal/config"
	"github.com/jonathan/degree-advisor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const track = "FIN_MAJOR"

func testPolicy() config.Policy {
	return config.Default().WithTrack(track)
}

func countBucket(id string, priority, needed int, allowDouble bool) types.Bucket {
	return types.Bucket{
		TrackID:          track,
		BucketID:         id,
		Label:            id + " label",
		Priority:         priority,
		NeededCount:      types.IntPtr(needed),
		AllowDoubleCount: allowDouble,
	}
}

func mapping(bucket string, course string) types.CourseBucketMapping {
	return types.CourseBucketMapping{TrackID: track, BucketID: bucket, CourseCode: course}
}

func course(code string, credits int) types.Course {
	return types.Course{CourseCode: code, Credits: credits}
}

func TestAllocate_DoubleCountsAcrossAllowedPair(t *testing.T) {
	catalog := &types.Catalog{
		Courses: []types.Course{course("FINA 4020", 3)},
		Buckets: []types.Bucket{
			countBucket("A", 1, 2, true),
			countBucket("B", 2, 1, true),
		},
		Mappings: []types.CourseBucketMapping{
			mapping("A", "FINA 4020"),
			mapping("B", "FINA 4020"),
		},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"FINA 4020"}, Catalog: catalog})

	assert.Equal(t, []string{"FINA 4020"}, result.Bucket("A").CompletedApplied)
	assert.Equal(t, []string{"FINA 4020"}, result.Bucket("B").CompletedApplied)
	assert.Equal(t, []types.DoubleCountedCourse{{CourseCode: "FINA 4020", Buckets: []string{"A", "B"}}}, result.DoubleCounted)

	assert.False(t, result.Bucket("A").Satisfied)
	assert.Equal(t, 1, result.Bucket("A").SlotsRemaining)
	assert.True(t, result.Bucket("B").Satisfied)
	assert.Equal(t, 0, result.Bucket("B").SlotsRemaining)
	assert.Equal(t, 3, result.Bucket("A").CreditsApplied)
}

func TestAllocate_CoreBucketNeverDoubleCounts(t *testing.T) {
	for _, corePriority := range []int{1, 3} {
		catalog := &types.Catalog{
			Courses: []types.Course{course("FINA 3001", 3)},
			Buckets: []types.Bucket{
				countBucket("CORE", corePriority, 3, false),
				countBucket("ELEC", 2, 2, true),
			},
			Mappings: []types.CourseBucketMapping{
				mapping("CORE", "FINA 3001"),
				mapping("ELEC", "FINA 3001"),
			},
		}

		result := Allocate(testPolicy(), Input{Completed: []string{"FINA 3001"}, Catalog: catalog})

		applied := len(result.Bucket("CORE").CompletedApplied) + len(result.Bucket("ELEC").CompletedApplied)
		assert.Equal(t, 1, applied, "course should land in exactly one bucket (core priority %d)", corePriority)
		assert.Empty(t, result.DoubleCounted)
	}
}

func TestAllocate_MostConstrainedFirst(t *testing.T) {
	catalog := &types.Catalog{
		Courses: []types.Course{course("ACCO 1030", 3), course("ACCO 2000", 3)},
		Buckets: []types.Bucket{
			countBucket("CORE", 1, 1, false),
			countBucket("ELEC", 2, 1, false),
		},
		Mappings: []types.CourseBucketMapping{
			mapping("CORE", "ACCO 1030"),
			mapping("CORE", "ACCO 2000"),
			mapping("ELEC", "ACCO 2000"),
		},
	}

	// ACCO 2000 is listed first but is flexible; ACCO 1030 can only fill CORE.
	result := Allocate(testPolicy(), Input{Completed: []string{"ACCO 2000", "ACCO 1030"}, Catalog: catalog})

	assert.Equal(t, []string{"ACCO 1030"}, result.Bucket("CORE").CompletedApplied)
	assert.Equal(t, []string{"ACCO 2000"}, result.Bucket("ELEC").CompletedApplied)
	assert.True(t, result.Bucket("CORE").Satisfied)
	assert.True(t, result.Bucket("ELEC").Satisfied)
}

func TestAllocate_FullSecondaryEmitsNote(t *testing.T) {
	catalog := &types.Catalog{
		Courses: []types.Course{course("FINA 4020", 3), course("FINA 4030", 3)},
		Buckets: []types.Bucket{
			countBucket("A", 1, 2, true),
			countBucket("B", 2, 1, true),
		},
		Mappings: []types.CourseBucketMapping{
			mapping("A", "FINA 4020"), mapping("B", "FINA 4020"),
			mapping("A", "FINA 4030"), mapping("B", "FINA 4030"),
		},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"FINA 4020", "FINA 4030"}, Catalog: catalog})

	assert.Equal(t, []string{"FINA 4020", "FINA 4030"}, result.Bucket("A").CompletedApplied)
	assert.Equal(t, []string{"FINA 4020"}, result.Bucket("B").CompletedApplied)
	require.Len(t, result.Notes, 1)
	assert.Contains(t, result.Notes[0], "FINA 4030 could double-count into B")
	assert.Contains(t, result.Notes[0], "B is already full")
}

func TestAllocate_SecondaryWithoutTargetNote(t *testing.T) {
	catalog := &types.Catalog{
		Courses: []types.Course{course("FINA 4020", 3)},
		Buckets: []types.Bucket{
			countBucket("A", 1, 2, true),
			{TrackID: track, BucketID: "OPEN", Priority: 2, AllowDoubleCount: true},
		},
		Mappings: []types.CourseBucketMapping{mapping("A", "FINA 4020"), mapping("OPEN", "FINA 4020")},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"FINA 4020"}, Catalog: catalog})

	assert.Equal(t, []string{"FINA 4020"}, result.Bucket("A").CompletedApplied)
	assert.Empty(t, result.Bucket("OPEN").CompletedApplied)
	require.Len(t, result.Notes, 1)
	assert.Equal(t, "FINA 4020 could double-count into OPEN, but OPEN has no target", result.Notes[0])
}

func TestAllocate_EveryBucketFull(t *testing.T) {
	catalog := &types.Catalog{
		Buckets:  []types.Bucket{countBucket("CORE", 1, 1, false)},
		Mappings: []types.CourseBucketMapping{mapping("CORE", "A 1000"), mapping("CORE", "B 1000")},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"A 1000", "B 1000"}, Catalog: catalog})

	assert.Equal(t, []string{"A 1000"}, result.Bucket("CORE").CompletedApplied)
	require.Len(t, result.Notes, 1)
	assert.Equal(t, "B 1000 was not applied: every eligible bucket is already full", result.Notes[0])
}

func TestAllocate_CapInvariant(t *testing.T) {
	catalog := &types.Catalog{
		Buckets: []types.Bucket{
			countBucket("A", 1, 5, true),
			countBucket("B", 2, 5, true),
			countBucket("C", 3, 5, true),
		},
		Mappings: []types.CourseBucketMapping{
			mapping("A", "FINA 4020"), mapping("B", "FINA 4020"), mapping("C", "FINA 4020"),
		},
	}

	for _, maxBuckets := range []int{1, 2, 3} {
		policy := testPolicy()
		policy.MaxBucketsPerCourse = maxBuckets
		result := Allocate(policy, Input{Completed: []string{"FINA 4020"}, Catalog: catalog})

		count := 0
		for _, b := range result.Buckets {
			for _, code := range b.CompletedApplied {
				if code == "FINA 4020" {
					count++
				}
			}
		}
		limit := maxBuckets
		if limit > 2 {
			limit = 2 // at most one secondary assignment
		}
		assert.Equal(t, limit, count, "max buckets per course %d", maxBuckets)
	}
}

func TestAllocate_MinLevelFilter(t *testing.T) {
	upper := countBucket("UPPER", 1, 2, false)
	upper.MinLevel = types.IntPtr(3000)

	catalog := &types.Catalog{
		Courses: []types.Course{
			course("FINA 2000", 3),
			{CourseCode: "FINA 2500", Credits: 3, Level: types.IntPtr(3000)},
			course("FINA 3001", 3),
		},
		Buckets: []types.Bucket{upper, countBucket("ANY", 2, 2, false)},
		Mappings: []types.CourseBucketMapping{
			mapping("UPPER", "FINA 2000"), mapping("ANY", "FINA 2000"),
			mapping("UPPER", "FINA 2500"),
			mapping("UPPER", "FINA 3001"),
		},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"FINA 2000", "FINA 2500", "FINA 3001"}, Catalog: catalog})

	assert.Equal(t, []string{"FINA 2500", "FINA 3001"}, result.Bucket("UPPER").CompletedApplied)
	assert.Equal(t, []string{"FINA 2000"}, result.Bucket("ANY").CompletedApplied)
}

func TestAllocate_CreditTarget(t *testing.T) {
	credits := types.Bucket{TrackID: track, BucketID: "ELEC", Priority: 1, NeededCredits: types.IntPtr(6)}
	catalog := &types.Catalog{
		Courses: []types.Course{course("A 1000", 4), course("B 1000", 4), course("C 1000", 3)},
		Buckets: []types.Bucket{credits},
		Mappings: []types.CourseBucketMapping{
			mapping("ELEC", "A 1000"), mapping("ELEC", "B 1000"), mapping("ELEC", "C 1000"),
		},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"A 1000"}, Catalog: catalog})
	elec := result.Bucket("ELEC")
	assert.Equal(t, types.TargetCredits, elec.TargetKind)
	assert.False(t, elec.Satisfied)
	assert.Equal(t, 2, elec.SlotsRemaining)

	result = Allocate(testPolicy(), Input{Completed: []string{"A 1000", "B 1000", "C 1000"}, Catalog: catalog})
	elec = result.Bucket("ELEC")
	assert.True(t, elec.Satisfied)
	assert.Equal(t, 0, elec.SlotsRemaining)
	assert.Equal(t, 8, elec.CreditsApplied)
	assert.Equal(t, []string{"A 1000", "B 1000"}, elec.CompletedApplied)
}

func TestAllocate_BucketWithoutTarget(t *testing.T) {
	catalog := &types.Catalog{
		Buckets:  []types.Bucket{{TrackID: track, BucketID: "BROKEN", Priority: 1}},
		Mappings: []types.CourseBucketMapping{mapping("BROKEN", "A 1000")},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"A 1000"}, Catalog: catalog})
	broken := result.Bucket("BROKEN")
	require.NotNil(t, broken)
	assert.False(t, broken.Satisfied)
	assert.Equal(t, 0, broken.SlotsRemaining)
	assert.Empty(t, broken.CompletedApplied)
	assert.Equal(t, []string{"A 1000 was not applied: no eligible bucket has a target"}, result.Notes)
}

func TestAllocate_UnknownReferencesExcluded(t *testing.T) {
	catalog := &types.Catalog{
		Buckets: []types.Bucket{
			countBucket("CORE", 1, 2, false),
			{TrackID: "OTHER_TRACK", BucketID: "X", Priority: 0, NeededCount: types.IntPtr(1)},
		},
		Mappings: []types.CourseBucketMapping{
			mapping("CORE", "A 1000"),
			mapping("GHOST", "B 1000"),
			{TrackID: "OTHER_TRACK", BucketID: "X", CourseCode: "C 1000"},
		},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"A 1000", "B 1000", "C 1000"}, Catalog: catalog})

	require.Len(t, result.Buckets, 1)
	assert.Equal(t, []string{"A 1000"}, result.Bucket("CORE").CompletedApplied)
	assert.Equal(t, []string{"B 1000", "C 1000"}, result.Unallocated)
	assert.Nil(t, result.Bucket("X"))
}

func TestAllocate_InProgressIsDisplayOnly(t *testing.T) {
	catalog := &types.Catalog{
		Buckets: []types.Bucket{
			countBucket("A", 1, 1, true),
			countBucket("B", 2, 1, true),
			countBucket("CORE", 3, 1, false),
		},
		Mappings: []types.CourseBucketMapping{
			mapping("A", "FINA 4020"), mapping("B", "FINA 4020"), mapping("CORE", "FINA 4020"),
			mapping("CORE", "FINA 3001"),
		},
	}

	result := Allocate(testPolicy(), Input{InProgress: []string{"FINA 4020", "FINA 3001"}, Catalog: catalog})

	assert.Equal(t, []string{"FINA 4020"}, result.Bucket("A").InProgressApplied)
	assert.Equal(t, []string{"FINA 4020"}, result.Bucket("B").InProgressApplied)
	assert.Equal(t, []string{"FINA 3001"}, result.Bucket("CORE").InProgressApplied)
	for _, b := range result.Buckets {
		assert.Zero(t, b.SlotsUsed, "bucket %s", b.BucketID)
		assert.False(t, b.Satisfied, "bucket %s", b.BucketID)
		assert.Empty(t, b.CompletedApplied)
	}
	assert.Empty(t, result.Bucket("CORE").RemainingCourses)
}

func TestAllocate_RemainingCourses(t *testing.T) {
	catalog := &types.Catalog{
		Buckets: []types.Bucket{countBucket("CORE", 1, 3, false)},
		Mappings: []types.CourseBucketMapping{
			mapping("CORE", "C 1000"), mapping("CORE", "A 1000"), mapping("CORE", "B 1000"),
		},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"A 1000"}, InProgress: []string{"B 1000"}, Catalog: catalog})
	assert.Equal(t, []string{"C 1000"}, result.Bucket("CORE").RemainingCourses)
	assert.Equal(t, 2, result.Bucket("CORE").SlotsRemaining)
}

func TestAllocate_EquivalencyExpansion(t *testing.T) {
	catalog := &types.Catalog{
		Buckets: []types.Bucket{countBucket("CORE", 1, 1, false)},
		Mappings: []types.CourseBucketMapping{
			{TrackID: track, BucketID: "CORE", CourseCode: "ECON 1101", Constraints: "equiv_group:ECON_INTRO"},
		},
		Equivalencies: []types.Equivalency{
			{EquivGroupID: "ECON_INTRO", CourseCode: "ECON 1101"},
			{EquivGroupID: "ECON_INTRO", CourseCode: "ECON 1101H"},
		},
	}

	result := Allocate(testPolicy(), Input{Completed: []string{"ECON 1101H"}, Catalog: catalog})
	assert.Equal(t, []string{"ECON 1101H"}, result.Bucket("CORE").CompletedApplied)
	assert.True(t, result.Bucket("CORE").Satisfied)
}

func TestAllocate_Deterministic(t *testing.T) {
	catalog := &types.Catalog{
		Courses: []types.Course{course("A 1000", 3), course("B 1000", 3), course("C 1000", 3)},
		Buckets: []types.Bucket{
			countBucket("CORE", 1, 1, false),
			countBucket("ELEC", 2, 2, true),
			countBucket("MINOR", 2, 2, true),
		},
		Mappings: []types.CourseBucketMapping{
			mapping("CORE", "A 1000"), mapping("ELEC", "A 1000"),
			mapping("ELEC", "B 1000"), mapping("MINOR", "B 1000"),
			mapping("MINOR", "C 1000"), mapping("ELEC", "C 1000"),
		},
	}
	in := Input{Completed: []string{"C 1000", "B 1000", "A 1000"}, Catalog: catalog}

	first := Allocate(testPolicy(), in)
	second := Allocate(testPolicy(), in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("allocation not deterministic (-first +second):\n%s", diff)
	}

	// Slot-bound and double-count invariants
	allow := map[string]bool{}
	for _, b := range first.Buckets {
		allow[b.BucketID] = b.AllowDoubleCount
		if b.TargetKind == types.TargetCount {
			assert.LessOrEqual(t, b.SlotsUsed, b.Target, "bucket %s", b.BucketID)
		}
		assert.GreaterOrEqual(t, b.SlotsRemaining, 0)
	}
	for _, dc := range first.DoubleCounted {
		require.Len(t, dc.Buckets, 2)
		for _, id := range dc.Buckets {
			assert.True(t, allow[id], "double-counted %s into %s which disallows it", dc.CourseCode, id)
		}
	}
}

func TestAllocate_NilCatalog(t *testing.T) {
	result := Allocate(testPolicy(), Input{Completed: []string{"A 1000"}})
	assert.Empty(t, result.Buckets)
	assert.Equal(t, []string{"A 1000"}, result.Unallocated)
}
