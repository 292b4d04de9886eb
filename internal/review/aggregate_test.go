package review

import (
	"testing"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func rating(reviewer, student string, p, co, cm, at int) models.Assessment {
	a := models.Assessment{
		ReviewerID:    reviewer,
		StudentID:     student,
		Punctuality:   p,
		Contributions: co,
		Commitment:    cm,
		Attitude:      at,
	}
	a.Overall = a.ComputeOverall()
	return a
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 4.0, Round2(4.0))
	assert.Equal(t, 4.17, Round2(4.166666))
	// Exact halves round away from zero, not to even. 0.125 is exactly
	// representable, so the intermediate is exactly 12.5.
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
}

func TestComputeOverall(t *testing.T) {
	a := rating("r1", "s1", 5, 3, 4, 4)
	assert.Equal(t, 4.0, a.Overall)

	perfect := rating("r1", "s2", 5, 5, 5, 5)
	assert.Equal(t, 5.0, perfect.Overall)
}

func TestGroupStats_NoAssessments(t *testing.T) {
	stats := GroupStats("g1", "Team Alpha", nil)

	assert.Equal(t, "g1", stats.GroupID)
	assert.Equal(t, 0, stats.AssessmentsCount)
	assert.Nil(t, stats.Averages, "no evaluations must yield nil averages, not zeros")
}

func TestGroupStats_AveragesDimensions(t *testing.T) {
	assessments := []models.Assessment{
		rating("r1", "s1", 5, 3, 4, 4),
		rating("r2", "s1", 4, 4, 5, 3),
		rating("r1", "s2", 3, 5, 3, 5),
	}

	stats := GroupStats("g1", "Team Alpha", assessments)

	assert.Equal(t, 3, stats.AssessmentsCount)
	if assert.NotNil(t, stats.Averages) {
		assert.Equal(t, 4.0, stats.Averages.Punctuality)
		assert.Equal(t, 4.0, stats.Averages.Contributions)
		assert.Equal(t, 4.0, stats.Averages.Commitment)
		assert.Equal(t, 4.0, stats.Averages.Attitude)
		assert.Equal(t, 4.0, stats.Averages.Overall)
	}
}

func TestGroupStats_RoundsToTwoDecimals(t *testing.T) {
	assessments := []models.Assessment{
		rating("r1", "s1", 5, 5, 5, 5),
		rating("r2", "s1", 4, 4, 4, 4),
		rating("r3", "s1", 4, 4, 4, 4),
	}

	stats := GroupStats("g1", "", assessments)

	// 13/3 = 4.3333... per dimension
	assert.Equal(t, 4.33, stats.Averages.Punctuality)
	assert.Equal(t, 4.33, stats.Averages.Overall)
}

func TestWeightedCourseAverages_ZeroWeightGroupsExcluded(t *testing.T) {
	groups := []GroupCrossActivityStats{
		GroupStats("g1", "", []models.Assessment{
			rating("r1", "s1", 4, 4, 4, 4),
			rating("r2", "s1", 4, 4, 4, 4),
		}),
		GroupStats("g2", "", []models.Assessment{
			rating("r3", "s2", 2, 2, 2, 2),
		}),
		GroupStats("g3", "", nil), // no evaluations, zero weight
	}

	avg := WeightedCourseAverages(groups)

	// (4*2 + 2*1) / 3 = 3.33
	if assert.NotNil(t, avg) {
		assert.Equal(t, 3.33, avg.Overall)
		assert.Equal(t, 3.33, avg.Punctuality)
	}
}

func TestWeightedCourseAverages_AllGroupsEmpty(t *testing.T) {
	groups := []GroupCrossActivityStats{
		GroupStats("g1", "", nil),
		GroupStats("g2", "", nil),
	}

	assert.Nil(t, WeightedCourseAverages(groups), "total weight zero must yield nil, not zero scores")
}

func TestWeightedCourseAverages_NoGroups(t *testing.T) {
	assert.Nil(t, WeightedCourseAverages(nil))
}

func TestPendingPeers(t *testing.T) {
	members := []string{"s1", "s2", "s3", "s4"}
	existing := []models.Assessment{
		rating("s1", "s2", 4, 4, 4, 4),
		rating("s3", "s4", 5, 5, 5, 5), // someone else's rating
	}

	pending := PendingPeers(members, "s1", existing)

	assert.Equal(t, []string{"s3", "s4"}, pending,
		"pending excludes the reviewer and peers already rated by them")
}

func TestPendingPeers_AllRated(t *testing.T) {
	members := []string{"s1", "s2"}
	existing := []models.Assessment{rating("s1", "s2", 3, 3, 3, 3)}

	assert.Empty(t, PendingPeers(members, "s1", existing))
}

func TestIsDuplicate(t *testing.T) {
	existing := []models.Assessment{rating("s1", "s2", 4, 4, 4, 4)}

	assert.True(t, IsDuplicate(existing, "s1", "s2"))
	assert.False(t, IsDuplicate(existing, "s1", "s3"))
	assert.False(t, IsDuplicate(existing, "s2", "s1"), "direction matters")
}
