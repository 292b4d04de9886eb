// Package review computes peer-review statistics over assessments. All
// aggregates are derived on demand from the source assessments; nothing
// here is persisted or updated incrementally.
package review

import (
	"math"

	"github.com/SAP-F-2025/courseware-service/internal/models"
)

// ScoreAverages holds the five summary numbers for a set of assessments,
// each rounded to two decimal places.
type ScoreAverages struct {
	Punctuality   float64 `json:"punctuality"`
	Contributions float64 `json:"contributions"`
	Commitment    float64 `json:"commitment"`
	Attitude      float64 `json:"attitude"`
	Overall       float64 `json:"overall"`
}

// GroupCrossActivityStats is a group's aggregate across every reviewing
// activity. Averages is nil when the group received no evaluations.
type GroupCrossActivityStats struct {
	GroupID          string         `json:"group_id"`
	GroupName        string         `json:"group_name,omitempty"`
	AssessmentsCount int            `json:"assessments_count"`
	Averages         *ScoreAverages `json:"averages"`
}

// CoursePeerReviewSummary rolls group stats up to course level, covering
// the activities flagged reviewing and not private. Averages is nil when
// no group has any assessments: callers must treat that as insufficient
// data, never as zero scores.
type CoursePeerReviewSummary struct {
	CourseID    string                    `json:"course_id"`
	ActivityIDs []string                  `json:"activity_ids"`
	Groups      []GroupCrossActivityStats `json:"groups"`
	StudentIDs  []string                  `json:"student_ids"`
	Averages    *ScoreAverages            `json:"averages"`
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// GroupStats aggregates one group's assessments. The overall average is
// the equal-weighted mean of the four dimension means, not the mean of
// per-assessment overalls (identical when every assessment is complete,
// which the creation path guarantees).
func GroupStats(groupID, groupName string, assessments []models.Assessment) GroupCrossActivityStats {
	stats := GroupCrossActivityStats{
		GroupID:          groupID,
		GroupName:        groupName,
		AssessmentsCount: len(assessments),
	}
	if len(assessments) == 0 {
		return stats
	}

	var punctuality, contributions, commitment, attitude float64
	for _, a := range assessments {
		punctuality += float64(a.Punctuality)
		contributions += float64(a.Contributions)
		commitment += float64(a.Commitment)
		attitude += float64(a.Attitude)
	}

	n := float64(len(assessments))
	punctuality /= n
	contributions /= n
	commitment /= n
	attitude /= n
	overall := (punctuality + contributions + commitment + attitude) / 4

	stats.Averages = &ScoreAverages{
		Punctuality:   Round2(punctuality),
		Contributions: Round2(contributions),
		Commitment:    Round2(commitment),
		Attitude:      Round2(attitude),
		Overall:       Round2(overall),
	}
	return stats
}

// WeightedCourseAverages combines group averages weighted by each group's
// assessment count. Groups with zero assessments carry zero weight and are
// skipped. Returns nil when the total weight is zero.
func WeightedCourseAverages(groups []GroupCrossActivityStats) *ScoreAverages {
	var totalWeight float64
	var punctuality, contributions, commitment, attitude, overall float64

	for _, g := range groups {
		if g.AssessmentsCount == 0 || g.Averages == nil {
			continue
		}
		w := float64(g.AssessmentsCount)
		totalWeight += w
		punctuality += g.Averages.Punctuality * w
		contributions += g.Averages.Contributions * w
		commitment += g.Averages.Commitment * w
		attitude += g.Averages.Attitude * w
		overall += g.Averages.Overall * w
	}

	if totalWeight == 0 {
		return nil
	}

	return &ScoreAverages{
		Punctuality:   Round2(punctuality / totalWeight),
		Contributions: Round2(contributions / totalWeight),
		Commitment:    Round2(commitment / totalWeight),
		Attitude:      Round2(attitude / totalWeight),
		Overall:       Round2(overall / totalWeight),
	}
}

// PendingPeers returns the group members the reviewer still has to rate on
// an activity: everyone in the group except the reviewer and the peers
// already covered by existing assessments.
func PendingPeers(memberIDs []string, reviewerID string, existing []models.Assessment) []string {
	rated := make(map[string]bool, len(existing))
	for _, a := range existing {
		if a.ReviewerID == reviewerID {
			rated[a.StudentID] = true
		}
	}

	pending := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == reviewerID || rated[id] {
			continue
		}
		pending = append(pending, id)
	}
	return pending
}

// IsDuplicate reports whether the reviewer already rated the student among
// the existing assessments for one activity.
func IsDuplicate(existing []models.Assessment, reviewerID, studentID string) bool {
	for _, a := range existing {
		if a.ReviewerID == reviewerID && a.StudentID == studentID {
			return true
		}
	}
	return false
}
