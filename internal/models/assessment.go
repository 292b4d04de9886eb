package models

import (
	"time"
)

// Assessment is one peer rating: a reviewer rates exactly one peer once per
// activity. Records are immutable after creation; there is no update path.
type Assessment struct {
	ID         string `json:"id"`
	ActivityID string `json:"activity_id" validate:"required"`
	ReviewerID string `json:"reviewer_id" validate:"required"`
	StudentID  string `json:"student_id" validate:"required"`

	// GroupID is resolved from the reviewer's membership at creation.
	GroupID string `json:"group_id"`

	Punctuality   int `json:"punctuality" validate:"required,rating_score"`
	Contributions int `json:"contributions" validate:"required,rating_score"`
	Commitment    int `json:"commitment" validate:"required,rating_score"`
	Attitude      int `json:"attitude" validate:"required,rating_score"`

	// Overall is derived at creation time from the four sub-scores.
	Overall float64 `json:"overall"`

	CreatedAt time.Time `json:"created_at"`
}

// ComputeOverall returns the equal-weighted mean of the four sub-scores.
func (a *Assessment) ComputeOverall() float64 {
	return float64(a.Punctuality+a.Contributions+a.Commitment+a.Attitude) / 4
}
