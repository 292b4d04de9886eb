package models

import (
	"time"
)

// Activity is an assignment within a category. Peer reviewing opens when
// the teacher flips Reviewing on; PrivateReview hides the activity's
// ratings from course-level summaries.
type Activity struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"course_id" validate:"required"`
	CategoryID  string  `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty"`

	Reviewing     bool       `json:"reviewing"`
	PrivateReview bool       `json:"private_review"`
	DueDate       *time.Time `json:"due_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenForSummary reports whether the activity's ratings count toward
// course-level averages.
func (a *Activity) OpenForSummary() bool {
	return a.Reviewing && !a.PrivateReview
}
