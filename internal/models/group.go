package models

import (
	"time"
)

// Group is a working team inside one category. MemberCount is computed
// from memberships on load, never stored.
type Group struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id" validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
	Name       string `json:"name" validate:"required,min=1,max=100"`

	MemberCount int `json:"member_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Membership ties a student to a group. CourseID and CategoryID are
// denormalized onto the row so the one-group-per-category rule can be
// checked with a single equality read.
type Membership struct {
	ID         string `json:"id"`
	GroupID    string `json:"group_id" validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
	CourseID   string `json:"course_id" validate:"required"`
	StudentID  string `json:"student_id" validate:"required"`

	JoinedAt time.Time `json:"joined_at"`
}
