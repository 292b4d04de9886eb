package models

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
)

// Enrollment links a student to a course. Leaving a course flips the
// status to dropped; rows are never deleted, so rejoining reactivates
// the existing row.
type Enrollment struct {
	ID        string           `json:"id"`
	CourseID  string           `json:"course_id" validate:"required"`
	StudentID string           `json:"student_id" validate:"required"`
	Status    EnrollmentStatus `json:"status" validate:"required,oneof=active dropped"`

	JoinedAt  time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
