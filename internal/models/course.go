package models

import (
	"time"
)

type CourseStatus string

const (
	CourseActive   CourseStatus = "active"
	CourseArchived CourseStatus = "archived"
)

// Course is owned by a single teacher. Students join through the six
// character join code, never by id.
type Course struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required,min=1,max=200"`
	Description *string      `json:"description,omitempty"`
	JoinCode    string       `json:"join_code" validate:"required,join_code"`
	Status      CourseStatus `json:"status" validate:"required,oneof=active archived"`
	TeacherID   string       `json:"teacher_id" validate:"required"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GroupingMethod string

const (
	GroupingSelfSelect GroupingMethod = "self_select"
	GroupingAssigned   GroupingMethod = "assigned"
)

// Category partitions a course's grade. Weights across a course's
// categories must sum to at most 100.
type Category struct {
	ID             string         `json:"id"`
	CourseID       string         `json:"course_id" validate:"required"`
	Name           string         `json:"name" validate:"required,min=1,max=100"`
	Weight         float64        `json:"weight" validate:"category_weight"`
	GroupingMethod GroupingMethod `json:"grouping_method" validate:"required,oneof=self_select assigned"`
	MaxGroupSize   int            `json:"max_group_size" validate:"min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
