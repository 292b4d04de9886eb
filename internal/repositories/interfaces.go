package repositories

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
)

// ===== UPDATE PATCHES =====

// Equality-filtered reads and field patches are the only query shapes the
// Roble backend supports, so updates are expressed as sparse patch structs.

type CourseUpdate struct {
	Name        *string              `json:"name,omitempty"`
	Description *string              `json:"description,omitempty"`
	Status      *models.CourseStatus `json:"status,omitempty"`
}

type CategoryUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	MaxGroupSize *int     `json:"max_group_size,omitempty"`
}

type ActivityUpdate struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Reviewing     *bool   `json:"reviewing,omitempty"`
	PrivateReview *bool   `json:"private_review,omitempty"`
}

// ===== ENTITY REPOSITORIES =====

type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	GetByJoinCode(ctx context.Context, code string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	Update(ctx context.Context, id string, patch CourseUpdate) (*models.Course, error)
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByCourse(ctx context.Context, courseID string) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, id string, patch CategoryUpdate) (*models.Category, error)
}

type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*models.Group, error)
	GetByCategory(ctx context.Context, categoryID string) ([]models.Group, error)
	GetByCourse(ctx context.Context, courseID string) ([]models.Group, error)
	Create(ctx context.Context, group *models.Group) (*models.Group, error)
}

type EnrollmentRepository interface {
	GetByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error)
	GetByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error)

	// Delete has no backing endpoint; it always returns an Unsupported
	// error and must not be reached from production flows.
	Delete(ctx context.Context, id string) error
}

type MembershipRepository interface {
	GetByGroup(ctx context.Context, groupID string) ([]models.Membership, error)
	GetByCourse(ctx context.Context, courseID string) ([]models.Membership, error)
	GetByStudentAndCategory(ctx context.Context, studentID, categoryID string) (*models.Membership, error)
	Create(ctx context.Context, membership *models.Membership) (*models.Membership, error)

	// Remove has no backing endpoint; it always returns an Unsupported
	// error.
	Remove(ctx context.Context, id string) error
}

type ActivityRepository interface {
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	GetByCourse(ctx context.Context, courseID string) ([]models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	Update(ctx context.Context, id string, patch ActivityUpdate) (*models.Activity, error)
}

// AssessmentRepository has no update or delete: ratings are immutable
// after creation.
type AssessmentRepository interface {
	GetByActivity(ctx context.Context, activityID string) ([]models.Assessment, error)
	GetByReviewer(ctx context.Context, activityID, reviewerID string) ([]models.Assessment, error)
	GetByActivities(ctx context.Context, activityIDs []string) ([]models.Assessment, error)
	Create(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Create has no backing endpoint; users are created through the auth
	// signup flow. Always returns an Unsupported error.
	Create(ctx context.Context, user *models.User) error
}

// Repository aggregates all entity repositories behind one accessor.
type Repository interface {
	Course() CourseRepository
	Category() CategoryRepository
	Group() GroupRepository
	Enrollment() EnrollmentRepository
	Membership() MembershipRepository
	Activity() ActivityRepository
	Assessment() AssessmentRepository
	User() UserRepository
}
