package roble

import (
	"encoding/json"
	"fmt"

	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

// repository implements repositories.Repository over the Roble table API.
type repository struct {
	course     repositories.CourseRepository
	category   repositories.CategoryRepository
	group      repositories.GroupRepository
	enrollment repositories.EnrollmentRepository
	membership repositories.MembershipRepository
	activity   repositories.ActivityRepository
	assessment repositories.AssessmentRepository
	user       repositories.UserRepository
}

func NewRepository(client *robleclient.Client) repositories.Repository {
	return &repository{
		course:     NewCourseRoble(client),
		category:   NewCategoryRoble(client),
		group:      NewGroupRoble(client),
		enrollment: NewEnrollmentRoble(client),
		membership: NewMembershipRoble(client),
		activity:   NewActivityRoble(client),
		assessment: NewAssessmentRoble(client),
		user:       NewUserRoble(client),
	}
}

func (r *repository) Course() repositories.CourseRepository         { return r.course }
func (r *repository) Category() repositories.CategoryRepository     { return r.category }
func (r *repository) Group() repositories.GroupRepository           { return r.group }
func (r *repository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }
func (r *repository) Membership() repositories.MembershipRepository { return r.membership }
func (r *repository) Activity() repositories.ActivityRepository     { return r.activity }
func (r *repository) Assessment() repositories.AssessmentRepository { return r.assessment }
func (r *repository) User() repositories.UserRepository             { return r.user }

// readOne runs an equality-filtered read expected to match at most one
// record and maps the empty result to ErrNotFound.
func readOne[T any](records []json.RawMessage, err error) (*T, error) {
	if err != nil {
		return nil, mapError(err)
	}
	if len(records) == 0 {
		return nil, repositories.ErrNotFound
	}
	return robleclient.DecodeRecord[T](records[0])
}

func readMany[T any](records []json.RawMessage, err error) ([]T, error) {
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecords[T](records)
}

func mapError(err error) error {
	if robleclient.IsNotFound(err) {
		return repositories.ErrNotFound
	}
	return fmt.Errorf("roble request failed: %w", err)
}
