package roble

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

type EnrollmentRoble struct {
	client *robleclient.Client
}

func NewEnrollmentRoble(client *robleclient.Client) repositories.EnrollmentRepository {
	return &EnrollmentRoble{client: client}
}

func (r *EnrollmentRoble) GetByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	records, err := r.client.Read(ctx, robleclient.TableEnrollments, robleclient.Filter{"course_id": courseID})
	return readMany[models.Enrollment](records, err)
}

func (r *EnrollmentRoble) GetByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	records, err := r.client.Read(ctx, robleclient.TableEnrollments, robleclient.Filter{"student_id": studentID})
	return readMany[models.Enrollment](records, err)
}

func (r *EnrollmentRoble) GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	records, err := r.client.Read(ctx, robleclient.TableEnrollments, robleclient.Filter{
		"course_id":  courseID,
		"student_id": studentID,
	})
	return readOne[models.Enrollment](records, err)
}

func (r *EnrollmentRoble) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	record, err := r.client.Insert(ctx, robleclient.TableEnrollments, enrollment)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Enrollment](record)
}

func (r *EnrollmentRoble) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.Enrollment, error) {
	record, err := r.client.Update(ctx, robleclient.TableEnrollments, id, map[string]any{"status": status})
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Enrollment](record)
}

// Delete is not exposed by the backend. Kept on the interface so callers
// hit a typed Unsupported error instead of a silent no-op.
func (r *EnrollmentRoble) Delete(ctx context.Context, id string) error {
	return repositories.NewUnsupportedError("enrollment delete")
}
