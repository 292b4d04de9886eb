package roble

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

type CourseRoble struct {
	client *robleclient.Client
}

func NewCourseRoble(client *robleclient.Client) repositories.CourseRepository {
	return &CourseRoble{client: client}
}

func (r *CourseRoble) GetByID(ctx context.Context, id string) (*models.Course, error) {
	records, err := r.client.Read(ctx, robleclient.TableCourses, robleclient.Filter{"id": id})
	return readOne[models.Course](records, err)
}

func (r *CourseRoble) GetByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	records, err := r.client.Read(ctx, robleclient.TableCourses, robleclient.Filter{"teacher_id": teacherID})
	return readMany[models.Course](records, err)
}

func (r *CourseRoble) GetByJoinCode(ctx context.Context, code string) (*models.Course, error) {
	records, err := r.client.Read(ctx, robleclient.TableCourses, robleclient.Filter{"join_code": code})
	return readOne[models.Course](records, err)
}

func (r *CourseRoble) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	record, err := r.client.Insert(ctx, robleclient.TableCourses, course)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Course](record)
}

func (r *CourseRoble) Update(ctx context.Context, id string, patch repositories.CourseUpdate) (*models.Course, error) {
	record, err := r.client.Update(ctx, robleclient.TableCourses, id, patch)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Course](record)
}
