package roble

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

type ActivityRoble struct {
	client *robleclient.Client
}

func NewActivityRoble(client *robleclient.Client) repositories.ActivityRepository {
	return &ActivityRoble{client: client}
}

func (r *ActivityRoble) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	records, err := r.client.Read(ctx, robleclient.TableActivities, robleclient.Filter{"id": id})
	return readOne[models.Activity](records, err)
}

func (r *ActivityRoble) GetByCourse(ctx context.Context, courseID string) ([]models.Activity, error) {
	records, err := r.client.Read(ctx, robleclient.TableActivities, robleclient.Filter{"course_id": courseID})
	return readMany[models.Activity](records, err)
}

func (r *ActivityRoble) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	record, err := r.client.Insert(ctx, robleclient.TableActivities, activity)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Activity](record)
}

func (r *ActivityRoble) Update(ctx context.Context, id string, patch repositories.ActivityUpdate) (*models.Activity, error) {
	record, err := r.client.Update(ctx, robleclient.TableActivities, id, patch)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Activity](record)
}
