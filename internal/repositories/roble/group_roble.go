package roble

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

type GroupRoble struct {
	client *robleclient.Client
}

func NewGroupRoble(client *robleclient.Client) repositories.GroupRepository {
	return &GroupRoble{client: client}
}

func (r *GroupRoble) GetByID(ctx context.Context, id string) (*models.Group, error) {
	records, err := r.client.Read(ctx, robleclient.TableGroups, robleclient.Filter{"id": id})
	return readOne[models.Group](records, err)
}

func (r *GroupRoble) GetByCategory(ctx context.Context, categoryID string) ([]models.Group, error) {
	records, err := r.client.Read(ctx, robleclient.TableGroups, robleclient.Filter{"category_id": categoryID})
	return readMany[models.Group](records, err)
}

func (r *GroupRoble) GetByCourse(ctx context.Context, courseID string) ([]models.Group, error) {
	records, err := r.client.Read(ctx, robleclient.TableGroups, robleclient.Filter{"course_id": courseID})
	return readMany[models.Group](records, err)
}

func (r *GroupRoble) Create(ctx context.Context, group *models.Group) (*models.Group, error) {
	record, err := r.client.Insert(ctx, robleclient.TableGroups, group)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Group](record)
}
