package roble

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

type CategoryRoble struct {
	client *robleclient.Client
}

func NewCategoryRoble(client *robleclient.Client) repositories.CategoryRepository {
	return &CategoryRoble{client: client}
}

func (r *CategoryRoble) GetByID(ctx context.Context, id string) (*models.Category, error) {
	records, err := r.client.Read(ctx, robleclient.TableCategories, robleclient.Filter{"id": id})
	return readOne[models.Category](records, err)
}

func (r *CategoryRoble) GetByCourse(ctx context.Context, courseID string) ([]models.Category, error) {
	records, err := r.client.Read(ctx, robleclient.TableCategories, robleclient.Filter{"course_id": courseID})
	return readMany[models.Category](records, err)
}

func (r *CategoryRoble) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	record, err := r.client.Insert(ctx, robleclient.TableCategories, category)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Category](record)
}

func (r *CategoryRoble) Update(ctx context.Context, id string, patch repositories.CategoryUpdate) (*models.Category, error) {
	record, err := r.client.Update(ctx, robleclient.TableCategories, id, patch)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Category](record)
}
