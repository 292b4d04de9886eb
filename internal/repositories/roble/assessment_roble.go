package roble

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

type AssessmentRoble struct {
	client *robleclient.Client
}

func NewAssessmentRoble(client *robleclient.Client) repositories.AssessmentRepository {
	return &AssessmentRoble{client: client}
}

func (r *AssessmentRoble) GetByActivity(ctx context.Context, activityID string) ([]models.Assessment, error) {
	records, err := r.client.Read(ctx, robleclient.TableAssessments, robleclient.Filter{"activity_id": activityID})
	return readMany[models.Assessment](records, err)
}

func (r *AssessmentRoble) GetByReviewer(ctx context.Context, activityID, reviewerID string) ([]models.Assessment, error) {
	records, err := r.client.Read(ctx, robleclient.TableAssessments, robleclient.Filter{
		"activity_id": activityID,
		"reviewer_id": reviewerID,
	})
	return readMany[models.Assessment](records, err)
}

// GetByActivities fans out one equality read per activity; the backend has
// no IN operator.
func (r *AssessmentRoble) GetByActivities(ctx context.Context, activityIDs []string) ([]models.Assessment, error) {
	var all []models.Assessment
	for _, activityID := range activityIDs {
		batch, err := r.GetByActivity(ctx, activityID)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	return all, nil
}

func (r *AssessmentRoble) Create(ctx context.Context, assessment *models.Assessment) (*models.Assessment, error) {
	record, err := r.client.Insert(ctx, robleclient.TableAssessments, assessment)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Assessment](record)
}
