package roble

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

type MembershipRoble struct {
	client *robleclient.Client
}

func NewMembershipRoble(client *robleclient.Client) repositories.MembershipRepository {
	return &MembershipRoble{client: client}
}

func (r *MembershipRoble) GetByGroup(ctx context.Context, groupID string) ([]models.Membership, error) {
	records, err := r.client.Read(ctx, robleclient.TableMemberships, robleclient.Filter{"group_id": groupID})
	return readMany[models.Membership](records, err)
}

func (r *MembershipRoble) GetByCourse(ctx context.Context, courseID string) ([]models.Membership, error) {
	records, err := r.client.Read(ctx, robleclient.TableMemberships, robleclient.Filter{"course_id": courseID})
	return readMany[models.Membership](records, err)
}

func (r *MembershipRoble) GetByStudentAndCategory(ctx context.Context, studentID, categoryID string) (*models.Membership, error) {
	records, err := r.client.Read(ctx, robleclient.TableMemberships, robleclient.Filter{
		"student_id":  studentID,
		"category_id": categoryID,
	})
	return readOne[models.Membership](records, err)
}

func (r *MembershipRoble) Create(ctx context.Context, membership *models.Membership) (*models.Membership, error) {
	record, err := r.client.Insert(ctx, robleclient.TableMemberships, membership)
	if err != nil {
		return nil, mapError(err)
	}
	return robleclient.DecodeRecord[models.Membership](record)
}

// Remove is not exposed by the backend.
func (r *MembershipRoble) Remove(ctx context.Context, id string) error {
	return repositories.NewUnsupportedError("membership remove")
}
