package roble

import (
	"context"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
)

type UserRoble struct {
	client *robleclient.Client
}

func NewUserRoble(client *robleclient.Client) repositories.UserRepository {
	return &UserRoble{client: client}
}

func (r *UserRoble) GetByID(ctx context.Context, id string) (*models.User, error) {
	records, err := r.client.Read(ctx, robleclient.TableUsers, robleclient.Filter{"id": id})
	return readOne[models.User](records, err)
}

// Create is not exposed; users come from the auth signup flow.
func (r *UserRoble) Create(ctx context.Context, user *models.User) error {
	return repositories.NewUnsupportedError("user create")
}
