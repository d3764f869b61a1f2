package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/identity-service/internal/models"
)

type Service interface {
	Profile(ctx context.Context, uid uuid.UUID) (*models.User, error)
}
