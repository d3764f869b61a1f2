package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/identity-service/internal/models"
)

type Service interface {
	LoginHistory(ctx context.Context, uid uuid.UUID) ([]*models.LoginHistory, error)
}
