package register

import (
	"context"

	"github.com/magabrotheeeer/identity-service/internal/models"
	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
)

type Service interface {
	Register(ctx context.Context, email, login, password string) (*models.User, *services.TokenPair, error)
}
