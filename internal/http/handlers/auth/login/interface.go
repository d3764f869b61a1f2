package login

import (
	"context"

	"github.com/magabrotheeeer/identity-service/internal/models"
	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
)

type Service interface {
	Login(ctx context.Context, credential, password string) (*models.User, *services.TokenPair, error)
}
