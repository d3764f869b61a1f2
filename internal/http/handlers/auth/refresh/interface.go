package refresh

import (
	"context"

	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
)

type Service interface {
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}
