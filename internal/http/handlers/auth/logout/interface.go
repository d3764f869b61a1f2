package logout

import "context"

type Service interface {
	Logout(ctx context.Context, refreshToken string) error
}
