package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/identity-service/internal/lib/retry"
	"github.com/magabrotheeeer/identity-service/internal/models"
	"github.com/magabrotheeeer/identity-service/internal/storage"
)

// UserServiceRepository репозиторий сервисных записей пользователей,
// привязанный к транзакции scope.
type UserServiceRepository struct {
	tx pgx.Tx
}

const userServiceSelect = `
	SELECT id, role_id, active, verified, created_at, updated_at
	FROM user_services`

// Insert создает сервисную запись с указанной ролью. Запись создается
// раньше пользователя в той же транзакции: пользователь ссылается на её id.
func (r *UserServiceRepository) Insert(ctx context.Context, roleID uuid.UUID) (*models.UserService, error) {
	const op = "storage.postgres.UserServiceRepository.Insert"

	query := `INSERT INTO user_services (role_id)
		  VALUES ($1)
		  RETURNING id, role_id, active, verified, created_at, updated_at`
	service := &models.UserService{}
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, roleID).Scan(
			&service.ID, &service.RoleID, &service.Active, &service.Verified,
			&service.CreatedAt, &service.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return service, nil
}

// RetrieveByID возвращает сервисную запись по ID или storage.ErrUserServiceNotFound.
func (r *UserServiceRepository) RetrieveByID(ctx context.Context, uid uuid.UUID) (*models.UserService, error) {
	const op = "storage.postgres.UserServiceRepository.RetrieveByID"
	return r.retrieveOne(ctx, op, userServiceSelect+` WHERE id = $1`, uid)
}

// UpdateActiveStatus включает или выключает учетную запись.
func (r *UserServiceRepository) UpdateActiveStatus(ctx context.Context, uid uuid.UUID, active bool) (*models.UserService, error) {
	const op = "storage.postgres.UserServiceRepository.UpdateActiveStatus"
	return r.update(ctx, op,
		`UPDATE user_services SET active = $1, updated_at = now() WHERE id = $2 RETURNING id`,
		active, uid)
}

// UpdateVerificationStatus помечает учетную запись подтвержденной или нет.
func (r *UserServiceRepository) UpdateVerificationStatus(ctx context.Context, uid uuid.UUID, verified bool) (*models.UserService, error) {
	const op = "storage.postgres.UserServiceRepository.UpdateVerificationStatus"
	return r.update(ctx, op,
		`UPDATE user_services SET verified = $1, updated_at = now() WHERE id = $2 RETURNING id`,
		verified, uid)
}

// UpdateRole назначает учетной записи другую роль.
func (r *UserServiceRepository) UpdateRole(ctx context.Context, uid, roleID uuid.UUID) (*models.UserService, error) {
	const op = "storage.postgres.UserServiceRepository.UpdateRole"
	return r.update(ctx, op,
		`UPDATE user_services SET role_id = $1, updated_at = now() WHERE id = $2 RETURNING id`,
		roleID, uid)
}

func (r *UserServiceRepository) update(ctx context.Context, op, query string, value any, uid uuid.UUID) (*models.UserService, error) {
	var updatedID uuid.UUID
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, value, uid).Scan(&updatedID)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserServiceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.RetrieveByID(ctx, updatedID)
}

func (r *UserServiceRepository) retrieveOne(ctx context.Context, op, query string, args ...any) (*models.UserService, error) {
	service := &models.UserService{}
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, args...).Scan(
			&service.ID, &service.RoleID, &service.Active, &service.Verified,
			&service.CreatedAt, &service.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserServiceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return service, nil
}
