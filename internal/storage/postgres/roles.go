package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/identity-service/internal/lib/retry"
	"github.com/magabrotheeeer/identity-service/internal/models"
	"github.com/magabrotheeeer/identity-service/internal/storage"
)

// RoleRepository репозиторий ролей, привязанный к транзакции scope.
type RoleRepository struct {
	tx pgx.Tx
}

const roleSelect = `
	SELECT id, name, description, access_level, created_at, updated_at
	FROM roles`

// Insert добавляет новую роль. Дубликат имени возвращает storage.ErrRoleAlreadyExists.
func (r *RoleRepository) Insert(ctx context.Context, role models.Role) (*models.Role, error) {
	const op = "storage.postgres.RoleRepository.Insert"

	query := `INSERT INTO roles (name, description, access_level)
		  VALUES ($1, $2, $3)
		  RETURNING id, created_at, updated_at`
	created := role
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, role.Name, role.Description,
			int(role.AccessLevel)).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	})
	if err != nil {
		return nil, mapUniqueViolation(op, err, storage.ErrRoleAlreadyExists)
	}
	return &created, nil
}

// RetrieveByID возвращает роль по ID или storage.ErrRoleNotFound.
func (r *RoleRepository) RetrieveByID(ctx context.Context, roleID uuid.UUID) (*models.Role, error) {
	const op = "storage.postgres.RoleRepository.RetrieveByID"
	return r.retrieveOne(ctx, op, roleSelect+` WHERE id = $1`, storage.ErrRoleNotFound, roleID)
}

// RetrieveByName возвращает роль по уникальному имени или storage.ErrRoleNotFound.
func (r *RoleRepository) RetrieveByName(ctx context.Context, name string) (*models.Role, error) {
	const op = "storage.postgres.RoleRepository.RetrieveByName"
	return r.retrieveOne(ctx, op, roleSelect+` WHERE name = $1`, storage.ErrRoleNotFound, name)
}

// RetrieveBaseRole возвращает роль с базовым уровнем доступа,
// назначаемую новым пользователям, или storage.ErrBaseRoleNotFound.
func (r *RoleRepository) RetrieveBaseRole(ctx context.Context) (*models.Role, error) {
	const op = "storage.postgres.RoleRepository.RetrieveBaseRole"
	return r.retrieveOne(ctx, op,
		roleSelect+` WHERE access_level = $1 ORDER BY created_at LIMIT 1`,
		storage.ErrBaseRoleNotFound, int(models.AccessLevelBase))
}

// UpdateAccessLevel меняет уровень доступа роли.
func (r *RoleRepository) UpdateAccessLevel(ctx context.Context, roleID uuid.UUID,
	level models.AccessLevel) (*models.Role, error) {
	const op = "storage.postgres.RoleRepository.UpdateAccessLevel"
	return r.update(ctx, op,
		`UPDATE roles SET access_level = $1, updated_at = now() WHERE id = $2 RETURNING id`,
		int(level), roleID)
}

// UpdateDescription меняет описание роли.
func (r *RoleRepository) UpdateDescription(ctx context.Context, roleID uuid.UUID,
	description string) (*models.Role, error) {
	const op = "storage.postgres.RoleRepository.UpdateDescription"
	return r.update(ctx, op,
		`UPDATE roles SET description = $1, updated_at = now() WHERE id = $2 RETURNING id`,
		description, roleID)
}

// Delete удаляет роль. У связанных сервисных записей role_id
// сбрасывается в NULL ограничением ON DELETE SET NULL.
func (r *RoleRepository) Delete(ctx context.Context, roleID uuid.UUID) error {
	const op = "storage.postgres.RoleRepository.Delete"

	var tag pgconn.CommandTag
	err := retry.Do(ctx, func() error {
		var execErr error
		tag, execErr = r.tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, roleID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrRoleNotFound)
	}
	return nil
}

func (r *RoleRepository) update(ctx context.Context, op, query string, value any, roleID uuid.UUID) (*models.Role, error) {
	var updatedID uuid.UUID
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, value, roleID).Scan(&updatedID)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrRoleNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.RetrieveByID(ctx, updatedID)
}

func (r *RoleRepository) retrieveOne(ctx context.Context, op, query string, notFound error, args ...any) (*models.Role, error) {
	role := &models.Role{}
	var level int
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, args...).Scan(
			&role.ID, &role.Name, &role.Description, &level,
			&role.CreatedAt, &role.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, notFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	role.AccessLevel = models.AccessLevel(level)
	return role, nil
}
