package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/identity-service/internal/lib/retry"
	"github.com/magabrotheeeer/identity-service/internal/models"
	"github.com/magabrotheeeer/identity-service/internal/storage"
)

// UserRepository репозиторий пользователей, привязанный к транзакции scope.
type UserRepository struct {
	tx pgx.Tx
}

// Колонки пользователя вместе с сервисной записью и ролью: роль
// подтягивается явным join внутри той же транзакции, без ленивой загрузки.
const userSelect = `
	SELECT u.id, u.email, u.login, u.password, u.user_service_id,
	       u.full_name, u.profile_picture, u.birthday, u.phone_number, u.bio,
	       u.created_at, u.updated_at,
	       s.id, s.role_id, s.active, s.verified, s.created_at, s.updated_at,
	       r.id, r.name, r.description, r.access_level, r.created_at, r.updated_at
	FROM users u
	JOIN user_services s ON s.id = u.user_service_id
	LEFT JOIN roles r ON r.id = s.role_id`

// Insert добавляет нового пользователя и возвращает его с заполненными
// генерируемыми полями. Дубликат email или login возвращает storage.ErrUserAlreadyExists.
func (r *UserRepository) Insert(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.postgres.UserRepository.Insert"

	query := `INSERT INTO users (email, login, password, user_service_id,
		      full_name, profile_picture, birthday, phone_number, bio)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		  RETURNING id, created_at, updated_at`
	created := user
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query,
			user.Email, user.Login, user.PasswordHash, user.UserServiceID,
			user.FullName, user.ProfilePicture, user.Birthday, user.PhoneNumber,
			user.Bio).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	})
	if err != nil {
		return nil, mapUniqueViolation(op, err, storage.ErrUserAlreadyExists)
	}
	return &created, nil
}

// RetrieveByID возвращает пользователя по его ID или storage.ErrUserNotFound.
func (r *UserRepository) RetrieveByID(ctx context.Context, uid uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserRepository.RetrieveByID"
	return r.retrieveOne(ctx, op, userSelect+` WHERE u.id = $1`, uid)
}

// RetrieveByEmail возвращает пользователя по email или storage.ErrUserNotFound.
func (r *UserRepository) RetrieveByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserRepository.RetrieveByEmail"
	return r.retrieveOne(ctx, op, userSelect+` WHERE u.email = $1`, email)
}

// RetrieveByLogin возвращает пользователя по логину или storage.ErrUserNotFound.
func (r *UserRepository) RetrieveByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.postgres.UserRepository.RetrieveByLogin"
	return r.retrieveOne(ctx, op, userSelect+` WHERE u.login = $1`, login)
}

// RetrieveByEmailOrLogin возвращает пользователя, у которого совпал
// email или login, или storage.ErrUserNotFound.
func (r *UserRepository) RetrieveByEmailOrLogin(ctx context.Context, email, login string) (*models.User, error) {
	const op = "storage.postgres.UserRepository.RetrieveByEmailOrLogin"
	return r.retrieveOne(ctx, op, userSelect+` WHERE u.email = $1 OR u.login = $2`, email, login)
}

// ChangeEmail меняет email пользователя и возвращает обновленную запись.
func (r *UserRepository) ChangeEmail(ctx context.Context, uid uuid.UUID, email string) (*models.User, error) {
	const op = "storage.postgres.UserRepository.ChangeEmail"
	return r.updateField(ctx, op, `email`, uid, email, storage.ErrUserAlreadyExists)
}

// ChangeLogin меняет логин пользователя и возвращает обновленную запись.
func (r *UserRepository) ChangeLogin(ctx context.Context, uid uuid.UUID, login string) (*models.User, error) {
	const op = "storage.postgres.UserRepository.ChangeLogin"
	return r.updateField(ctx, op, `login`, uid, login, storage.ErrUserAlreadyExists)
}

// ChangePassword меняет хэш пароля пользователя.
func (r *UserRepository) ChangePassword(ctx context.Context, uid uuid.UUID, passwordHash string) (*models.User, error) {
	const op = "storage.postgres.UserRepository.ChangePassword"
	return r.updateField(ctx, op, `password`, uid, passwordHash, nil)
}

// UpdateAdditionalInfo обновляет необязательные поля профиля.
// Nil-поля не изменяются.
func (r *UserRepository) UpdateAdditionalInfo(ctx context.Context, uid uuid.UUID,
	fields models.UserAdditionalFields) (*models.User, error) {
	const op = "storage.postgres.UserRepository.UpdateAdditionalInfo"

	query := `UPDATE users
		  SET full_name = COALESCE($1, full_name),
		      profile_picture = COALESCE($2, profile_picture),
		      birthday = COALESCE($3, birthday),
		      phone_number = COALESCE($4, phone_number),
		      bio = COALESCE($5, bio),
		      updated_at = now()
		  WHERE id = $6
		  RETURNING id`
	var updatedID uuid.UUID
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query,
			fields.FullName, fields.ProfilePicture, fields.Birthday,
			fields.PhoneNumber, fields.Bio, uid).Scan(&updatedID)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.RetrieveByID(ctx, updatedID)
}

func (r *UserRepository) updateField(ctx context.Context, op, column string,
	uid uuid.UUID, value string, alreadyExists error) (*models.User, error) {
	query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = now() WHERE id = $2 RETURNING id`, column)

	var updatedID uuid.UUID
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, value, uid).Scan(&updatedID)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		if alreadyExists != nil {
			return nil, mapUniqueViolation(op, err, alreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.RetrieveByID(ctx, updatedID)
}

func (r *UserRepository) retrieveOne(ctx context.Context, op, query string, args ...any) (*models.User, error) {
	u := &models.User{}
	service := &models.UserService{}
	var (
		roleID          *uuid.UUID
		roleName        *string
		roleDescription *string
		roleLevel       *int
		roleCreatedAt   *time.Time
		roleUpdatedAt   *time.Time
	)
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, args...).Scan(
			&u.ID, &u.Email, &u.Login, &u.PasswordHash, &u.UserServiceID,
			&u.FullName, &u.ProfilePicture, &u.Birthday, &u.PhoneNumber, &u.Bio,
			&u.CreatedAt, &u.UpdatedAt,
			&service.ID, &service.RoleID, &service.Active, &service.Verified,
			&service.CreatedAt, &service.UpdatedAt,
			&roleID, &roleName, &roleDescription, &roleLevel,
			&roleCreatedAt, &roleUpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Роль может отсутствовать: внешняя ссылка снимается при удалении роли.
	if roleID != nil {
		service.Role = &models.Role{
			ID:          *roleID,
			Name:        *roleName,
			Description: roleDescription,
			AccessLevel: models.AccessLevel(*roleLevel),
			CreatedAt:   *roleCreatedAt,
			UpdatedAt:   *roleUpdatedAt,
		}
	}
	u.Service = service
	return u, nil
}
