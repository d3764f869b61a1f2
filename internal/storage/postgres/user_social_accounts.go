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

// UserSocialAccountRepository репозиторий привязок социальных аккаунтов,
// привязанный к транзакции scope.
type UserSocialAccountRepository struct {
	tx pgx.Tx
}

const userSocialAccountSelect = `
	SELECT id, user_id, social_network_id, social_account_id, created_at, updated_at
	FROM user_social_accounts`

// Insert добавляет привязку аккаунта пользователя в социальной сети.
func (r *UserSocialAccountRepository) Insert(ctx context.Context, account models.UserSocialAccount) (*models.UserSocialAccount, error) {
	const op = "storage.postgres.UserSocialAccountRepository.Insert"

	query := `INSERT INTO user_social_accounts (user_id, social_network_id, social_account_id)
		  VALUES ($1, $2, $3)
		  RETURNING id, created_at, updated_at`
	created := account
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, account.UserID, account.SocialNetworkID,
			account.SocialAccountID).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// DeleteByID удаляет привязку по её ID.
func (r *UserSocialAccountRepository) DeleteByID(ctx context.Context, accountID uuid.UUID) error {
	const op = "storage.postgres.UserSocialAccountRepository.DeleteByID"

	err := retry.Do(ctx, func() error {
		_, execErr := r.tx.Exec(ctx,
			`DELETE FROM user_social_accounts WHERE id = $1`, accountID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteByUserAndSocialNetwork удаляет привязку пользователя к конкретной социальной сети.
func (r *UserSocialAccountRepository) DeleteByUserAndSocialNetwork(ctx context.Context, userID, networkID uuid.UUID) error {
	const op = "storage.postgres.UserSocialAccountRepository.DeleteByUserAndSocialNetwork"

	err := retry.Do(ctx, func() error {
		_, execErr := r.tx.Exec(ctx,
			`DELETE FROM user_social_accounts WHERE user_id = $1 AND social_network_id = $2`,
			userID, networkID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RetrieveByID возвращает привязку по ID или storage.ErrUserSocialAccountNotFound.
func (r *UserSocialAccountRepository) RetrieveByID(ctx context.Context, accountID uuid.UUID) (*models.UserSocialAccount, error) {
	const op = "storage.postgres.UserSocialAccountRepository.RetrieveByID"

	account := &models.UserSocialAccount{}
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, userSocialAccountSelect+` WHERE id = $1`, accountID).Scan(
			&account.ID, &account.UserID, &account.SocialNetworkID,
			&account.SocialAccountID, &account.CreatedAt, &account.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserSocialAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}

// RetrieveByUserID возвращает все привязки пользователя.
func (r *UserSocialAccountRepository) RetrieveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.UserSocialAccount, error) {
	const op = "storage.postgres.UserSocialAccountRepository.RetrieveByUserID"
	return r.retrieveAll(ctx, op, userSocialAccountSelect+` WHERE user_id = $1`, userID)
}

// RetrieveBySocialNetworkID возвращает все привязки в рамках одной социальной сети.
func (r *UserSocialAccountRepository) RetrieveBySocialNetworkID(ctx context.Context, networkID uuid.UUID) ([]*models.UserSocialAccount, error) {
	const op = "storage.postgres.UserSocialAccountRepository.RetrieveBySocialNetworkID"
	return r.retrieveAll(ctx, op, userSocialAccountSelect+` WHERE social_network_id = $1`, networkID)
}

func (r *UserSocialAccountRepository) retrieveAll(ctx context.Context, op, query string, args ...any) ([]*models.UserSocialAccount, error) {
	var result []*models.UserSocialAccount
	err := retry.Do(ctx, func() error {
		rows, err := r.tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		result = result[:0]
		for rows.Next() {
			account := &models.UserSocialAccount{}
			if err = rows.Scan(&account.ID, &account.UserID, &account.SocialNetworkID,
				&account.SocialAccountID, &account.CreatedAt, &account.UpdatedAt); err != nil {
				return err
			}
			result = append(result, account)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
