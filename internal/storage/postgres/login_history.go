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

// LoginHistoryRepository репозиторий истории входов, привязанный к транзакции scope.
type LoginHistoryRepository struct {
	tx pgx.Tx
}

// Insert записывает факт входа пользователя.
func (r *LoginHistoryRepository) Insert(ctx context.Context, entry models.LoginHistory) (*models.LoginHistory, error) {
	const op = "storage.postgres.LoginHistoryRepository.Insert"

	query := `INSERT INTO login_history (user_id, social_network_id)
		  VALUES ($1, $2)
		  RETURNING id, created_at`
	created := entry
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, entry.UserID, entry.SocialNetworkID).
			Scan(&created.ID, &created.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// RetrieveByID возвращает запись истории по ID или storage.ErrLoginHistoryNotFound.
func (r *LoginHistoryRepository) RetrieveByID(ctx context.Context, entryID uuid.UUID) (*models.LoginHistory, error) {
	const op = "storage.postgres.LoginHistoryRepository.RetrieveByID"

	query := `SELECT id, user_id, social_network_id, created_at
		  FROM login_history
		  WHERE id = $1`
	entry := &models.LoginHistory{}
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, entryID).Scan(
			&entry.ID, &entry.UserID, &entry.SocialNetworkID, &entry.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrLoginHistoryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

// RetrieveByUserID возвращает историю входов пользователя, свежие записи первыми.
func (r *LoginHistoryRepository) RetrieveByUserID(ctx context.Context, uid uuid.UUID) ([]*models.LoginHistory, error) {
	const op = "storage.postgres.LoginHistoryRepository.RetrieveByUserID"

	query := `SELECT id, user_id, social_network_id, created_at
		  FROM login_history
		  WHERE user_id = $1
		  ORDER BY created_at DESC`
	var result []*models.LoginHistory
	err := retry.Do(ctx, func() error {
		rows, err := r.tx.Query(ctx, query, uid)
		if err != nil {
			return err
		}
		defer rows.Close()

		result = result[:0]
		for rows.Next() {
			entry := &models.LoginHistory{}
			if err = rows.Scan(&entry.ID, &entry.UserID,
				&entry.SocialNetworkID, &entry.CreatedAt); err != nil {
				return err
			}
			result = append(result, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
