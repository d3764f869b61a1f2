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

// SocialNetworkRepository репозиторий социальных сетей, привязанный к транзакции scope.
type SocialNetworkRepository struct {
	tx pgx.Tx
}

const socialNetworkSelect = `
	SELECT id, name, picture, created_at, updated_at
	FROM social_networks`

// Insert добавляет новую социальную сеть.
func (r *SocialNetworkRepository) Insert(ctx context.Context, network models.SocialNetwork) (*models.SocialNetwork, error) {
	const op = "storage.postgres.SocialNetworkRepository.Insert"

	query := `INSERT INTO social_networks (name, picture)
		  VALUES ($1, $2)
		  RETURNING id, created_at, updated_at`
	created := network
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, network.Name, network.Picture).
			Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// RetrieveByID возвращает социальную сеть по ID или storage.ErrSocialNetworkNotFound.
func (r *SocialNetworkRepository) RetrieveByID(ctx context.Context, networkID uuid.UUID) (*models.SocialNetwork, error) {
	const op = "storage.postgres.SocialNetworkRepository.RetrieveByID"
	return r.retrieveOne(ctx, op, socialNetworkSelect+` WHERE id = $1`, networkID)
}

// RetrieveByName возвращает социальную сеть по имени или storage.ErrSocialNetworkNotFound.
func (r *SocialNetworkRepository) RetrieveByName(ctx context.Context, name string) (*models.SocialNetwork, error) {
	const op = "storage.postgres.SocialNetworkRepository.RetrieveByName"
	return r.retrieveOne(ctx, op, socialNetworkSelect+` WHERE name = $1`, name)
}

// ChangePicture меняет иконку социальной сети.
func (r *SocialNetworkRepository) ChangePicture(ctx context.Context, networkID uuid.UUID, picture string) (*models.SocialNetwork, error) {
	const op = "storage.postgres.SocialNetworkRepository.ChangePicture"

	query := `UPDATE social_networks
		  SET picture = $1, updated_at = now()
		  WHERE id = $2
		  RETURNING id`
	var updatedID uuid.UUID
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, picture, networkID).Scan(&updatedID)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSocialNetworkNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.RetrieveByID(ctx, updatedID)
}

func (r *SocialNetworkRepository) retrieveOne(ctx context.Context, op, query string, args ...any) (*models.SocialNetwork, error) {
	network := &models.SocialNetwork{}
	err := retry.Do(ctx, func() error {
		return r.tx.QueryRow(ctx, query, args...).Scan(
			&network.ID, &network.Name, &network.Picture,
			&network.CreatedAt, &network.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSocialNetworkNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return network, nil
}
