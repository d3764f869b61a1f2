// Package storage определяет контракты реляционного хранилища:
// репозитории доменных сущностей, scope транзакции и единицу работы.
// Реализация поверх PostgreSQL находится в подпакете postgres.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/identity-service/internal/models"
)

// UserRepository контракт репозитория пользователей.
type UserRepository interface {
	Insert(ctx context.Context, user models.User) (*models.User, error)
	RetrieveByID(ctx context.Context, uid uuid.UUID) (*models.User, error)
	RetrieveByEmail(ctx context.Context, email string) (*models.User, error)
	RetrieveByLogin(ctx context.Context, login string) (*models.User, error)
	RetrieveByEmailOrLogin(ctx context.Context, email, login string) (*models.User, error)
	ChangeEmail(ctx context.Context, uid uuid.UUID, email string) (*models.User, error)
	ChangeLogin(ctx context.Context, uid uuid.UUID, login string) (*models.User, error)
	ChangePassword(ctx context.Context, uid uuid.UUID, passwordHash string) (*models.User, error)
	UpdateAdditionalInfo(ctx context.Context, uid uuid.UUID, fields models.UserAdditionalFields) (*models.User, error)
}

// RoleRepository контракт репозитория ролей.
type RoleRepository interface {
	Insert(ctx context.Context, role models.Role) (*models.Role, error)
	RetrieveByID(ctx context.Context, roleID uuid.UUID) (*models.Role, error)
	RetrieveByName(ctx context.Context, name string) (*models.Role, error)
	RetrieveBaseRole(ctx context.Context) (*models.Role, error)
	UpdateAccessLevel(ctx context.Context, roleID uuid.UUID, level models.AccessLevel) (*models.Role, error)
	UpdateDescription(ctx context.Context, roleID uuid.UUID, description string) (*models.Role, error)
	Delete(ctx context.Context, roleID uuid.UUID) error
}

// UserServiceRepository контракт репозитория сервисных записей.
type UserServiceRepository interface {
	Insert(ctx context.Context, roleID uuid.UUID) (*models.UserService, error)
	RetrieveByID(ctx context.Context, uid uuid.UUID) (*models.UserService, error)
	UpdateActiveStatus(ctx context.Context, uid uuid.UUID, active bool) (*models.UserService, error)
	UpdateVerificationStatus(ctx context.Context, uid uuid.UUID, verified bool) (*models.UserService, error)
	UpdateRole(ctx context.Context, uid, roleID uuid.UUID) (*models.UserService, error)
}

// LoginHistoryRepository контракт репозитория истории входов.
type LoginHistoryRepository interface {
	Insert(ctx context.Context, entry models.LoginHistory) (*models.LoginHistory, error)
	RetrieveByID(ctx context.Context, entryID uuid.UUID) (*models.LoginHistory, error)
	RetrieveByUserID(ctx context.Context, uid uuid.UUID) ([]*models.LoginHistory, error)
}

// SocialNetworkRepository контракт репозитория социальных сетей.
type SocialNetworkRepository interface {
	Insert(ctx context.Context, network models.SocialNetwork) (*models.SocialNetwork, error)
	RetrieveByID(ctx context.Context, networkID uuid.UUID) (*models.SocialNetwork, error)
	RetrieveByName(ctx context.Context, name string) (*models.SocialNetwork, error)
	ChangePicture(ctx context.Context, networkID uuid.UUID, picture string) (*models.SocialNetwork, error)
}

// UserSocialAccountRepository контракт репозитория привязок социальных аккаунтов.
type UserSocialAccountRepository interface {
	Insert(ctx context.Context, account models.UserSocialAccount) (*models.UserSocialAccount, error)
	DeleteByID(ctx context.Context, accountID uuid.UUID) error
	DeleteByUserAndSocialNetwork(ctx context.Context, userID, networkID uuid.UUID) error
	RetrieveByID(ctx context.Context, accountID uuid.UUID) (*models.UserSocialAccount, error)
	RetrieveByUserID(ctx context.Context, userID uuid.UUID) ([]*models.UserSocialAccount, error)
	RetrieveBySocialNetworkID(ctx context.Context, networkID uuid.UUID) ([]*models.UserSocialAccount, error)
}

// Scope набор репозиториев, привязанных к одной открытой транзакции.
// Все операции внутри одного scope видят незакоммиченные записи друг
// друга; наружу изменения не видны до коммита.
type Scope struct {
	Users              UserRepository
	UserServices       UserServiceRepository
	Roles              RoleRepository
	LoginHistory       LoginHistoryRepository
	SocialNetworks     SocialNetworkRepository
	UserSocialAccounts UserSocialAccountRepository
}

// DatabaseUoW граница транзакции реляционного хранилища.
// Паттерн: Unit of Work.
type DatabaseUoW interface {
	// Do выполняет fn в рамках одной транзакции. Ошибка из fn
	// откатывает транзакцию и возвращается без изменений; при успехе
	// коммит выполняется только если autocommit = true.
	Do(ctx context.Context, autocommit bool, fn func(s *Scope) error) error
}
