package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialNetwork представляет социальную сеть, через которую
// пользователь может входить в сервис.
type SocialNetwork struct {
	ID        uuid.UUID // Уникальный идентификатор
	Name      string    // Название социальной сети
	Picture   *string   // Ссылка на иконку
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSocialAccount привязка аккаунта пользователя в социальной сети.
type UserSocialAccount struct {
	ID              uuid.UUID // Уникальный идентификатор привязки
	UserID          uuid.UUID // Пользователь
	SocialNetworkID uuid.UUID // Социальная сеть
	SocialAccountID string    // Идентификатор аккаунта на стороне социальной сети
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LoginHistory запись об успешном входе пользователя.
// SocialNetworkID заполняется только при входе через социальную сеть.
type LoginHistory struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	SocialNetworkID *uuid.UUID
	CreatedAt       time.Time
}
