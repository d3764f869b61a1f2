// Package models содержит доменные модели сервиса идентификации:
// пользователей, роли, сервисные записи и социальные привязки.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID             uuid.UUID  // Уникальный идентификатор пользователя
	Email          string     // Электронная почта (уникальная)
	Login          string     // Логин пользователя (уникальный)
	PasswordHash   string     // Хэш пароля, в открытом виде пароль не хранится
	UserServiceID  uuid.UUID  // Ссылка на сервисную запись пользователя
	FullName       *string    // Полное имя
	ProfilePicture *string    // Ссылка на аватар
	Birthday       *time.Time // Дата рождения
	PhoneNumber    *string    // Номер телефона
	Bio            *string    // Описание профиля
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Service *UserService // Сервисная запись, заполняется в рамках одной транзакции
}

// UserAdditionalFields необязательные поля профиля пользователя.
// Nil-поле означает "не менять".
type UserAdditionalFields struct {
	FullName       *string
	ProfilePicture *string
	Birthday       *time.Time
	PhoneNumber    *string
	Bio            *string
}
