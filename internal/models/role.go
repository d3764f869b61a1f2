package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessLevel упорядоченный уровень доступа роли.
type AccessLevel int

// Уровни доступа, от меньшего к большему.
const (
	AccessLevelBase AccessLevel = iota
	AccessLevelSubscriber
	AccessLevelSuperuser
)

func (a AccessLevel) String() string {
	switch a {
	case AccessLevelBase:
		return "base"
	case AccessLevelSubscriber:
		return "subscriber"
	case AccessLevelSuperuser:
		return "superuser"
	}
	return "unknown"
}

// Role представляет роль пользователя с уровнем доступа.
type Role struct {
	ID          uuid.UUID   // Уникальный идентификатор роли
	Name        string      // Имя роли (уникальное)
	Description *string     // Описание роли
	AccessLevel AccessLevel // Уровень доступа
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserService представляет сервисную запись пользователя: его роль
// и служебные флаги. Создается раньше пользователя в той же транзакции.
type UserService struct {
	ID        uuid.UUID  // Уникальный идентификатор записи
	RoleID    *uuid.UUID // Ссылка на роль, nil если роль была удалена
	Active    bool       // Активна ли учетная запись
	Verified  bool       // Подтверждена ли учетная запись
	CreatedAt time.Time
	UpdatedAt time.Time

	Role *Role // Роль, заполняется в рамках одной транзакции; может быть nil
}
