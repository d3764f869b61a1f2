package storage

import "errors"

// Типизированные ошибки репозиториев. Операции чтения никогда не
// возвращают nil-сущность без ошибки: отсутствие строки — это ошибка.
var (
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleNotFound роль не найдена.
	ErrRoleNotFound = errors.New("role not found")
	// ErrBaseRoleNotFound базовая роль для новых пользователей отсутствует.
	ErrBaseRoleNotFound = errors.New("base role not found")
	// ErrUserServiceNotFound сервисная запись пользователя не найдена.
	ErrUserServiceNotFound = errors.New("user service not found")
	// ErrSocialNetworkNotFound социальная сеть не найдена.
	ErrSocialNetworkNotFound = errors.New("social network not found")
	// ErrUserSocialAccountNotFound привязка социального аккаунта не найдена.
	ErrUserSocialAccountNotFound = errors.New("user social account not found")
	// ErrLoginHistoryNotFound запись истории входов не найдена.
	ErrLoginHistoryNotFound = errors.New("login history entry not found")

	// ErrUserAlreadyExists пользователь с таким email или login уже существует.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrRoleAlreadyExists роль с таким именем уже существует.
	ErrRoleAlreadyExists = errors.New("role already exists")
)
