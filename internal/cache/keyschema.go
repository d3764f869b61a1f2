package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultKeyPrefix префикс всех ключей токенов в Redis.
const DefaultKeyPrefix = "auth:jwt-tokens"

// KeySchema детерминированно строит имена ключей Redis для токенов.
// Токен входит в ключ целиком, чтобы проверка существования была точной
// и разные сессии одного пользователя не затирали друг друга.
type KeySchema struct {
	prefix string
}

// NewKeySchema создает схему ключей с заданным префиксом.
// Пустой префикс заменяется на DefaultKeyPrefix.
func NewKeySchema(prefix string) *KeySchema {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &KeySchema{prefix: prefix}
}

// UserAccessTokenKey возвращает ключ access-токена пользователя.
func (k *KeySchema) UserAccessTokenKey(uid uuid.UUID, accessToken string) string {
	return fmt.Sprintf("%s:access-token:%s:%s", k.prefix, uid, accessToken)
}

// UserRefreshTokenKey возвращает ключ refresh-токена пользователя.
func (k *KeySchema) UserRefreshTokenKey(uid uuid.UUID, refreshToken string) string {
	return fmt.Sprintf("%s:refresh-token:%s:%s", k.prefix, uid, refreshToken)
}
