// Package jwt реализует кодек подписанных токенов сессии: создание
// access и refresh токенов с настраиваемым алгоритмом подписи и
// проверку с разделением ошибок "истек" и "невалиден".
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/identity-service/internal/config"
)

// Ошибки декодирования токена.
var (
	// ErrTokenExpired срок действия токена истек, подпись при этом корректна.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid токен поврежден или подписан другим ключом.
	ErrTokenInvalid = errors.New("token invalid")
)

// Token подписанный токен, привязанный к пользователю.
type Token struct {
	UserUID   uuid.UUID // Пользователь, которому выдан токен
	ExpiresAt time.Time // Момент истечения срока действия
	encoded   string
}

// Encoded возвращает токен в подписанном закодированном виде.
func (t *Token) Encoded() string {
	return t.encoded
}

// Claims данные, хранящиеся в токене.
type Claims struct {
	UserUID              uuid.UUID `json:"uid"` // Идентификатор пользователя
	jwt.RegisteredClaims           // Стандартные клеймы (ExpiresAt, IssuedAt и пр.)
}

// Creator создает и проверяет токены с общим секретом и заданным
// алгоритмом подписи. Не обращается к хранилищам.
type Creator struct {
	secretKey  string
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCreator создает Creator из настроек токенов.
//
// Допускаются только симметричные HMAC-алгоритмы; TTL refresh-токена
// должен быть строго больше TTL access-токена.
func NewCreator(cfg config.Tokens) (*Creator, error) {
	const op = "jwt.NewCreator"

	method := jwt.GetSigningMethod(cfg.SigningMethod)
	if method == nil {
		return nil, fmt.Errorf("%s: unknown signing method %q", op, cfg.SigningMethod)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%s: signing method %q is not symmetric", op, cfg.SigningMethod)
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("%s: empty secret key", op)
	}
	if cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return nil, fmt.Errorf("%s: refresh ttl %s must be greater than access ttl %s",
			op, cfg.RefreshTokenTTL, cfg.AccessTokenTTL)
	}
	return &Creator{
		secretKey:  cfg.JWTSecretKey,
		method:     method,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// CreateAccessToken создает короткоживущий access-токен для пользователя.
//
// extra добавляет произвольные клеймы в полезную нагрузку; ключи
// "uid", "exp" и "iat" зарезервированы и игнорируются.
func (c *Creator) CreateAccessToken(uid uuid.UUID, extra map[string]any) (*Token, error) {
	return c.create(uid, c.accessTTL, extra)
}

// CreateRefreshToken создает долгоживущий refresh-токен для пользователя.
func (c *Creator) CreateRefreshToken(uid uuid.UUID) (*Token, error) {
	return c.create(uid, c.refreshTTL, nil)
}

func (c *Creator) create(uid uuid.UUID, ttl time.Duration, extra map[string]any) (*Token, error) {
	const op = "jwt.create"

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := jwt.MapClaims{
		"uid": uid.String(),
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(expiresAt),
	}
	for key, value := range extra {
		if key == "uid" || key == "exp" || key == "iat" {
			continue
		}
		claims[key] = value
	}

	encoded, err := jwt.NewWithClaims(c.method, claims).SignedString([]byte(c.secretKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Token{
		UserUID:   uid,
		ExpiresAt: expiresAt,
		encoded:   encoded,
	}, nil
}

// Decode проверяет подпись и срок действия токена и возвращает его клеймы.
//
// Возвращает ErrTokenExpired для просроченного токена и ErrTokenInvalid
// для любого другого дефекта; просроченный токен никогда не считается валидным.
func (c *Creator) Decode(tokenStr string) (*Claims, error) {
	const op = "jwt.Decode"

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(_ *jwt.Token) (any, error) {
			return []byte(c.secretKey), nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	return claims, nil
}
