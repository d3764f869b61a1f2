// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и управления сессионными токенами.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/identity-service/internal/cache"
	"github.com/magabrotheeeer/identity-service/internal/lib/jwt"
	"github.com/magabrotheeeer/identity-service/internal/lib/password"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	"github.com/magabrotheeeer/identity-service/internal/models"
	"github.com/magabrotheeeer/identity-service/internal/storage"
)

// Ошибки бизнес-уровня.
var (
	// ErrInvalidCredentials единый ответ и на неизвестный email/login,
	// и на неверный пароль: по ответу нельзя перечислять аккаунты.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCacheWriteFailed сессионные токены не записаны в кэш.
	// Учетная запись при этом остается валидной, повторный вход
	// выдаст новую пару токенов.
	ErrCacheWriteFailed = errors.New("failed to store session tokens")
	// ErrRefreshTokenRevoked refresh-токен отозван или истек в кэше.
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// CacheUoW граница пакетной записи в кэш токенов.
type CacheUoW interface {
	Do(ctx context.Context, transactional bool, fn func(s *cache.Scope) error) ([]redis.Cmder, error)
}

// TokenCreator выпускает и проверяет сессионные токены.
type TokenCreator interface {
	CreateAccessToken(uid uuid.UUID, extra map[string]any) (*jwt.Token, error)
	CreateRefreshToken(uid uuid.UUID) (*jwt.Token, error)
	Decode(token string) (*jwt.Claims, error)
}

// EventPublisher отправляет доменные события во внешнюю шину.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// TokenPair пара сессионных токенов, выдаваемая при входе и регистрации.
type TokenPair struct {
	Access  *jwt.Token
	Refresh *jwt.Token
}

// AuthService отвечает за регистрацию, вход, выход и валидацию токенов.
type AuthService struct {
	db          storage.DatabaseUoW
	cache       CacheUoW
	tokens      TokenCreator
	events      EventPublisher
	defaultRole string
	log         *slog.Logger
}

// NewAuthService создает сервис аутентификации. events может быть nil,
// тогда доменные события не публикуются.
func NewAuthService(db storage.DatabaseUoW, cacheUoW CacheUoW, tokens TokenCreator,
	events EventPublisher, defaultRole string, log *slog.Logger) *AuthService {
	return &AuthService{
		db:          db,
		cache:       cacheUoW,
		tokens:      tokens,
		events:      events,
		defaultRole: defaultRole,
		log:         log,
	}
}

// Register создает пользователя с базовой ролью и выдает пару токенов.
//
// Проверка занятости email/login, создание сервисной записи и самого
// пользователя выполняются в одной транзакции: параллельная
// регистрация с теми же реквизитами упрется в уникальные ограничения
// и вернет storage.ErrUserAlreadyExists.
func (s *AuthService) Register(ctx context.Context, email, login, rawPassword string) (*models.User, *TokenPair, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	var user *models.User
	err = s.db.Do(ctx, true, func(sc *storage.Scope) error {
		_, err := sc.Users.RetrieveByEmailOrLogin(ctx, email, login)
		if err == nil {
			return storage.ErrUserAlreadyExists
		}
		if !errors.Is(err, storage.ErrUserNotFound) {
			return err
		}

		role, err := sc.Roles.RetrieveByName(ctx, s.defaultRole)
		if err != nil {
			if errors.Is(err, storage.ErrRoleNotFound) {
				return storage.ErrBaseRoleNotFound
			}
			return err
		}

		service, err := sc.UserServices.Insert(ctx, role.ID)
		if err != nil {
			return err
		}

		user, err = sc.Users.Insert(ctx, models.User{
			Email:         email,
			Login:         login,
			PasswordHash:  hashed,
			UserServiceID: service.ID,
		})
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish("user.registered", userEvent{UserUID: user.ID, Email: user.Email, Login: user.Login})
	return user, pair, nil
}

// Login проверяет пароль и выдает пару токенов. Реквизит с символом
// "@" трактуется как email, иначе как login.
func (s *AuthService) Login(ctx context.Context, credential, rawPassword string) (*models.User, *TokenPair, error) {
	const op = "services.auth.Login"

	var user *models.User
	err := s.db.Do(ctx, false, func(sc *storage.Scope) error {
		var err error
		if strings.Contains(credential, "@") {
			user, err = sc.Users.RetrieveByEmail(ctx, credential)
		} else {
			user, err = sc.Users.RetrieveByLogin(ctx, credential)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	// Историю пишем только за фактически состоявшийся вход
	s.recordLogin(ctx, user.ID)

	s.publish("user.logged_in", userEvent{UserUID: user.ID, Email: user.Email, Login: user.Login})
	return user, pair, nil
}

// Refresh меняет валидный refresh-токен на новую пару токенов.
// Старый refresh-токен отзывается атомарно с записью новой пары.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "services.auth.Refresh"

	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var existsCmd *redis.IntCmd
	if _, err = s.cache.Do(ctx, false, func(sc *cache.Scope) error {
		existsCmd = sc.RefreshTokens.Exists(ctx, claims.UserUID, refreshToken)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existsCmd.Val() == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrRefreshTokenRevoked)
	}

	access, err := s.tokens.CreateAccessToken(claims.UserUID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := s.tokens.CreateRefreshToken(claims.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = s.cache.Do(ctx, true, func(sc *cache.Scope) error {
		sc.RefreshTokens.Delete(ctx, claims.UserUID, refreshToken)
		sc.AccessTokens.Insert(ctx, claims.UserUID, access.Encoded(), access.ExpiresAt)
		sc.RefreshTokens.Insert(ctx, claims.UserUID, refresh.Encoded(), refresh.ExpiresAt)
		return nil
	}); err != nil {
		s.log.Error("failed to rotate refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrCacheWriteFailed)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Logout отзывает refresh-токен. Отзыв идемпотентен: повторный вызов
// с тем же токеном не является ошибкой.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	const op = "services.auth.Logout"

	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = s.cache.Do(ctx, false, func(sc *cache.Scope) error {
		sc.RefreshTokens.Delete(ctx, claims.UserUID, refreshToken)
		return nil
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет подпись и срок действия access-токена.
func (s *AuthService) ValidateToken(_ context.Context, accessToken string) (*jwt.Claims, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.tokens.Decode(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

// Profile возвращает пользователя вместе с сервисной записью и ролью.
func (s *AuthService) Profile(ctx context.Context, uid uuid.UUID) (*models.User, error) {
	const op = "services.auth.Profile"

	var user *models.User
	err := s.db.Do(ctx, false, func(sc *storage.Scope) error {
		var err error
		user, err = sc.Users.RetrieveByID(ctx, uid)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// LoginHistory возвращает историю входов пользователя, свежие записи первыми.
func (s *AuthService) LoginHistory(ctx context.Context, uid uuid.UUID) ([]*models.LoginHistory, error) {
	const op = "services.auth.LoginHistory"

	var entries []*models.LoginHistory
	err := s.db.Do(ctx, false, func(sc *storage.Scope) error {
		var err error
		entries, err = sc.LoginHistory.RetrieveByUserID(ctx, uid)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// issueTokens выпускает пару токенов и записывает refresh-токен в кэш.
// Access-токен не кэшируется: он проверяется по подписи и сроку действия.
// Ошибка записи в кэш не отменяет состояние пользователя в базе, но
// токены наружу не выдаются.
func (s *AuthService) issueTokens(ctx context.Context, uid uuid.UUID) (*TokenPair, error) {
	access, err := s.tokens.CreateAccessToken(uid, nil)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.CreateRefreshToken(uid)
	if err != nil {
		return nil, err
	}

	if _, err = s.cache.Do(ctx, false, func(sc *cache.Scope) error {
		sc.RefreshTokens.Insert(ctx, uid, refresh.Encoded(), refresh.ExpiresAt)
		return nil
	}); err != nil {
		s.log.Error("failed to cache session tokens", sl.Err(err), slog.String("uid", uid.String()))
		return nil, ErrCacheWriteFailed
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// recordLogin пишет запись истории входов в отдельной транзакции.
// Сбой записи не блокирует вход.
func (s *AuthService) recordLogin(ctx context.Context, uid uuid.UUID) {
	err := s.db.Do(ctx, true, func(sc *storage.Scope) error {
		_, err := sc.LoginHistory.Insert(ctx, models.LoginHistory{UserID: uid})
		return err
	})
	if err != nil {
		s.log.Warn("failed to record login history", sl.Err(err), slog.String("uid", uid.String()))
	}
}

// userEvent полезная нагрузка доменных событий пользователя.
type userEvent struct {
	UserUID uuid.UUID `json:"user_uid"`
	Email   string    `json:"email"`
	Login   string    `json:"login"`
	Time    time.Time `json:"time"`
}

func (s *AuthService) publish(routingKey string, event userEvent) {
	if s.events == nil {
		return
	}
	event.Time = time.Now().UTC()
	if err := s.events.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish event", sl.Err(err), slog.String("routing_key", routingKey))
	}
}
