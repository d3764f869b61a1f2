package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UnitOfWork собирает команды над кэшем токенов в один конвейер.
// Паттерн: Unit of Work.
type UnitOfWork struct {
	cache *Cache
	keys  *KeySchema
}

// NewUnitOfWork создает единицу работы поверх клиента Redis и схемы ключей.
func NewUnitOfWork(cache *Cache, keys *KeySchema) *UnitOfWork {
	return &UnitOfWork{cache: cache, keys: keys}
}

// Scope репозитории токенов, привязанные к одному открытому конвейеру.
type Scope struct {
	AccessTokens  *AccessTokenRepository
	RefreshTokens *RefreshTokenRepository

	pipe redis.Pipeliner
}

// Do выполняет fn над конвейером команд.
//
// При transactional = true конвейер исполняется атомарно (MULTI/EXEC),
// иначе — по порядку без гарантии отката. Ошибка из fn отбрасывает
// конвейер: в Redis не уходит ни одной команды. При успехе конвейер
// исполняется, возвращаются результаты каждой команды.
func (u *UnitOfWork) Do(ctx context.Context, transactional bool, fn func(s *Scope) error) ([]redis.Cmder, error) {
	const op = "cache.Do"

	var pipe redis.Pipeliner
	if transactional {
		pipe = u.cache.Db.TxPipeline()
	} else {
		pipe = u.cache.Db.Pipeline()
	}

	scope := &Scope{
		AccessTokens:  &AccessTokenRepository{pipe: pipe, keys: u.keys},
		RefreshTokens: &RefreshTokenRepository{pipe: pipe, keys: u.keys},
		pipe:          pipe,
	}
	if err := fn(scope); err != nil {
		pipe.Discard()
		return nil, err
	}

	responses, err := pipe.Exec(ctx)
	if err != nil {
		return responses, fmt.Errorf("%s: %w", op, err)
	}
	return responses, nil
}

// AccessTokenRepository ставит в конвейер команды над access-токенами.
type AccessTokenRepository struct {
	pipe redis.Pipeliner
	keys *KeySchema
}

// Insert ставит в конвейер запись access-токена. Значением хранится
// момент истечения; Redis сам удалит ключ в этот момент через EXAT.
func (r *AccessTokenRepository) Insert(ctx context.Context, uid uuid.UUID, accessToken string, expiresAt time.Time) {
	key := r.keys.UserAccessTokenKey(uid, accessToken)
	r.pipe.SetArgs(ctx, key, expiresAt.Unix(), redis.SetArgs{ExpireAt: expiresAt})
}

// Exists ставит в конвейер проверку существования access-токена.
// Результат команды доступен после исполнения конвейера.
func (r *AccessTokenRepository) Exists(ctx context.Context, uid uuid.UUID, accessToken string) *redis.IntCmd {
	return r.pipe.Exists(ctx, r.keys.UserAccessTokenKey(uid, accessToken))
}

// RefreshTokenRepository ставит в конвейер команды над refresh-токенами.
// Токен входит в ключ, поэтому несколько параллельных сессий одного
// пользователя хранятся под разными ключами.
type RefreshTokenRepository struct {
	pipe redis.Pipeliner
	keys *KeySchema
}

// Insert ставит в конвейер запись refresh-токена со сроком жизни,
// равным сроку действия токена.
func (r *RefreshTokenRepository) Insert(ctx context.Context, uid uuid.UUID, refreshToken string, expiresAt time.Time) {
	key := r.keys.UserRefreshTokenKey(uid, refreshToken)
	r.pipe.SetArgs(ctx, key, expiresAt.Unix(), redis.SetArgs{ExpireAt: expiresAt})
}

// Exists ставит в конвейер проверку существования refresh-токена.
// Результат команды доступен после исполнения конвейера.
func (r *RefreshTokenRepository) Exists(ctx context.Context, uid uuid.UUID, refreshToken string) *redis.IntCmd {
	return r.pipe.Exists(ctx, r.keys.UserRefreshTokenKey(uid, refreshToken))
}

// Delete ставит в конвейер удаление refresh-токена: используется при
// выходе пользователя и ротации токенов.
func (r *RefreshTokenRepository) Delete(ctx context.Context, uid uuid.UUID, refreshToken string) {
	r.pipe.Del(ctx, r.keys.UserRefreshTokenKey(uid, refreshToken))
}
