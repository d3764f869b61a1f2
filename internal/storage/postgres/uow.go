package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magabrotheeeer/identity-service/internal/lib/retry"
	"github.com/magabrotheeeer/identity-service/internal/storage"
)

// UnitOfWork открывает ограниченные по времени жизни транзакции над
// реляционным хранилищем. Реализует storage.DatabaseUoW.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork создает единицу работы поверх пула соединений.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func newScope(tx pgx.Tx) *storage.Scope {
	return &storage.Scope{
		Users:              &UserRepository{tx: tx},
		UserServices:       &UserServiceRepository{tx: tx},
		Roles:              &RoleRepository{tx: tx},
		LoginHistory:       &LoginHistoryRepository{tx: tx},
		SocialNetworks:     &SocialNetworkRepository{tx: tx},
		UserSocialAccounts: &UserSocialAccountRepository{tx: tx},
	}
}

// Do выполняет fn в рамках одной транзакции.
//
// Ошибка из fn откатывает транзакцию и возвращается без изменений;
// коммит при ошибочном выходе не выполняется никогда. При успехе
// коммит выполняется только если autocommit = true, иначе изменения
// отбрасываются при возврате соединения. Соединение возвращается в
// пул на любом пути выхода.
func (u *UnitOfWork) Do(ctx context.Context, autocommit bool, fn func(s *storage.Scope) error) error {
	const op = "storage.postgres.Do"

	var tx pgx.Tx
	err := retry.Do(ctx, func() error {
		var beginErr error
		tx, beginErr = u.pool.Begin(ctx)
		return beginErr
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Открытая транзакция всегда доводится до commit или rollback,
	// даже если контекст запроса уже отменен.
	endCtx := context.WithoutCancel(ctx)
	defer func() {
		_ = tx.Rollback(endCtx)
	}()

	if err = fn(newScope(tx)); err != nil {
		return err
	}
	if autocommit {
		if err = tx.Commit(endCtx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
