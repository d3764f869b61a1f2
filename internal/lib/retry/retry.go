// Package retry реализует политику повторов для временных сбоев
// хранилища: ограниченный экспоненциальный backoff, не более трех
// попыток и не более десяти секунд суммарно.
package retry

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	maxTries       = 3
	maxElapsedTime = 10 * time.Second
)

// Do выполняет fn, повторяя её только при временных сбоях соединения.
//
// Ошибки целостности, "не найдено" и отмена контекста не повторяются
// и возвращаются сразу.
func Do(ctx context.Context, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxElapsedTime

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if !Retriable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxTries-1), ctx))
}

// Retriable сообщает, относится ли ошибка к временным сбоям соединения.
func Retriable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
