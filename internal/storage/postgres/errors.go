package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapUniqueViolation приводит нарушение уникального ограничения к
// доменной ошибке alreadyExists, остальные ошибки оборачивает как есть.
func mapUniqueViolation(op string, err error, alreadyExists error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w", op, alreadyExists)
	}
	return fmt.Errorf("%s: %w", op, err)
}
