package postgres

import (
	"errors"
	"fmt"

	"github.com/pribylovaa/news-analyzer/internal/storage"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapError переводит ошибки PostgreSQL в ошибки хранилища.
// Класс 22 и класс 23 дают storage.ErrRejected: такая строка не вставится
// и при повторе. Сбои соединения и аутентификации дают storage.ErrUnavailable.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := pgErr.Code
		switch {
		case pgerrcode.IsDataException(code), pgerrcode.IsIntegrityConstraintViolation(code):
			return fmt.Errorf("%w: %w", storage.ErrRejected, err)
		case pgerrcode.IsConnectionException(code),
			pgerrcode.IsInvalidAuthorizationSpecification(code),
			pgerrcode.IsInvalidCatalogName(code),
			pgerrcode.IsInsufficientResources(code),
			code == pgerrcode.CannotConnectNow,
			code == pgerrcode.AdminShutdown,
			code == pgerrcode.CrashShutdown:
			return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
		}

		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	return err
}
