// postgres — хранилище статей на PostgreSQL (pgxpool).
package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/pribylovaa/news-analyzer/internal/storage"
	"github.com/pribylovaa/news-analyzer/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage — реализация storage.Storage поверх пула pgx.
type Storage struct {
	db  *pgxpool.Pool
	now storage.Clock
}

// Option настраивает Storage.
type Option func(*Storage)

// WithClock подменяет источник времени для created_at.
func WithClock(c storage.Clock) Option {
	return func(s *Storage) {
		if c != nil {
			s.now = c
		}
	}
}

// New создает новое подключение к PostgreSQL и применяет схему.
func New(ctx context.Context, dbURL string, opts ...Option) (*Storage, error) {
	const op = "storage.postgres.New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	s := &Storage{db: db, now: storage.UTCNow}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// migrate применяет встроенные *.up.sql по порядку; миграции идемпотентны.
func (s *Storage) migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if strings.TrimSpace(string(body)) == "" {
			continue
		}
		if _, err := s.db.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, mapError(err))
		}
	}

	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)
