// sqlite — файловое хранилище статей на modernc.org/sqlite.
//
// Запись идёт через отдельный хендл с одним соединением, чтение через
// второй хендл; WAL и busy_timeout позволяют читать во время записи
// (дашборд и отчёты работают параллельно с циклом опроса).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/storage"

	_ "modernc.org/sqlite"
)

// timeLayout — формат created_at, совпадает с CURRENT_TIMESTAMP.
const timeLayout = "2006-01-02 15:04:05"

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT,
	summary    TEXT,
	link       TEXT UNIQUE,
	published  TEXT,
	source     TEXT,
	sentiment  REAL,
	category   TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
`

// Storage — реализация storage.Storage поверх SQLite.
type Storage struct {
	readDB  *sql.DB
	writeDB *sql.DB
	now     storage.Clock
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

// New открывает (и при необходимости создаёт) базу по пути path.
func New(ctx context.Context, path string, opts ...Option) (*Storage, error) {
	const op = "storage.sqlite.New"

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: create dir: %w", op, err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	writeDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open write db: %w", op, err)
	}
	writeDB.SetMaxOpenConns(1)

	if _, err := writeDB.ExecContext(ctx, schema); err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("%s: init schema: %w", op, err)
	}

	readDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("%s: open read db: %w", op, err)
	}

	if err := readDB.PingContext(ctx); err != nil {
		readDB.Close()
		writeDB.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	s := &Storage{readDB: readDB, writeDB: writeDB, now: storage.UTCNow}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Close закрывает оба хендла.
func (s *Storage) Close() error {
	rerr := s.readDB.Close()
	werr := s.writeDB.Close()
	if werr != nil {
		return werr
	}

	return rerr
}

// nowString — текущее время хранилища в формате created_at.
func (s *Storage) nowString() (time.Time, string) {
	t := s.now().UTC().Truncate(time.Second)
	return t, t.Format(timeLayout)
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)
