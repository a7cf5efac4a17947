package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/storage"
	logctx "github.com/pribylovaa/news-analyzer/pkg/log"
)

const selectColumns = `SELECT id, title, summary, link, published, source, sentiment, category, created_at FROM articles`

// InsertIfAbsent вставляет статью через INSERT OR IGNORE.
func (s *Storage) InsertIfAbsent(ctx context.Context, a models.Article) (bool, error) {
	const op = "storage.sqlite.InsertIfAbsent"

	_, ok, err := s.insert(ctx, a)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// SaveArticles вставляет статьи по одной; сбой строки не прерывает остальные.
func (s *Storage) SaveArticles(ctx context.Context, items []models.Article) ([]models.Article, error) {
	const op = "storage.sqlite.SaveArticles"

	var (
		inserted []models.Article
		errs     []error
	)

	for _, a := range items {
		saved, ok, err := s.insert(ctx, a)
		if err != nil {
			logctx.From(ctx).Warn("store_insert_failed",
				slog.String("op", op),
				slog.String("link", a.Link),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %s: %w", op, a.Link, err))
			continue
		}
		if ok {
			inserted = append(inserted, saved)
		}
	}

	return inserted, errors.Join(errs...)
}

func (s *Storage) insert(ctx context.Context, a models.Article) (models.Article, bool, error) {
	createdAt, created := s.nowString()

	res, err := s.writeDB.ExecContext(ctx, `
		INSERT OR IGNORE INTO articles (title, summary, link, published, source, sentiment, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Summary, a.Link, a.Published, a.Source, nullFloat(a.Sentiment), string(a.Category), created,
	)
	if err != nil {
		return a, false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return a, false, err
	}
	if n == 0 {
		return a, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return a, false, err
	}

	a.ID = id
	a.CreatedAt = createdAt

	return a, true, nil
}

// ByLink возвращает статью по ссылке.
func (s *Storage) ByLink(ctx context.Context, link string) (*models.Article, error) {
	const op = "storage.sqlite.ByLink"

	row := s.readDB.QueryRowContext(ctx, selectColumns+` WHERE link = ?`, link)

	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &a, nil
}

// Query собирает WHERE из фильтров запроса. Сортировка created_at DESC, id DESC.
func (s *Storage) Query(ctx context.Context, q models.Query) ([]models.Article, error) {
	const op = "storage.sqlite.Query"

	var (
		where []string
		args  []any
	)

	if c, ok := storage.CategoryFilter(q); ok {
		where = append(where, "category = ?")
		args = append(args, c)
	}

	if cutoff, ok := storage.Cutoff(s.now(), q.Hours); ok {
		where = append(where, "created_at >= ?")
		args = append(args, cutoff.Format(timeLayout))
	}

	if r, ok := storage.NarrowRange(q); ok {
		where = append(where, "sentiment IS NOT NULL AND sentiment BETWEEN ? AND ?")
		args = append(args, r.Min, r.Max)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	items, err := s.list(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// All возвращает всю таблицу, свежие первыми.
func (s *Storage) All(ctx context.Context) ([]models.Article, error) {
	const op = "storage.sqlite.All"

	items, err := s.list(ctx, selectColumns+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// Summary считает количество строк, источников и границы created_at.
func (s *Storage) Summary(ctx context.Context) (models.Summary, error) {
	const op = "storage.sqlite.Summary"

	var (
		sum              models.Summary
		earliest, latest timeValue
	)

	err := s.readDB.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT source), MIN(created_at), MAX(created_at) FROM articles`,
	).Scan(&sum.Total, &sum.Sources, &earliest, &latest)
	if err != nil {
		return models.Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	if earliest.Valid {
		t := earliest.Time
		sum.Earliest = &t
	}
	if latest.Valid {
		t := latest.Time
		sum.Latest = &t
	}

	return sum, nil
}

func (s *Storage) list(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	rows, err := s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(sc scanner) (models.Article, error) {
	var (
		a                                      models.Article
		title, summary, published, source, cat sql.NullString
		sentiment                              sql.NullFloat64
		created                                timeValue
	)

	if err := sc.Scan(&a.ID, &title, &summary, &a.Link, &published, &source, &sentiment, &cat, &created); err != nil {
		return models.Article{}, err
	}

	a.Title = title.String
	a.Summary = summary.String
	a.Published = published.String
	a.Source = source.String
	a.Category = models.Category(cat.String)
	if sentiment.Valid {
		a.Sentiment = models.Float(sentiment.Float64)
	}
	a.CreatedAt = created.Time

	return a, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}

// timeValue принимает created_at в любом виде, который отдаёт драйвер:
// time.Time для TIMESTAMP-колонок, строку для агрегатов MIN/MAX.
type timeValue struct {
	Time  time.Time
	Valid bool
}

func (t *timeValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = timeValue{}
		return nil
	case time.Time:
		*t = timeValue{Time: v.UTC(), Valid: true}
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported created_at type %T", src)
	}
}

func (t *timeValue) parse(s string) error {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02T15:04:05"} {
		if v, err := time.Parse(layout, s); err == nil {
			*t = timeValue{Time: v.UTC(), Valid: true}
			return nil
		}
	}

	return fmt.Errorf("unparsable created_at %q", s)
}
