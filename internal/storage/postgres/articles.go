package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/storage"
	logctx "github.com/pribylovaa/news-analyzer/pkg/log"

	"github.com/jackc/pgx/v5"
)

const selectColumns = `SELECT id, title, summary, link, published, source, sentiment, category, created_at FROM articles`

// InsertIfAbsent вставляет статью; конфликт по link — не ошибка.
func (s *Storage) InsertIfAbsent(ctx context.Context, a models.Article) (bool, error) {
	const op = "storage.postgres.InsertIfAbsent"

	_, ok, err := s.insert(ctx, a)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// SaveArticles вставляет статьи по одной, без общей транзакции:
// упавшая строка логируется и пропускается.
func (s *Storage) SaveArticles(ctx context.Context, items []models.Article) ([]models.Article, error) {
	const op = "storage.postgres.SaveArticles"

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
	createdAt := s.now().UTC().Truncate(time.Second)

	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO articles (title, summary, link, published, source, sentiment, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (link) DO NOTHING
		RETURNING id`,
		a.Title, a.Summary, a.Link, a.Published, a.Source, a.Sentiment, string(a.Category), createdAt,
	).Scan(&id)
	if err != nil {
		// ON CONFLICT DO NOTHING не возвращает строку.
		if errors.Is(err, pgx.ErrNoRows) {
			return a, false, nil
		}
		return a, false, mapError(err)
	}

	a.ID = id
	a.CreatedAt = createdAt

	return a, true, nil
}

// ByLink возвращает статью по ссылке.
func (s *Storage) ByLink(ctx context.Context, link string) (*models.Article, error) {
	const op = "storage.postgres.ByLink"

	a, err := scanArticle(s.db.QueryRow(ctx, selectColumns+` WHERE link = $1`, link))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &a, nil
}

// Query собирает WHERE из фильтров. Сортировка created_at DESC, id DESC.
func (s *Storage) Query(ctx context.Context, q models.Query) ([]models.Article, error) {
	const op = "storage.postgres.Query"

	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if c, ok := storage.CategoryFilter(q); ok {
		where = append(where, "category = "+arg(c))
	}

	if cutoff, ok := storage.Cutoff(s.now(), q.Hours); ok {
		where = append(where, "created_at >= "+arg(cutoff))
	}

	if r, ok := storage.NarrowRange(q); ok {
		where = append(where, "sentiment IS NOT NULL AND sentiment BETWEEN "+arg(r.Min)+" AND "+arg(r.Max))
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}

	items, err := s.list(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// All возвращает всю таблицу, свежие первыми.
func (s *Storage) All(ctx context.Context) ([]models.Article, error) {
	const op = "storage.postgres.All"

	items, err := s.list(ctx, selectColumns+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// Summary считает количество строк, источников и границы created_at.
func (s *Storage) Summary(ctx context.Context) (models.Summary, error) {
	const op = "storage.postgres.Summary"

	var (
		sum              models.Summary
		earliest, latest *time.Time
	)

	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT source), MIN(created_at), MAX(created_at) FROM articles`,
	).Scan(&sum.Total, &sum.Sources, &earliest, &latest)
	if err != nil {
		return models.Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	if earliest != nil {
		t := earliest.UTC()
		sum.Earliest = &t
	}
	if latest != nil {
		t := latest.UTC()
		sum.Latest = &t
	}

	return sum, nil
}

func (s *Storage) list(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	rows, err := s.db.Query(ctx, query, args...)
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

func scanArticle(row pgx.Row) (models.Article, error) {
	var (
		a                                      models.Article
		title, summary, published, source, cat *string
	)

	if err := row.Scan(&a.ID, &title, &summary, &a.Link, &published, &source, &a.Sentiment, &cat, &a.CreatedAt); err != nil {
		return models.Article{}, err
	}

	a.Title = deref(title)
	a.Summary = deref(summary)
	a.Published = deref(published)
	a.Source = deref(source)
	a.Category = models.Category(deref(cat))
	a.CreatedAt = a.CreatedAt.UTC()

	return a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
