package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/pkg/log"
)

// NormalizeQuery проверяет и нормализует параметры выборки.
//
// Правила:
// - category: "all", "" или одна из категорий ("conflict" — синоним conflict/crisis);
// - hours < 0 -> ErrInvalidArgument, 0 -> за всё время;
// - sentiment: Min > Max или выход за [-1, 1] -> ErrInvalidArgument;
// - limit <= 0 -> cfg.Limits.Default, limit > max -> cfg.Limits.Max.
func (s *Service) NormalizeQuery(q models.Query) (models.Query, error) {
	const op = "service.queries.NormalizeQuery"

	category, ok := models.ParseCategory(q.Category)
	if !ok {
		return q, fmt.Errorf("%s: unknown category %q: %w", op, q.Category, ErrInvalidArgument)
	}
	q.Category = category

	if q.Hours < 0 {
		return q, fmt.Errorf("%s: hours must be >= 0: %w", op, ErrInvalidArgument)
	}

	if r := q.Sentiment; r != nil {
		if r.Min > r.Max || r.Min < -1 || r.Max > 1 {
			return q, fmt.Errorf("%s: bad sentiment range [%v, %v]: %w", op, r.Min, r.Max, ErrInvalidArgument)
		}
	}

	if q.Limit <= 0 {
		q.Limit = s.cfg.Limits.Default
	}

	if s.cfg.Limits.Max > 0 && q.Limit > s.cfg.Limits.Max {
		q.Limit = s.cfg.Limits.Max
	}

	return q, nil
}

// Query возвращает статьи по фильтрам, свежие первыми.
// Пустой результат не является ошибкой.
func (s *Service) Query(ctx context.Context, q models.Query) ([]models.Article, error) {
	const op = "service.queries.Query"

	lg := log.From(ctx)

	q, err := s.NormalizeQuery(q)
	if err != nil {
		lg.Warn("query_invalid_argument",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	items, err := s.storage.Query(ctx, q)
	if err != nil {
		lg.Error("query_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Debug("query_ok",
		slog.String("op", op),
		slog.String("category", q.Category),
		slog.Int("hours", q.Hours),
		slog.Int("limit", q.Limit),
		slog.Int("items", len(items)),
	)

	return items, nil
}

// MostNegative возвращает до n статей с наименьшей тональностью.
//
// Поверх базового запроса (свежие первыми, не более cfg.Reports.ScanLimit строк)
// применяется сортировка по тональности по возрастанию; строки без тональности пропускаются.
func (s *Service) MostNegative(ctx context.Context, q models.Query, n int) ([]models.Article, error) {
	const op = "service.queries.MostNegative"

	q, err := s.NormalizeQuery(q)
	if err != nil {
		return nil, err
	}
	q.Limit = s.cfg.Reports.ScanLimit

	items, err := s.storage.Query(ctx, q)
	if err != nil {
		log.From(ctx).Error("query_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return SortBySentiment(items, n), nil
}

// SortBySentiment оставляет статьи с тональностью, сортирует их по возрастанию
// (при равенстве сохраняется порядок свежести) и обрезает до n (n <= 0 — без обрезки).
func SortBySentiment(items []models.Article, n int) []models.Article {
	out := make([]models.Article, 0, len(items))
	for _, a := range items {
		if a.Sentiment != nil {
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Sentiment < *out[j].Sentiment
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}

	return out
}

// Summary возвращает сводку по корпусу.
func (s *Service) Summary(ctx context.Context) (models.Summary, error) {
	const op = "service.queries.Summary"

	sum, err := s.storage.Summary(ctx)
	if err != nil {
		return models.Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	return sum, nil
}

// All возвращает всю таблицу, свежие первыми.
func (s *Service) All(ctx context.Context) ([]models.Article, error) {
	const op = "service.queries.All"

	items, err := s.storage.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// ByLink возвращает статью по ссылке; storage.ErrNotFound, если её нет.
func (s *Service) ByLink(ctx context.Context, link string) (*models.Article, error) {
	const op = "service.queries.ByLink"

	if link == "" {
		return nil, fmt.Errorf("%s: empty link: %w", op, ErrInvalidArgument)
	}

	a, err := s.storage.ByLink(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}
