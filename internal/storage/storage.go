//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

// storage определяет контракт доступа к хранилищу статей.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrRejected — СУБД отклонила строку (недопустимые данные, ограничение).
	ErrRejected = errors.New("row rejected")
	// ErrUnavailable — СУБД недоступна (соединение, аутентификация, перегрузка).
	ErrUnavailable = errors.New("store unavailable")
)

// Storage — хранилище статей с уникальностью по link.
type Storage interface {
	// InsertIfAbsent вставляет статью, если её link ещё не встречался.
	// Дубликат — не ошибка: (false, nil).
	InsertIfAbsent(ctx context.Context, a models.Article) (bool, error)
	// SaveArticles вставляет статьи по одной, без общей транзакции.
	// Возвращает реально вставленные строки (с ID и CreatedAt);
	// ошибки отдельных строк объединяются через errors.Join, остальные строки сохраняются.
	SaveArticles(ctx context.Context, items []models.Article) ([]models.Article, error)
	// ByLink возвращает статью по ссылке или ErrNotFound.
	ByLink(ctx context.Context, link string) (*models.Article, error)
	// Query возвращает статьи по фильтрам, created_at DESC, id DESC, не более Limit.
	Query(ctx context.Context, q models.Query) ([]models.Article, error)
	// Summary возвращает сводку по всему корпусу.
	Summary(ctx context.Context) (models.Summary, error)
	// All возвращает всю таблицу, свежие первыми.
	All(ctx context.Context) ([]models.Article, error)
	// Close освобождает ресурсы.
	Close() error
}

// Clock — источник времени для created_at.
type Clock func() time.Time

// UTCNow — часы по умолчанию: UTC с точностью до секунды.
func UTCNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Cutoff возвращает нижнюю границу created_at для окна в hours часов.
// Для hours <= 0 окно не задано (ok == false).
func Cutoff(now time.Time, hours int) (t time.Time, ok bool) {
	if hours <= 0 {
		return time.Time{}, false
	}

	return now.Add(-time.Duration(hours) * time.Hour).UTC(), true
}

// NarrowRange возвращает диапазон тональности, если он действительно сужает выборку.
func NarrowRange(q models.Query) (models.SentimentRange, bool) {
	if q.Sentiment == nil || q.Sentiment.IsFull() {
		return models.SentimentRange{}, false
	}

	return *q.Sentiment, true
}

// CategoryFilter возвращает категорию для точного совпадения или ok == false для "all".
func CategoryFilter(q models.Query) (string, bool) {
	if q.Category == "" || q.Category == models.CategoryAll {
		return "", false
	}

	return q.Category, true
}
