// models содержит доменные сущности news-analyzer.
// Эти типы используются слоями классификации, хранилища, отчётов и дашборда.
package models

import "time"

// Category — тематическая категория статьи из закрытого набора.
type Category string

const (
	CategoryConflict   Category = "conflict/crisis"
	CategoryPolitics   Category = "politics"
	CategoryEconomy    Category = "economy"
	CategoryTechnology Category = "technology"
	CategorySociety    Category = "society"
	CategoryOther      Category = "other"
)

// CategoryAll — значение фильтра «без фильтра по категории».
const CategoryAll = "all"

// Categories возвращает все категории в порядке приоритета классификатора.
func Categories() []Category {
	return []Category{
		CategoryConflict,
		CategoryPolitics,
		CategoryEconomy,
		CategoryTechnology,
		CategorySociety,
		CategoryOther,
	}
}

// Valid сообщает, входит ли категория в закрытый набор.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}

	return false
}

// ParseCategory разбирает фильтр категории.
// "" и "all" -> CategoryAll, "conflict" — синоним "conflict/crisis".
func ParseCategory(raw string) (string, bool) {
	switch raw {
	case "", CategoryAll:
		return CategoryAll, true
	case "conflict":
		return string(CategoryConflict), true
	}

	if Category(raw).Valid() {
		return raw, true
	}

	return "", false
}

// Entry — «сырая» запись ленты до классификации.
type Entry struct {
	Title     string
	Summary   string
	Link      string
	Published string
	Source    string
}

// Article — единственная сохраняемая сущность.
//
// Особенности:
//   - Link — естественный уникальный ключ;
//   - Sentiment == nil только если статья не классифицирована;
//   - CreatedAt проставляет хранилище при вставке (UTC) и больше не меняет.
type Article struct {
	// ID — автоинкрементный идентификатор строки.
	ID int64
	// Title — заголовок, как его отдал источник.
	Title string
	// Summary — аннотация, как её отдал источник.
	Summary string
	// Link — каноническая ссылка (ключ дедупликации).
	Link string
	// Published — дата публикации у источника, строкой, без разбора.
	Published string
	// Source — имя ленты.
	Source string
	// Sentiment — полярность в [-1, 1].
	Sentiment *float64
	// Category — категория статьи.
	Category Category
	// CreatedAt — момент вставки в хранилище.
	CreatedAt time.Time
}

// Text возвращает текст, по которому работает классификатор.
func (a Article) Text() string {
	return a.Title + " " + a.Summary
}

// SentimentRange — включительный диапазон полярности.
type SentimentRange struct {
	Min float64
	Max float64
}

// FullSentimentRange — диапазон, не сужающий выборку.
var FullSentimentRange = SentimentRange{Min: -1, Max: 1}

// IsFull сообщает, покрывает ли диапазон всю шкалу.
func (r SentimentRange) IsFull() bool {
	return r.Min <= -1 && r.Max >= 1
}

// Contains проверяет попадание значения в диапазон; nil не попадает никогда.
func (r SentimentRange) Contains(v *float64) bool {
	if v == nil {
		return false
	}

	return *v >= r.Min && *v <= r.Max
}

// Query — параметры выборки статей.
//
// Особенности:
//   - Category == "all" (или "") — без фильтра по категории;
//   - Hours == 0 — за всё время;
//   - Sentiment == nil или полный диапазон — без фильтра (строки с NULL остаются);
//   - сортировка всегда created_at DESC, Limit применяется после сортировки.
type Query struct {
	Category  string
	Hours     int
	Sentiment *SentimentRange
	Limit     int
}

// Summary — сводка по корпусу.
type Summary struct {
	Total    int
	Sources  int
	Earliest *time.Time
	Latest   *time.Time
}

// Float возвращает указатель на копию значения.
func Float(v float64) *float64 {
	return &v
}
