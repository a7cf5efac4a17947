package dashboard

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/models"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dayLayout  = "2006-01-02"

	// sentimentBins — число корзин гистограммы тональности шириной 0.1 на [-1, 1].
	sentimentBins = 20
)

// Row — строка детальной таблицы.
type Row struct {
	Published string   `json:"published"`
	CreatedAt string   `json:"created_at"`
	Source    string   `json:"source"`
	Category  string   `json:"category"`
	Sentiment *float64 `json:"sentiment"`
	Alerts    []string `json:"alerts"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Link      string   `json:"link"`
}

// AlertText склеивает метки алертов для таблицы.
func (r Row) AlertText() string {
	return strings.Join(r.Alerts, ", ")
}

// Metrics — сводные показатели выборки.
type Metrics struct {
	Total      int `json:"total"`
	Sources    int `json:"sources"`
	Categories int `json:"categories"`
}

// DailyMean — средняя тональность категории за день.
type DailyMean struct {
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

// Bucket — столбец гистограммы. Percent — доля от максимального столбца.
type Bucket struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"-"`
}

// Tab — вкладка детальной таблицы.
type Tab struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Rows  []Row  `json:"-"`
}

// View — всё, что нужно странице и JSON API.
type View struct {
	Params     Params      `json:"params"`
	Empty      bool        `json:"empty"`
	Metrics    Metrics     `json:"metrics"`
	Daily      []DailyMean `json:"daily"`
	Categories []Bucket    `json:"categories"`
	Sentiment  []Bucket    `json:"sentiment"`
	Rows       []Row       `json:"articles"`
	Tabs       []Tab       `json:"-"`
}

// tabOrder — порядок вкладок таблицы после «all».
var tabOrder = []struct {
	category models.Category
	title    string
}{
	{models.CategoryConflict, "Conflict/Crisis"},
	{models.CategoryEconomy, "Economy"},
	{models.CategoryPolitics, "Politics"},
	{models.CategorySociety, "Society"},
	{models.CategoryTechnology, "Technology"},
	{models.CategoryOther, "Other"},
}

// AlertFunc возвращает метки алертов статьи.
type AlertFunc func(title, summary string) []string

// buildView собирает представление из результата слоя запросов.
//
// Порядок: метки алертов -> фильтр «только алерты» -> текстовый поиск -> агрегаты.
// Поиск работает по уже ограниченной limit выборке.
func buildView(p Params, items []models.Article, alerts AlertFunc) View {
	rows := make([]Row, 0, len(items))
	kept := make([]models.Article, 0, len(items))
	needle := strings.ToLower(p.Search)

	for _, a := range items {
		var labels []string
		if alerts != nil {
			labels = alerts(a.Title, a.Summary)
		}
		if p.AlertsOnly && len(labels) == 0 {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Title), needle) &&
			!strings.Contains(strings.ToLower(a.Summary), needle) {
			continue
		}

		kept = append(kept, a)
		rows = append(rows, toRow(a, labels))
	}

	v := View{
		Params: p,
		Empty:  len(rows) == 0,
		Rows:   rows,
	}
	if v.Empty {
		return v
	}

	v.Metrics = summarize(kept)
	v.Daily = dailyMeans(kept)
	v.Categories = categoryHistogram(kept)
	v.Sentiment = sentimentHistogram(kept)
	v.Tabs = tabs(rows)

	return v
}

func toRow(a models.Article, labels []string) Row {
	if labels == nil {
		labels = []string{}
	}

	return Row{
		Published: a.Published,
		CreatedAt: formatTime(a.CreatedAt),
		Source:    a.Source,
		Category:  string(a.Category),
		Sentiment: a.Sentiment,
		Alerts:    labels,
		Title:     a.Title,
		Summary:   a.Summary,
		Link:      a.Link,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func summarize(items []models.Article) Metrics {
	sources := make(map[string]struct{})
	categories := make(map[models.Category]struct{})

	for _, a := range items {
		sources[a.Source] = struct{}{}
		categories[a.Category] = struct{}{}
	}

	return Metrics{
		Total:      len(items),
		Sources:    len(sources),
		Categories: len(categories),
	}
}

// dailyMeans группирует статьи по дню created_at (UTC) и категории.
// Строки без тональности в среднее не входят. Сортировка: дата, затем категория.
func dailyMeans(items []models.Article) []DailyMean {
	type key struct {
		date     string
		category string
	}
	type acc struct {
		sum   float64
		count int
	}

	groups := make(map[key]*acc)
	for _, a := range items {
		if a.Sentiment == nil || a.CreatedAt.IsZero() {
			continue
		}

		k := key{date: a.CreatedAt.UTC().Format(dayLayout), category: string(a.Category)}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.sum += *a.Sentiment
		g.count++
	}

	out := make([]DailyMean, 0, len(groups))
	for k, g := range groups {
		out = append(out, DailyMean{
			Date:     k.date,
			Category: k.category,
			Mean:     g.sum / float64(g.count),
			Count:    g.count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Category < out[j].Category
	})

	return out
}

// categoryHistogram считает статьи по категориям: по убыванию числа, затем по имени.
func categoryHistogram(items []models.Article) []Bucket {
	counts := make(map[string]int)
	for _, a := range items {
		counts[string(a.Category)]++
	}

	out := make([]Bucket, 0, len(counts))
	for label, n := range counts {
		out = append(out, Bucket{Label: label, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})

	return withPercent(out)
}

// sentimentHistogram раскладывает тональность по 20 корзинам шириной 0.1.
// Корзина i покрывает [-1+0.1i, -1+0.1(i+1)), последняя включает 1.0.
func sentimentHistogram(items []models.Article) []Bucket {
	out := make([]Bucket, sentimentBins)
	for i := range out {
		out[i].Label = binLabel(i)
	}

	for _, a := range items {
		if a.Sentiment == nil {
			continue
		}
		out[sentimentBin(*a.Sentiment)].Count++
	}

	return withPercent(out)
}

func sentimentBin(v float64) int {
	// Эпсилон гасит ошибку представления: (-0.9+1)*10 = 0.9999999999999998.
	i := int(math.Floor((v+1)*10 + 1e-9))
	if i < 0 {
		return 0
	}
	if i >= sentimentBins {
		return sentimentBins - 1
	}
	return i
}

func binLabel(i int) string {
	lo := float64(i-10) / 10
	hi := float64(i-9) / 10
	closing := ")"
	if i == sentimentBins-1 {
		closing = "]"
	}

	return "[" + strconv.FormatFloat(lo, 'f', 1, 64) + ", " + strconv.FormatFloat(hi, 'f', 1, 64) + closing
}

func withPercent(buckets []Bucket) []Bucket {
	top := 0
	for _, b := range buckets {
		if b.Count > top {
			top = b.Count
		}
	}
	if top == 0 {
		return buckets
	}

	for i := range buckets {
		buckets[i].Percent = buckets[i].Count * 100 / top
	}
	return buckets
}

func tabs(rows []Row) []Tab {
	out := make([]Tab, 0, len(tabOrder)+1)
	out = append(out, Tab{Key: models.CategoryAll, Title: "All", Rows: rows})

	for _, t := range tabOrder {
		filtered := make([]Row, 0)
		for _, r := range rows {
			if r.Category == string(t.category) {
				filtered = append(filtered, r)
			}
		}
		out = append(out, Tab{Key: tabKey(t.category), Title: t.title, Rows: filtered})
	}

	return out
}

// tabKey делает из категории id для HTML ("conflict/crisis" -> "conflict-crisis").
func tabKey(c models.Category) string {
	return strings.ReplaceAll(string(c), "/", "-")
}
