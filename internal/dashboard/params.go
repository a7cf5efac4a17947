package dashboard

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/service"
)

// Границы и значения по умолчанию фильтров страницы.
const (
	DefaultHours = 24
	MinLimit     = 50
)

// HourOptions — допустимые окна свежести; 0 означает «за всё время».
var HourOptions = []int{6, 24, 72, 168, 0}

// Params — фильтры интерактивного представления.
type Params struct {
	Category   string  `json:"category"`
	Hours      int     `json:"hours"`
	Limit      int     `json:"limit"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Search     string  `json:"q,omitempty"`
	AlertsOnly bool    `json:"alerts_only"`
}

// Query переводит фильтры в параметры слоя запросов.
func (p Params) Query() models.Query {
	return models.Query{
		Category:  p.Category,
		Hours:     p.Hours,
		Sentiment: &models.SentimentRange{Min: p.Min, Max: p.Max},
		Limit:     p.Limit,
	}
}

// parseParams разбирает фильтры из query string.
//
// Правила:
// - category: all | одна из категорий | conflict (синоним conflict/crisis);
// - hours: 6 | 24 | 72 | 168 | all, по умолчанию 24;
// - limit: целое, приводится к [MinLimit, maxLimit], по умолчанию defLimit;
// - min, max: тональность, по умолчанию -1 и 1;
// - q: подстрока заголовка или аннотации без учёта регистра;
// - alerts: 1/true/on — только статьи с метками алертов.
// Любая ошибка разбора оборачивает service.ErrInvalidArgument.
func parseParams(r *http.Request, defLimit, maxLimit int) (Params, error) {
	const op = "dashboard.params.parseParams"

	q := r.URL.Query()
	p := Params{
		Category: models.CategoryAll,
		Hours:    DefaultHours,
		Limit:    defLimit,
		Min:      models.FullSentimentRange.Min,
		Max:      models.FullSentimentRange.Max,
		Search:   strings.TrimSpace(q.Get("q")),
	}

	category, ok := models.ParseCategory(strings.TrimSpace(q.Get("category")))
	if !ok {
		return p, fmt.Errorf("%s: unknown category %q: %w", op, q.Get("category"), service.ErrInvalidArgument)
	}
	p.Category = category

	if raw := strings.TrimSpace(q.Get("hours")); raw != "" {
		hours, err := parseHours(raw)
		if err != nil {
			return p, fmt.Errorf("%s: %w: %w", op, err, service.ErrInvalidArgument)
		}
		p.Hours = hours
	}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%s: bad limit %q: %w", op, raw, service.ErrInvalidArgument)
		}
		p.Limit = limit
	}
	p.Limit = clampLimit(p.Limit, maxLimit)

	var err error
	if p.Min, err = parseBound(q.Get("min"), p.Min); err != nil {
		return p, fmt.Errorf("%s: bad min: %w", op, err)
	}
	if p.Max, err = parseBound(q.Get("max"), p.Max); err != nil {
		return p, fmt.Errorf("%s: bad max: %w", op, err)
	}

	switch strings.ToLower(q.Get("alerts")) {
	case "1", "true", "on":
		p.AlertsOnly = true
	}

	return p, nil
}

func parseHours(raw string) (int, error) {
	if raw == "all" {
		return 0, nil
	}

	hours, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bad hours %q", raw)
	}

	for _, h := range HourOptions {
		if h != 0 && h == hours {
			return hours, nil
		}
	}

	return 0, fmt.Errorf("hours must be one of 6, 24, 72, 168, all")
}

func clampLimit(limit, maxLimit int) int {
	if maxLimit <= 0 {
		maxLimit = MinLimit
	}
	if limit < MinLimit {
		return MinLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func parseBound(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%q: %w", raw, service.ErrInvalidArgument)
	}

	return v, nil
}
