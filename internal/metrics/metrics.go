// metrics — prometheus-метрики конвейера опроса и дашборда.
//
// Все методы безопасны для nil-получателя: компоненты работают и без метрик.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "news_analyzer"

// Metrics — набор коллекторов news-analyzer.
type Metrics struct {
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	entries       *prometheus.CounterVec
	inserted      *prometheus.CounterVec
	alerts        *prometheus.CounterVec
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a single feed fetch and parse.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "fetch_errors_total",
			Help:      "Feed fetches that failed with a transport or parse error.",
		}, []string{"source"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "entries_total",
			Help:      "Feed entries seen by the poll loop, by stage.",
		}, []string{"stage"}),
		inserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "articles_inserted_total",
			Help:      "Articles actually inserted into the store.",
		}, []string{"category"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "sent_total",
			Help:      "Alert deliveries by channel and result.",
		}, []string{"channel", "result"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "cycles_total",
			Help:      "Completed poll cycles by result.",
		}, []string{"result"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a full fetch-classify-persist cycle.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Dashboard HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Dashboard HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.fetchDuration,
			m.fetchErrors,
			m.entries,
			m.inserted,
			m.alerts,
			m.cycles,
			m.cycleDuration,
			m.httpRequests,
			m.httpDuration,
		)
	}

	return m
}

// Стадии для ObserveEntries.
const (
	StageFetched = "fetched"
	StageNew     = "new"
)

// ObserveFetch фиксирует длительность загрузки ленты и ошибку, если была.
func (m *Metrics) ObserveFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}

	m.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.fetchErrors.WithLabelValues(source).Inc()
	}
}

// ObserveEntries увеличивает счётчик записей на стадии stage.
func (m *Metrics) ObserveEntries(stage string, n int) {
	if m == nil || n <= 0 {
		return
	}

	m.entries.WithLabelValues(stage).Add(float64(n))
}

// ObserveInserted учитывает вставленную статью.
func (m *Metrics) ObserveInserted(category string) {
	if m == nil {
		return
	}

	m.inserted.WithLabelValues(category).Inc()
}

// ObserveAlert учитывает доставку алерта по каналу.
func (m *Metrics) ObserveAlert(channel string, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	m.alerts.WithLabelValues(channel, result).Inc()
}

// ObserveCycle фиксирует завершение цикла опроса.
func (m *Metrics) ObserveCycle(d time.Duration, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cycles.WithLabelValues(result).Inc()
	m.cycleDuration.Observe(d.Seconds())
}

// ObserveHTTP фиксирует HTTP-запрос дашборда.
func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}

	m.httpRequests.WithLabelValues(route, statusText(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
