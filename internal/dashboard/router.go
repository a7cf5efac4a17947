// dashboard — интерактивное HTTP-представление корпуса: HTML-страница,
// JSON API и служебные эндпойнты поверх слоя запросов.
package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/news-analyzer/internal/dashboard/middleware"
	"github.com/pribylovaa/news-analyzer/internal/metrics"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	r.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Metrics),
	)
	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Get("/", h.Index)
	r.Get("/api/articles", h.Articles)
	r.Get("/api/article", h.Article)
	r.Get("/livez", h.Livez)
	r.Get("/healthz", h.Healthz)
	// /metrics отдаёт реестр по умолчанию, куда регистрируется metrics.New в main.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
