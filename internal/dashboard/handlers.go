package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/service"
	"github.com/pribylovaa/news-analyzer/internal/storage"
	"github.com/pribylovaa/news-analyzer/pkg/log"
)

var errStoreUnavailable = errors.New("store unavailable")

// Opener открывает короткоживущее подключение к хранилищу на время одного запроса.
type Opener func(ctx context.Context) (storage.Storage, error)

// Handlers агрегирует зависимости обработчиков дашборда.
type Handlers struct {
	open   Opener
	cfg    config.Config
	alerts AlertFunc
}

// NewHandlers создаёт обработчики. alerts может быть nil: тогда меток нет.
func NewHandlers(open Opener, cfg config.Config, alerts AlertFunc) *Handlers {
	return &Handlers{
		open:   open,
		cfg:    cfg,
		alerts: alerts,
	}
}

// withService открывает хранилище, вызывает fn и закрывает хранилище.
func (h *Handlers) withService(ctx context.Context, fn func(*service.Service) error) error {
	const op = "dashboard.handlers.withService"

	st, err := h.open(ctx)
	if err != nil {
		log.From(ctx).Error("store_open_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w: %w", op, errStoreUnavailable, err)
	}

	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.From(ctx).Warn("store_close_failed",
				slog.String("op", op),
				slog.String("err", cerr.Error()),
			)
		}
	}()

	return fn(service.New(st, h.cfg))
}

// load разбирает фильтры и строит представление.
func (h *Handlers) load(r *http.Request) (View, error) {
	p, err := parseParams(r, h.cfg.Limits.Default, h.cfg.Limits.Max)
	if err != nil {
		return View{Params: p}, err
	}

	var view View
	err = h.withService(r.Context(), func(svc *service.Service) error {
		items, err := svc.Query(r.Context(), p.Query())
		if err != nil {
			return err
		}
		view = buildView(p, items, h.alerts)
		return nil
	})
	if err != nil {
		return View{Params: p}, err
	}

	return view, nil
}

// Index — GET /: HTML-страница с метриками, графиками и таблицей.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	view, err := h.load(r)

	page := indexPage{View: view, Hours: HourOptions}
	status := http.StatusOK
	if err != nil {
		var apiErr APIError
		status, apiErr = toHTTP(err)
		page.Error = apiErr.Message
	}

	var buf bytes.Buffer
	if terr := indexTemplate.Execute(&buf, page); terr != nil {
		log.From(r.Context()).Error("template_render_failed", slog.String("err", terr.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Articles — GET /api/articles: то же представление в JSON.
func (h *Handlers) Articles(w http.ResponseWriter, r *http.Request) {
	view, err := h.load(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Article — GET /api/article?link=...: одна статья по ссылке.
func (h *Handlers) Article(w http.ResponseWriter, r *http.Request) {
	const op = "dashboard.handlers.Article"

	link := strings.TrimSpace(r.URL.Query().Get("link"))
	if link == "" {
		writeError(w, r, fmt.Errorf("%s: empty link: %w", op, service.ErrInvalidArgument))
		return
	}

	var row Row
	err := h.withService(r.Context(), func(svc *service.Service) error {
		a, err := svc.ByLink(r.Context(), link)
		if err != nil {
			return err
		}

		var labels []string
		if h.alerts != nil {
			labels = h.alerts(a.Title, a.Summary)
		}
		row = toRow(*a, labels)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// Livez — процесс жив.
func (h *Handlers) Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Healthz — хранилище открывается.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	err := h.withService(r.Context(), func(*service.Service) error { return nil })
	if err != nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
