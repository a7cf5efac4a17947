package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/news-analyzer/internal/classify"
	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/dedup"
	"github.com/pribylovaa/news-analyzer/internal/metrics"
	"github.com/pribylovaa/news-analyzer/internal/models"
	"github.com/pribylovaa/news-analyzer/internal/storage"
	"github.com/pribylovaa/news-analyzer/pkg/log"

	"github.com/google/uuid"
)

// Session — состояние цикла опроса: множество увиденных ссылок, конфиг и зависимости.
// Session не потокобезопасна: Run и RunCycle вызываются из одной горутины.
type Session struct {
	storage    storage.Storage
	parser     Parser
	classifier *classify.Classifier
	notifier   Notifier
	printer    Printer
	metrics    *metrics.Metrics
	seen       *dedup.Set
	sources    []config.Source
	interval   time.Duration
}

// SessionOption настраивает Session.
type SessionOption func(*Session)

// WithNotifier подключает доставку алертов.
func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithPrinter подключает печать негативных статей цикла.
func WithPrinter(p Printer) SessionOption {
	return func(s *Session) {
		if p != nil {
			s.printer = p
		}
	}
}

// WithMetrics подключает метрики.
func WithMetrics(m *metrics.Metrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// NewSession создаёт сессию опроса источников из cfg.
func NewSession(st storage.Storage, parser Parser, classifier *classify.Classifier, cfg config.FetcherConfig, opts ...SessionOption) *Session {
	if classifier == nil {
		classifier = classify.New(nil)
	}

	s := &Session{
		storage:    st,
		parser:     parser,
		classifier: classifier,
		notifier:   nopNotifier{},
		printer:    nopPrinter{},
		seen:       dedup.New(),
		sources:    cfg.Sources,
		interval:   cfg.Interval,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Seen сообщает, встречалась ли ссылка в этой сессии.
func (s *Session) Seen(link string) bool {
	return s.seen.Contains(link)
}

// CycleStats — итоги одного цикла.
type CycleStats struct {
	Fetched  int
	New      int
	Inserted int
	Negative int
	Alerts   int
	FeedsOK  int
	FeedsErr int
}

// Run выполняет циклы опроса до отмены ctx.
//
// Особенности:
//   - первый цикл стартует сразу, затем пауза interval (Idle) и следующий цикл;
//   - ошибки цикла логируются, цикл всегда переходит в Idle;
//   - отмена во время Idle завершает работу сразу, во время цикла — после сохранения
//     уже полученных данных;
//   - при отмене возвращает nil; хранилище закрывает вызывающий.
func (s *Session) Run(ctx context.Context) error {
	const op = "service.ingest.Run"

	if len(s.sources) == 0 {
		return fmt.Errorf("%s: no sources configured", op)
	}
	if s.interval <= 0 {
		return fmt.Errorf("%s: interval must be > 0", op)
	}

	lg := log.From(ctx)
	lg.Info("ingest_start",
		slog.String("op", op),
		slog.Int("sources", len(s.sources)),
		slog.Duration("interval", s.interval),
	)

	for {
		if _, err := s.RunCycle(ctx); err != nil {
			lg.Warn("ingest_tick_error",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}

		if ctx.Err() != nil {
			lg.Info("ingest_stop", slog.String("op", op), slog.String("state", "cycle"))
			return nil
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			lg.Info("ingest_stop", slog.String("op", op), slog.String("state", "idle"))
			return nil
		case <-timer.C:
		}
	}
}

// RunCycle — один проход: fetch -> dedup -> classify -> persist -> report.
//
// Загрузка и рассылка алертов уважают ctx; классификация, сохранение и печать
// выполняются с context.WithoutCancel, чтобы прерванный цикл не терял
// полученные данные.
func (s *Session) RunCycle(ctx context.Context) (CycleStats, error) {
	const op = "service.ingest.RunCycle"

	start := time.Now()
	ctx = log.With(ctx, slog.String("cycle_id", uuid.NewString()))
	lg := log.From(ctx)

	var stats CycleStats

	fresh := s.fetch(ctx, &stats)

	persistCtx := context.WithoutCancel(ctx)

	articles := make([]models.Article, 0, len(fresh))
	for _, e := range fresh {
		articles = append(articles, s.classifier.Classify(e))
	}

	var (
		inserted []models.Article
		saveErr  error
	)
	if len(articles) > 0 {
		inserted, saveErr = s.storage.SaveArticles(persistCtx, articles)
		if saveErr != nil {
			lg.Warn("ingest_save_partial",
				slog.String("op", op),
				slog.Int("attempted", len(articles)),
				slog.Int("inserted", len(inserted)),
				slog.String("err", saveErr.Error()),
			)
		}
	}
	stats.Inserted = len(inserted)
	for _, a := range inserted {
		s.metrics.ObserveInserted(string(a.Category))
	}

	s.report(ctx, inserted, &stats)

	lg.Info("ingest_saved",
		slog.String("op", op),
		slog.Int("fetched", stats.Fetched),
		slog.Int("new", stats.New),
		slog.Int("inserted", stats.Inserted),
		slog.Int("negative", stats.Negative),
		slog.Int("alerts", stats.Alerts),
		slog.Int("feeds_ok", stats.FeedsOK),
		slog.Int("feeds_err", stats.FeedsErr),
		slog.Duration("took", time.Since(start)),
	)

	var err error
	if saveErr != nil {
		err = fmt.Errorf("%s: %w", op, saveErr)
	}
	s.metrics.ObserveCycle(time.Since(start), err)

	return stats, err
}

// fetch собирает записи всех источников в порядке конфига и отсеивает уже увиденные.
func (s *Session) fetch(ctx context.Context, stats *CycleStats) []models.Entry {
	const op = "service.ingest.fetch"

	lg := log.From(ctx)

	results := make(map[string]ParseResult, len(s.sources))
	for r := range s.parser.ParseMany(ctx, s.sources) {
		results[r.Source] = r
	}

	var fresh []models.Entry
	for _, src := range s.sources {
		r, ok := results[src.Name]
		if !ok {
			continue
		}

		if r.Err != nil {
			stats.FeedsErr++
			lg.Warn("parse_error",
				slog.String("op", op),
				slog.String("source", src.Name),
				slog.String("err", r.Err.Error()),
			)
			continue
		}

		stats.FeedsOK++
		stats.Fetched += len(r.Entries)

		for _, e := range r.Entries {
			if e.Link == "" {
				continue
			}
			if s.seen.IsNew(e.Link) {
				fresh = append(fresh, e)
			}
		}
	}

	stats.New = len(fresh)
	s.metrics.ObserveEntries(metrics.StageFetched, stats.Fetched)
	s.metrics.ObserveEntries(metrics.StageNew, stats.New)

	return fresh
}

// report печатает новые негативные статьи и рассылает алерты по тем, у кого есть метки.
func (s *Session) report(ctx context.Context, inserted []models.Article, stats *CycleStats) {
	var negative []models.Alert
	for _, a := range inserted {
		if a.Sentiment != nil && *a.Sentiment < 0 {
			negative = append(negative, models.Alert{
				Labels:  s.classifier.Alerts(a.Title, a.Summary),
				Article: a,
			})
		}
	}

	stats.Negative = len(negative)
	if len(negative) == 0 {
		return
	}

	s.printer.PrintCycle(negative)

	for _, alert := range negative {
		if len(alert.Labels) == 0 {
			continue
		}

		stats.Alerts++
		s.notifier.Notify(ctx, alert)
	}
}
