package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/news-analyzer/internal/classify"
	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/metrics"
	"github.com/pribylovaa/news-analyzer/internal/notify"
	"github.com/pribylovaa/news-analyzer/internal/report"
	"github.com/pribylovaa/news-analyzer/internal/rss"
	"github.com/pribylovaa/news-analyzer/internal/service"
)

// runPoll — режим по умолчанию: бесконечный цикл опроса до сигнала.
// Ошибка открытия хранилища — единственная причина завершиться с кодом 1.
func (a *app) runPoll(ctx context.Context) error {
	const op = "main.runPoll"

	st, err := openStore(ctx, a.cfg)
	if err != nil {
		a.log.Error("store_open_failed",
			slog.String("op", op),
			slog.String("driver", a.cfg.DB.Driver),
			slog.String("target", storeTarget(a.cfg)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		if cerr := st.Close(); cerr != nil {
			a.log.Warn("store_close_failed", slog.String("op", op), slog.String("err", cerr.Error()))
			return
		}
		a.log.Info("store_closed", slog.String("op", op))
	}()

	scorer, err := classify.NewScorer(a.cfg.Classifier.SentimentBackend)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New(a.reg)

	parser := rss.New(&http.Client{}, a.cfg.Fetcher.MaxConcurrent,
		rss.WithTimeout(a.cfg.Fetcher.Timeout),
		rss.WithUserAgent(a.cfg.Fetcher.UserAgent),
		rss.WithMetrics(m),
	)

	notifier := notify.NewMulti(m, buildSinks(a.cfg.Alerts, &http.Client{})...).WithTimeout(a.cfg.Alerts.SendTimeout)
	defer func() {
		if cerr := notifier.Close(); cerr != nil {
			a.log.Warn("notifier_close_failed", slog.String("op", op), slog.String("err", cerr.Error()))
		}
	}()

	session := service.NewSession(st, parser, classify.New(scorer), a.cfg.Fetcher,
		service.WithNotifier(notifier),
		service.WithPrinter(report.NewPrinter(a.out)),
		service.WithMetrics(m),
	)

	a.log.Info("poll_mode_start",
		slog.String("driver", a.cfg.DB.Driver),
		slog.String("sentiment_backend", a.cfg.Classifier.SentimentBackend),
		slog.Int("alert_sinks", notifier.Len()),
	)

	if a.cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		srvCtx, stop := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := a.serve(srvCtx, a.cfg.Metrics.Addr(), mux); err != nil {
				a.log.Error("metrics_serve_failed", slog.String("err", err.Error()))
			}
		}()
		defer func() {
			stop()
			<-done
		}()
	}

	return session.Run(ctx)
}

// buildSinks собирает каналы доставки алертов по флагам конфигурации.
func buildSinks(cfg config.AlertsConfig, client *http.Client) []notify.Sink {
	var sinks []notify.Sink

	if cfg.EnableDesktop {
		sinks = append(sinks, notify.NewDesktop())
	}

	if cfg.EnableChat {
		sinks = append(sinks, notify.NewTelegram(client, notify.TelegramOptions{
			APIURL:    cfg.Telegram.APIURL,
			Token:     cfg.Telegram.BotToken,
			ChatID:    cfg.Telegram.ChatID,
			Timeout:   cfg.Telegram.Timeout,
			PerMinute: cfg.Telegram.PerMinute,
		}))
	}

	if cfg.Kafka.Enabled {
		sinks = append(sinks, notify.NewKafka(notify.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)))
	}

	return sinks
}
