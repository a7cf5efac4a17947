package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/news-analyzer/internal/classify"
	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/dashboard"
	"github.com/pribylovaa/news-analyzer/internal/metrics"
	"github.com/pribylovaa/news-analyzer/internal/storage"
)

func (a *app) dashboardCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the interactive dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.HTTP.Addr()
			}
			return a.runDashboard(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default http.host:http.port)")
	return cmd
}

func (a *app) runDashboard(ctx context.Context, addr string) error {
	const op = "main.runDashboard"

	open, closeShared, err := a.storeOpener(ctx)
	if err != nil {
		a.log.Error("store_open_failed",
			slog.String("op", op),
			slog.String("driver", a.cfg.DB.Driver),
			slog.String("target", storeTarget(a.cfg)),
			slog.String("err", err.Error()),
		)
		return err
	}
	defer closeShared()

	h := dashboard.NewHandlers(open, *a.cfg, classify.New(nil).Alerts)
	router := dashboard.NewRouter(h, dashboard.Options{
		Logger:  a.log,
		Timeout: a.cfg.Timeouts.Service,
		Metrics: metrics.New(a.reg),
	})

	a.log.Info("dashboard_start", slog.String("addr", addr), slog.String("driver", a.cfg.DB.Driver))
	return a.serve(ctx, addr, router)
}

// storeOpener возвращает Opener дашборда.
//
// SQLite открывается заново на каждый запрос (короткоживущее подключение к файлу).
// PostgreSQL держит один пул на весь процесс: запрос получает обёртку без Close.
func (a *app) storeOpener(ctx context.Context) (dashboard.Opener, func(), error) {
	if a.cfg.DB.Driver != config.DriverPostgres {
		open := func(ctx context.Context) (storage.Storage, error) {
			return openStore(ctx, a.cfg)
		}
		return open, func() {}, nil
	}

	st, err := openStore(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}

	open := func(context.Context) (storage.Storage, error) {
		return sharedStore{st}, nil
	}
	closeShared := func() {
		if cerr := st.Close(); cerr != nil {
			a.log.Warn("store_close_failed", slog.String("err", cerr.Error()))
		}
	}
	return open, closeShared, nil
}

// sharedStore не закрывает общий пул по окончании запроса.
type sharedStore struct {
	storage.Storage
}

func (sharedStore) Close() error { return nil }
