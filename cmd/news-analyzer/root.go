package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pribylovaa/news-analyzer/internal/config"
	"github.com/pribylovaa/news-analyzer/internal/service"
	"github.com/pribylovaa/news-analyzer/internal/storage"
	"github.com/pribylovaa/news-analyzer/internal/storage/postgres"
	"github.com/pribylovaa/news-analyzer/internal/storage/sqlite"
	"github.com/pribylovaa/news-analyzer/pkg/log"
	"github.com/pribylovaa/news-analyzer/pkg/redact"
)

// app — общее состояние команд: конфигурация, логгер и вывод отчётов.
type app struct {
	configPath string
	out        io.Writer
	logOut     io.Writer
	reg        prometheus.Registerer

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{
		out:    out,
		logOut: os.Stderr,
		reg:    prometheus.DefaultRegisterer,
	}

	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "news-analyzer [mode]",
		Short: "Real-time RSS news analyzer",
		Long: `news-analyzer polls RSS feeds, classifies every new article by sentiment,
category and alert keywords, stores it and serves reports over the stored corpus.

Without a mode it runs the poll loop. Unknown modes fall back to the poll loop.`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				a.log.Warn("unknown_mode_fallback", slog.String("mode", args[0]))
			}
			return a.runPoll(cmd.Context())
		},
	}

	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")

	root.AddCommand(a.reportCmd())
	root.AddCommand(a.recentCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.dashboardCmd())

	return root
}

// setup загружает .env и конфигурацию и настраивает логгер.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	envErr := godotenv.Load()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	a.log = setupLogger(cfg.Env, a.logOut)
	slog.SetDefault(a.log)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		a.log.Warn("dotenv_load_failed", slog.String("err", envErr.Error()))
	}

	cmd.SetContext(log.Into(cmd.Context(), a.log))
	return nil
}

// openStore открывает хранилище по cfg.DB.Driver.
func openStore(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		st, err := postgres.New(ctx, cfg.DB.URL)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		st, err := sqlite.New(ctx, cfg.DB.SQLitePath())
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}

// storeTarget описывает хранилище для логов без секретов.
func storeTarget(cfg *config.Config) string {
	if cfg.DB.Driver == config.DriverPostgres {
		return redact.URL(cfg.DB.URL)
	}
	return cfg.DB.SQLitePath()
}

// withService открывает короткоживущее хранилище на время одной команды.
func (a *app) withService(ctx context.Context, fn func(*service.Service) error) error {
	const op = "main.withService"

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
		}
	}()

	return fn(service.New(st, *a.cfg))
}
