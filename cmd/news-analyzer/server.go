package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// serve слушает addr и отдаёт handler до отмены ctx, затем плавно останавливает сервер
// за cfg.Timeouts.Shutdown.
func (a *app) serve(ctx context.Context, addr string, handler http.Handler) error {
	const op = "main.serve"

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		a.log.Error("http_listen_failed", slog.String("addr", addr), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("http_listen_start", slog.String("addr", ln.Addr().String()))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown_requested", slog.String("addr", addr))
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			a.log.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeouts.Shutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		a.log.Info("http_stopped", slog.String("addr", addr))
	}

	if serveErr != nil {
		return fmt.Errorf("%s: %w", op, serveErr)
	}
	return nil
}
