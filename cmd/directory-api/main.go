package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"directory-app-go/internal/app"
	"directory-app-go/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.NewFromEnv()
	os.Exit(run(log))
}

// run blocks until a termination signal or a listener failure and returns the process exit code.
func run(log logger.Logger) int {
	log.Info("directory-api: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(log)
	if err != nil {
		log.Critical("directory-api: init failed", "err", err)
		return 1
	}

	code := 0
	if err := serve(ctx, application.HTTPServer(), log); err != nil {
		log.Critical("http: server failed", "err", err)
		code = 1
	}

	if err := application.Close(); err != nil {
		log.Error("directory-api: close failed", "err", err)
		code = 1
	}

	if code == 0 {
		log.Info("directory-api: stopped")
	}
	return code
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for up to shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Info("http: listening", "addr", srv.Addr)
		listenErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("directory-api: shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
