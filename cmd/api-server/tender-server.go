package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tenders/db"
	"tenders/db/migrations"
	"tenders/internal/config"
	"tenders/internal/handlers"
	tlog "tenders/internal/log"
	"tenders/internal/service"
	"tenders/internal/store/database"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

func run() error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}

	logger, err := tlog.NewLogger(os.Stderr, cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx, logger)

	dbx, err := db.Open(ctx, cfg.DBDriver, cfg.PostgresConn)
	if err != nil {
		return err
	}
	defer dbx.Close()

	if err := migrations.Run(ctx, dbx); err != nil {
		return err
	}

	svc := service.New(dbx, database.New())
	h := handlers.NewHandler(svc, logger)

	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: handlers.NewRouter(h, handlers.RouterOptions{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Metrics:        cfg.MetricsEnabled,
		}),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddress)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
