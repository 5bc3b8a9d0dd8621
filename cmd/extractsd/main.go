package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"entgo.io/ent/dialect"

	"github.com/joseph-ayodele/orders-analytics/internal/common"
	repo "github.com/joseph-ayodele/orders-analytics/internal/repository"
	"github.com/joseph-ayodele/orders-analytics/internal/server"
)

func main() {
	cfg := common.LoadConfig()

	addr := flag.String("addr", cfg.Server.Addr, "listen address")
	dbPath := flag.String("sqlite", cfg.Output.SQLitePath, "cleaned SQLite database")
	flag.Parse()
	cfg.Server.Addr = *addr
	cfg.Output.SQLitePath = *dbPath

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if _, err := os.Stat(cfg.Output.SQLitePath); err != nil {
		logger.Error("database not found; run clean-orders first", "path", cfg.Output.SQLitePath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.OpenSQLite(cfg.Output.SQLitePath)
	if err != nil {
		logger.Error("open sqlite", "error", err)
		os.Exit(1)
	}
	store := repo.NewSQLStore(db, dialect.SQLite, logger)
	defer func() { _ = store.Close() }()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewServer(store, logger, 10*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("extracts service listening", "addr", cfg.Server.Addr, "db", cfg.Output.SQLitePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := common.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
