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

	"golang.org/x/crypto/bcrypt"

	"taskshare/internal/server"
	"taskshare/internal/state"
	"taskshare/internal/storage"
	"taskshare/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TASKSHARE_ADDR", ":8080"), "HTTP listen address")
	storeFlag := flag.String("store", util.EnvOrDefault("TASKSHARE_STORE", "sqlite"), "State backend: sqlite, redis or memory")
	dbFlag := flag.String("db", util.EnvOrDefault("TASKSHARE_DB_PATH", "data/taskshare.db"), "Path to sqlite database file")
	redisAddrFlag := flag.String("redis-addr", util.EnvOrDefault("TASKSHARE_REDIS_ADDR", "localhost:6379"), "Redis address for the redis backend")
	redisPrefixFlag := flag.String("redis-prefix", util.EnvOrDefault("TASKSHARE_REDIS_PREFIX", "taskshare:"), "Key prefix for the redis backend")
	costFlag := flag.Int("bcrypt-cost", util.EnvIntOrDefault("TASKSHARE_BCRYPT_COST", bcrypt.DefaultCost), "bcrypt cost for stored credentials")
	staticFlag := flag.String("static", util.EnvOrDefault("TASKSHARE_STATIC_DIR", "web/dist"), "Directory with built frontend")
	debugFlag := flag.Bool("debug", util.EnvOrDefault("TASKSHARE_DEBUG", "") != "", "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	backend, err := storage.Open(ctx, storage.Config{
		Type:        storage.BackendType(*storeFlag),
		SQLitePath:  *dbFlag,
		RedisAddr:   *redisAddrFlag,
		RedisPrefix: *redisPrefixFlag,
	}, logger)
	if err != nil {
		logger.Error("unable to open state store", slog.String("store", *storeFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}
	st, err := state.New(ctx, backend, logger, state.WithHashCost(*costFlag))
	if err != nil {
		logger.Error("unable to load state", slog.String("error", err.Error()))
		closeBackend(logger, backend)
		os.Exit(1)
	}

	srv := server.New(st, logger, *staticFlag)

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("store", *storeFlag))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	closeBackend(logger, backend)
	logger.Info("server stopped")
}

func closeBackend(logger *slog.Logger, backend storage.Backend) {
	if err := backend.Close(); err != nil {
		logger.Error("failed to close state store", slog.String("error", err.Error()))
	}
}
