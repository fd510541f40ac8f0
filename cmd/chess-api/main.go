package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RubenGonV/chess-testing/internal/cache"
	appcfg "github.com/RubenGonV/chess-testing/internal/config"
	"github.com/RubenGonV/chess-testing/internal/httpapi"
	"github.com/RubenGonV/chess-testing/internal/obslog"
	"github.com/RubenGonV/chess-testing/internal/rules"
	"github.com/RubenGonV/chess-testing/internal/service/position"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	// Snapshot cache is optional; the service is fully functional
	// without Redis.
	var snaps *cache.SnapshotCache
	if cfg.RedisURL != "" {
		snaps, err = cache.New(cfg.RedisURL, time.Duration(cfg.SnapshotCacheTTLSec)*time.Second, logger)
		if err != nil {
			log.Fatalf("cache init error: %v", err)
		}
		logger.Info("snapshot_cache_enabled", zap.Int("ttl_sec", cfg.SnapshotCacheTTLSec))
	}

	svc := position.NewService(rules.New(), snaps, logger)
	srv := httpapi.New(cfg, svc, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown_signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Fatal("server_error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown_error", zap.Error(err))
	}
	if snaps != nil {
		_ = snaps.Close()
	}
	_ = logger.Sync()
}
