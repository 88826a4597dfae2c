package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/abhijeet-0165/ridefusion/config"
	"github.com/abhijeet-0165/ridefusion/pkg/api"
	"github.com/abhijeet-0165/ridefusion/pkg/bot"
	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/service"
	"github.com/abhijeet-0165/ridefusion/storage"
	"github.com/abhijeet-0165/ridefusion/storage/memory"
	"github.com/abhijeet-0165/ridefusion/storage/postgres"
	"github.com/abhijeet-0165/ridefusion/storage/redis"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	ctx := context.Background()

	// 3. Storage
	stg, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", logger.String("driver", cfg.StorageDriver), logger.Error(err))
		os.Exit(1)
	}
	defer stg.Close()

	kv, err := openKV(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open key-value store", logger.String("driver", cfg.KVDriver), logger.Error(err))
		os.Exit(1)
	}
	defer kv.Close()

	// 4. Services
	svc := service.New(stg, kv, log, service.WithPublishWindow(cfg.PublishWindowDays))

	// 5. HTTP API
	if cfg.LoggerLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: api.NewRouter(svc, log),
	}
	go func() {
		log.Info("HTTP server is starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", logger.Error(err))
			os.Exit(1)
		}
	}()

	// 6. Telegram bot, only when a token is configured
	var tg *bot.Bot
	if cfg.TelegramBotToken != "" {
		tg, err = bot.New(&cfg, svc, log)
		if err != nil {
			log.Error("failed to initialize telegram bot", logger.Error(err))
			os.Exit(1)
		}
		go tg.Start()
	}

	// 7. Graceful Shutdown listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	if tg != nil {
		tg.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", logger.Error(err))
	}
}

func openStorage(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg, log)
	case config.DriverMemory:
		log.Warning("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func openKV(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IKeyValue, error) {
	switch cfg.KVDriver {
	case config.DriverRedis:
		return redis.New(ctx, cfg, log)
	case config.DriverMemory:
		log.Warning("using in-memory key-value store, wallets are lost on restart")
		return memory.NewKV(), nil
	}
	return nil, fmt.Errorf("unknown key-value driver %q", cfg.KVDriver)
}
