package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/config"
	httpapi "github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/http"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/logger"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/service"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/store"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logging
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "cds-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Open the batch store
	batchStore, err := store.NewFileStore(cfg.Store.Dir, log)
	if err != nil {
		log.Fatal("Failed to open batch store",
			zap.String("dir", cfg.Store.Dir),
			zap.Error(err))
	}

	// 4. Wire handlers and routes
	handler := httpapi.NewScorecardHandler(batchStore, cfg.CDS.Thresholds, cfg.CDS.TempAdjust, log)
	router := httpapi.NewRouter(log)
	router.RegisterScorecardRoutes(handler)
	router.RegisterOpsRoutes()

	// 5. Start the HTTP server
	srv := service.NewServer(
		fmt.Sprintf(":%d", cfg.Server.Port),
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		log,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// 6. Wait for a signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)

	log.Info("CDS API stopped")
}
