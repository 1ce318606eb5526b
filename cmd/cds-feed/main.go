package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/config"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/database"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/evaluator"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/feed"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/logger"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/redis"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/repository"
	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/store"
)

func main() {
	patients := flag.Int("patients", 0, "number of synthetic patients (overrides CDS_FEED_PATIENTS)")
	interval := flag.Duration("interval", 0, "cycle interval, 0 runs a single cycle (overrides CDS_FEED_INTERVAL)")
	seed := flag.Int64("seed", 0, "random seed, 0 seeds from the clock (overrides CDS_FEED_SEED)")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Explicit command line flags win over the environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "patients":
			cfg.Feed.Patients = *patients
		case "interval":
			cfg.Feed.Interval = *interval
		case "seed":
			cfg.Feed.Seed = *seed
		}
	})

	// 2. Initialize logging
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "cds-feed")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Build the evaluator chain
	classifier, err := evaluator.NewRiskClassifier(cfg.CDS.Thresholds)
	if err != nil {
		log.Fatal("Invalid threshold configuration", zap.Error(err))
	}
	engine, err := evaluator.NewRecommendationEngine(evaluator.DefaultCatalog(), cfg.CDS.MaxActions)
	if err != nil {
		log.Fatal("Invalid action catalog", zap.Error(err))
	}
	builder := evaluator.NewScorecardBuilder(classifier, engine, cfg.CDS.TempAdjust)

	// 4. Open the batch store
	batchStore, err := store.NewFileStore(cfg.Store.Dir, log)
	if err != nil {
		log.Fatal("Failed to open batch store",
			zap.String("dir", cfg.Store.Dir),
			zap.Error(err))
	}

	// 5. Optional Redis notifier
	var notifier feed.Notifier
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewRedisClient(&cfg.Redis)
		if err := redis.Ping(context.Background(), redisClient); err != nil {
			log.Fatal("Failed to connect to Redis",
				zap.String("addr", cfg.Redis.Addr),
				zap.Error(err))
		}
		notifier = redis.NewBatchNotifier(redisClient, cfg.Redis.Stream, log)
		log.Info("Batch notifications enabled", zap.String("stream", cfg.Redis.Stream))
	}

	// 6. Optional batch auditing
	var auditor feed.Auditor
	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		auditor = repository.NewBatchAuditRepository(db, log)
		log.Info("Batch auditing enabled", zap.String("database", cfg.Database.Database))
	}

	// 7. Run the feed loop
	generator := feed.NewGenerator(cfg.Feed.Patients, cfg.Feed.Seed)
	runner := feed.NewRunner(generator, builder, batchStore, notifier, auditor, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- runner.Run(ctx, cfg.Feed.Interval)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Fatal("Feed run failed", zap.Error(err))
		}
	}

	if redisClient != nil {
		_ = redis.Close(redisClient)
	}
	if db != nil {
		_ = database.Close(db)
	}

	log.Info("CDS feed stopped")
}
