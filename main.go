// Package main provides the main entry point for the ConstructAI BOQ estimation service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/theunseenchapter/constructai-sub000/app/dto"
	"github.com/theunseenchapter/constructai-sub000/app/handlers"
	"github.com/theunseenchapter/constructai-sub000/app/middleware"
	"github.com/theunseenchapter/constructai-sub000/app/router"
	"github.com/theunseenchapter/constructai-sub000/app/scheduler"
	"github.com/theunseenchapter/constructai-sub000/app/services"
	businessflow "github.com/theunseenchapter/constructai-sub000/business_flow"
	"github.com/theunseenchapter/constructai-sub000/config"
	"github.com/theunseenchapter/constructai-sub000/estimation"
	"github.com/theunseenchapter/constructai-sub000/models"
	"github.com/theunseenchapter/constructai-sub000/pricing"
	"github.com/theunseenchapter/constructai-sub000/repository"
	"github.com/theunseenchapter/constructai-sub000/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	logger    *logrus.Logger
	stopFuncs []func()
	closers   []io.Closer
}

func main() {
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logCloser.Close()

	logger.WithFields(logrus.Fields{
		"version":     cfg.Deployment.Version,
		"commit":      cfg.Deployment.CommitHash,
		"build_time":  cfg.Deployment.BuildTime,
		"environment": cfg.Deployment.Environment,
	}).Info("starting ConstructAI BOQ service")

	app, err := initializeApplication(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize application")
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	<-sigChan
	logger.Info("shutting down gracefully")

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("error during shutdown")
	}

	for _, c := range app.closers {
		_ = c.Close()
	}

	logger.Info("server stopped")
}

// initializeDatabase opens the configured driver and applies pool settings
func initializeDatabase(cfg config.DatabaseConfig, logger *logrus.Logger) (*gorm.DB, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gcfg := &gorm.Config{}
	if cfg.SlowQueryLog {
		gcfg.Logger = gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(models.AllModels()...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	logger.WithFields(logrus.Fields{
		"driver":         cfg.Driver,
		"max_open_conns": cfg.MaxOpenConns,
		"max_idle_conns": cfg.MaxIdleConns,
	}).Info("database connection established")

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig, logger *logrus.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithField("redis_db", cfg.RedisDB).Info("redis connection established")
	return rc, nil
}

// startCacheHealthMonitor periodically pings Redis until the returned function is called
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration, logger *logrus.Logger) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(monitorCtx, 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					logger.WithError(err).Warn("redis healthcheck failed")
				}
				c()
			}
		}
	}()
	return cancel
}

// loadEstimationConfig layers environment values and the optional YAML overrides over the engine defaults
func loadEstimationConfig(cfg config.EstimationConfig) (estimation.Config, error) {
	ec := estimation.DefaultConfig()
	ec.OverheadFraction = cfg.OverheadFraction
	ec.CirculationFraction = cfg.CirculationFraction
	ec.MinRoomArea = cfg.MinRoomArea
	ec.ScaleCountsWithMultipliers = cfg.ScaleCountsWithMultipliers

	return estimation.LoadConfig(ec, cfg.OverridesFile)
}

func initializeRateStore(cfg config.PricingConfig, db *gorm.DB) (pricing.RateStore, error) {
	switch cfg.Store {
	case "memory":
		return pricing.NewInMemoryRateStore(cfg.HistoryLimit), nil
	case "persistent":
		if db == nil {
			return nil, fmt.Errorf("persistent pricing store requires DB_ENABLED=true")
		}
		return pricing.NewPersistentRateStore(
			db,
			repository.NewMaterialRateRepository(db),
			repository.NewMaterialPriceHistoryRepository(db),
			cfg.HistoryLimit,
		), nil
	default:
		return nil, fmt.Errorf("unsupported pricing store %q", cfg.Store)
	}
}

func initializePriceFeed(cfg config.PricingConfig) (pricing.PriceFeed, error) {
	switch cfg.FeedProvider {
	case "http":
		if cfg.FeedURL == "" {
			return nil, fmt.Errorf("PRICING_FEED_URL is required for the http feed")
		}
		return services.NewHTTPPriceFeed(cfg.FeedURL, cfg.FeedAPIKey, cfg.FeedTimeout), nil
	case "simulated", "":
		return pricing.NewSimulatedMarketFeed(cfg.FeedSeed, cfg.FeedVolatility, pricing.DefaultCategoryBias()), nil
	default:
		return nil, fmt.Errorf("unsupported price feed %q", cfg.FeedProvider)
	}
}

func healthFunc(cfg *config.ProductionConfig, db *gorm.DB, rc *redis.Client) router.HealthFunc {
	return func(ctx context.Context) dto.HealthResponse {
		resp := dto.HealthResponse{
			Status:      "ok",
			Version:     cfg.Deployment.Version,
			Environment: cfg.Deployment.Environment,
			Database:    "disabled",
			Cache:       "disabled",
			Timestamp:   utils.UTCNowRFC3339(),
		}
		if db != nil {
			resp.Database = "ok"
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				resp.Database = "unreachable"
				resp.Status = "degraded"
			}
		}
		if rc != nil {
			resp.Cache = "ok"
			if err := rc.Ping(ctx).Err(); err != nil {
				resp.Cache = "unreachable"
				resp.Status = "degraded"
			}
		}
		return resp
	}
}

// initializeApplication wires stores, flows, handlers and background jobs
func initializeApplication(cfg *config.ProductionConfig, logger *logrus.Logger) (*Application, error) {
	app := &Application{config: cfg, logger: logger}

	db, err := initializeDatabase(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache, logger)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		app.stopFuncs = append(app.stopFuncs, startCacheHealthMonitor(context.Background(), rc, cfg.Cache.HealthCheckInterval, logger))
		app.closers = append(app.closers, rc)
	}

	estCfg, err := loadEstimationConfig(cfg.Estimation)
	if err != nil {
		return nil, err
	}
	engine := estimation.NewEngine(estCfg, logger, utils.UTCNow)

	store, err := initializeRateStore(cfg.Pricing, db)
	if err != nil {
		return nil, err
	}
	tracker := pricing.NewTracker(store, pricing.TrackerConfig{
		TrendThreshold:     cfg.Pricing.TrendThreshold,
		DefaultHistoryDays: cfg.Pricing.HistoryDefaultDays,
	}, logger, utils.UTCNow)

	if cfg.Pricing.SeedCatalog {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		seeded, err := tracker.Seed(ctx, pricing.DefaultCatalog())
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to seed rate catalog: %w", err)
		}
		logger.WithField("seeded", seeded).Info("rate catalog ready")
	}

	feed, err := initializePriceFeed(cfg.Pricing)
	if err != nil {
		return nil, err
	}

	tokenService, err := services.NewTokenService(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	var estimateRepo repository.BOQEstimateRepository
	if db != nil {
		estimateRepo = repository.NewBOQEstimateRepository(db)
	}

	layoutFlow := businessflow.NewLayoutFlow(engine)
	boqFlow := businessflow.NewBOQFlow(engine, tracker, estimateRepo, logger)
	pricingFlow := businessflow.NewPricingFlow(tracker, feed, rc, cfg.Cache, cfg.Pricing, logger)

	timeout := cfg.Server.RequestTimeout
	app.router = router.NewFiberRouter(cfg, router.Handlers{
		BOQ:     handlers.NewBOQHandler(boqFlow, timeout),
		Layout:  handlers.NewLayoutHandler(layoutFlow, timeout),
		Pricing: handlers.NewPricingHandler(pricingFlow, timeout),
		Auth:    middleware.NewAuthMiddleware(tokenService),
		Health:  healthFunc(cfg, db, rc),
	}, logger)

	if cfg.Pricing.SchedulerEnabled {
		sched := scheduler.NewPriceRefreshScheduler(pricingFlow, cfg.Pricing.RefreshInterval, logger)
		app.stopFuncs = append(app.stopFuncs, sched.Start(context.Background()))
	}

	return app, nil
}
