package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"soletrack/internal/cache"
	"soletrack/internal/client/alias"
	"soletrack/internal/client/stockx"
	"soletrack/internal/config"
	cronrunner "soletrack/internal/cron"
	"soletrack/internal/db"
	"soletrack/internal/handler"
	"soletrack/internal/logger"
	"soletrack/internal/models"
	"soletrack/internal/provider"
	gormrepository "soletrack/internal/repository/gorm"
	"soletrack/internal/service"
	"soletrack/internal/stream"

	_ "soletrack/docs"
)

func main() {
	// Optional .env for local development; real deployments set ST_* directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("ST_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("ST_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}
	if err := db.EnsureLatestPricesView(dbConn); err != nil {
		logger.Fatal("create latest_prices view failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	priceCache := buildCache(cfg.Cache, logger)
	defer priceCache.Close()

	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub(logger, cfg.Stream.BufferSize)
		defer hub.Close()
	}

	stockxHTTP := &http.Client{Timeout: cfg.StockX.Timeout}
	stockxClient := stockx.NewClient(stockxHTTP, cfg.StockX.BaseURL, cfg.StockX.APIKey, cfg.StockX.JWT)
	aliasHTTP := &http.Client{Timeout: cfg.Alias.Timeout}
	aliasClient := alias.NewClient(aliasHTTP, cfg.Alias.BaseURL, cfg.Alias.APIKey)

	providers := []provider.Provider{
		&provider.StockXProvider{
			Client:       stockxClient,
			CurrencyCode: cfg.StockX.Currency,
			Region:       cfg.StockX.Region,
		},
		&provider.AliasProvider{
			Client: aliasClient,
			Region: cfg.Alias.Region,
			Logger: logger,
		},
	}

	ingestSvc := &service.MarketIngestService{
		Repo:               store,
		Providers:          providers,
		Settings:           settingsSvc,
		Cache:              priceCache,
		Hub:                hub,
		Logger:             logger,
		SleepBetweenStyles: cfg.Ingest.SleepBetweenStyles,
		MaxStylesPerRun:    cfg.Ingest.MaxStylesPerRun,
		StaleAfter:         cfg.Ingest.StaleAfter,
	}
	salesSvc := &service.SalesService{Repo: store}
	valuationSvc := &service.ValuationService{
		Repo:               store,
		Logger:             logger,
		ProviderPreference: []string{models.ProviderStockX, models.ProviderAlias},
	}
	exportSvc := &service.ExportService{Repo: store}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)

	cronHandler := &handler.CronHandler{
		Ingest:    ingestSvc,
		Valuation: valuationSvc,
		Cache:     priceCache,
		DB:        dbConn,
		Secret:    cfg.Auth.CronSecret,
		Logger:    logger,
	}
	cronHandler.Register(engine)

	api := engine.Group("/api/v1", handler.BearerAuth(cfg.Auth.APIToken))

	(&handler.ProductsHandler{Repo: store, Logger: logger}).Register(api)
	(&handler.InventoryHandler{Repo: store, Sales: salesSvc, Logger: logger}).Register(api)
	(&handler.SalesHandler{Repo: store, Service: salesSvc, Logger: logger}).Register(api)
	(&handler.ExpensesHandler{Repo: store, Logger: logger}).Register(api)
	(&handler.WatchlistHandler{Repo: store, Logger: logger}).Register(api)
	(&handler.ListingsHandler{Repo: store, Logger: logger}).Register(api)
	(&handler.MarketDataHandler{
		Repo:     store,
		Ingest:   ingestSvc,
		Cache:    priceCache,
		CacheTTL: cfg.Cache.TTL,
		DB:       dbConn,
		Logger:   logger,
	}).Register(api)
	(&handler.ValuationHandler{Repo: store, Service: valuationSvc, Logger: logger}).Register(api)
	(&handler.ReportsHandler{Export: exportSvc, Logger: logger}).Register(api)
	(&handler.SettingsHandler{Repo: store, Service: settingsSvc, Logger: logger}).Register(api)
	if hub != nil {
		(&handler.StreamHandler{Hub: hub, Settings: settingsSvc, Logger: logger}).Register(api)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		registerCronJobs(cronRunner, cfg.Cron, ingestSvc, valuationSvc, settingsSvc, priceCache, dbConn, logger)
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}

func buildCache(cfg config.CacheConfig, logger *zap.Logger) cache.Cache {
	if strings.EqualFold(cfg.Backend, "redis") {
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("redis cache unavailable, falling back to memory", zap.Error(err))
			return cache.NewMemory()
		}
		logger.Info("redis cache connected", zap.String("addr", cfg.RedisAddr))
		return redisCache
	}
	return cache.NewMemory()
}

func registerCronJobs(
	runner *cronrunner.Runner,
	cfg config.CronConfig,
	ingestSvc *service.MarketIngestService,
	valuationSvc *service.ValuationService,
	settingsSvc *service.SystemSettingsService,
	priceCache cache.Cache,
	dbConn *db.DB,
	logger *zap.Logger,
) {
	_, err := runner.Add(cfg.MarketSync, func(ctx context.Context) {
		result, err := ingestSvc.SyncWatchlist(ctx)
		if err != nil {
			logger.Warn("cron market sync failed", zap.Error(err))
			return
		}
		if !result.Skipped {
			logger.Info("cron market sync ok",
				zap.String("run_id", result.RunID),
				zap.Int("styles", result.Styles),
				zap.Int("rows", result.Rows),
				zap.Int("errors", result.Errors),
			)
		}
	})
	if err != nil {
		logger.Warn("cron register market sync failed", zap.Error(err))
	}

	_, err = runner.Add(cfg.ViewRefresh, func(ctx context.Context) {
		if !settingsSvc.IsEnabled(ctx, service.FeatureViewRefresh, true) {
			return
		}
		if err := db.RefreshLatestPrices(dbConn); err != nil {
			logger.Warn("cron view refresh failed", zap.Error(err))
			return
		}
		if priceCache != nil {
			if err := priceCache.DeletePrefix(ctx, "prices:"); err != nil {
				logger.Warn("cron cache invalidation failed", zap.Error(err))
			}
		}
	})
	if err != nil {
		logger.Warn("cron register view refresh failed", zap.Error(err))
	}

	_, err = runner.Add(cfg.Valuation, func(ctx context.Context) {
		if !settingsSvc.IsEnabled(ctx, service.FeatureValuationSnapshot, true) {
			return
		}
		if _, err := valuationSvc.Snapshot(ctx, time.Now().UTC()); err != nil {
			logger.Warn("cron valuation snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Warn("cron register valuation failed", zap.Error(err))
	}

	_, err = runner.Add(cfg.HealthSweep, func(ctx context.Context) {
		if err := ingestSvc.HealthSweep(ctx); err != nil {
			logger.Warn("cron health sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Warn("cron register health sweep failed", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Cron-Secret")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
