package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"balcao/internal/caching"
	"balcao/internal/config"
	"balcao/internal/handlers"
	"balcao/internal/jobs"
	"balcao/internal/jobs/background"
	"balcao/internal/logging"
	"balcao/internal/middleware"
	"balcao/internal/repositories"
	"balcao/internal/services"
	"balcao/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cacheSvc.Close()

	registry := caching.NewRegistry(logger)

	var storage services.ObjectStorage
	if cfg.StorageEnabled() {
		storage, err = services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize object storage")
		}
	} else {
		logger.Info().Msg("MINIO_ENDPOINT not set, report export disabled")
	}

	auth, err := middleware.NewAuth(ctx, cfg.JWTSecret, cfg.JWKSURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize authentication")
	}
	defer auth.Close()

	// Repositories
	productRepo := repositories.NewProductRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	salesTypeRepo := repositories.NewSalesTypeRepo(pool)
	priceRepo := repositories.NewProductPriceRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	draftRepo := repositories.NewDraftRepo(cacheSvc)
	transactor := repositories.NewTransactor(pool)

	// Services
	productService := services.NewProductService(productRepo, categoryRepo, registry, cacheSvc, cfg.CacheTTL, logger)
	categoryService := services.NewCategoryService(categoryRepo, registry, cacheSvc, cfg.CacheTTL)
	salesTypeService := services.NewSalesTypeService(salesTypeRepo, registry, cacheSvc, cfg.CacheTTL)
	priceService := services.NewProductPriceService(priceRepo, productRepo, salesTypeRepo, registry)
	orderService := services.NewOrderService(transactor, orderRepo, productRepo, services.NewStockService(logger),
		registry, cacheSvc, cfg.CacheTTL, logger)
	draftService := services.NewDraftService(draftRepo, productRepo, salesTypeRepo, orderService, logger)
	reportService := services.NewReportService(orderRepo, storage, cfg.ReportsBucket, loc, registry, cacheSvc, cfg.CacheTTL, logger)
	receiptService := services.NewReceiptService(cfg.ShopName, loc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(
		jobs.NewInventoryAlertService(productService, logger),
		reportService,
		background.Options{
			LowStockThreshold: cfg.LowStockThreshold,
			AlertInterval:     cfg.LowStockInterval,
			ExportReports:     cfg.StorageEnabled(),
			ExportHour:        uint(cfg.ReportExportHour),
			ExportMinute:      5,
			Location:          loc,
		},
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	handlers.NewHealthHandlers(pool, cacheSvc, storage, cfg.ReportsBucket, version).Register(e)

	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "v1", auth.Middleware())

	handlers.NewProductHandlers(productService, priceService).Register(v1)
	handlers.NewCategoryHandlers(categoryService).Register(v1, "/categories")
	handlers.NewSalesTypeHandlers(salesTypeService).Register(v1, "/sales-types")
	handlers.NewOrderHandlers(orderService, receiptService, loc).Register(v1)
	handlers.NewDraftHandlers(draftService).Register(v1)
	handlers.NewReportHandlers(reportService).Register(v1)

	go func() {
		logger.Info().
			Str("version", version).
			Str("port", cfg.Port).
			Bool("auth", auth.Enabled()).
			Str("timezone", loc.String()).
			Msg("balcao server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := scheduler.Stop(); err != nil {
		logger.Error().Err(err).Msg("scheduler shutdown failed")
	}
}
