package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"productInfoAgent/app/echo-server/metrics"
	"productInfoAgent/app/echo-server/router"
	"productInfoAgent/business/display"
	"productInfoAgent/business/rules"
	"productInfoAgent/business/settings"
	"productInfoAgent/business/suggestion"
	"productInfoAgent/business/voice"
	"productInfoAgent/internal/middleware"
	"productInfoAgent/internal/repository/deepgram"
	psqlRepo "productInfoAgent/internal/repository/postgres"
	redisRepo "productInfoAgent/internal/repository/redis"
	"productInfoAgent/internal/rest"
	"productInfoAgent/pkg/config"
	"productInfoAgent/pkg/database"
	redisdb "productInfoAgent/pkg/database/redis"
	"productInfoAgent/pkg/logger"
	agentmetrics "productInfoAgent/pkg/metrics"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting ProductInfoAgent", "version", cfg.App.Version, "store_id", cfg.App.StoreID)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Voice clips live in Redis when it is reachable, in process otherwise
	var voiceCache voice.SessionCache
	redisClient, err := redisdb.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory voice cache", "error", err)
		voiceCache = voice.NewMemoryCache(cfg.Session.TTL)
	} else {
		defer redisdb.CloseRedisClient(redisClient)
		voiceCache = redisRepo.NewVoiceCacheRepository(redisClient, cfg.Session.TTL)
	}

	deepgramRepo := deepgram.NewDeepgramRepository(
		deepgram.DeepgramConfig{
			BaseURL: cfg.Deepgram.BaseURL,
			Timeout: cfg.Deepgram.Timeout,
		},
	)

	// Init repo
	catalogRepo := psqlRepo.NewCatalogRepository(db)
	configRepo := psqlRepo.NewConfigRepository(db)
	suggestionRepo := psqlRepo.NewSuggestionRepository(db)
	viewRepo := psqlRepo.NewSuggestionViewRepository(db)

	// Init service
	settingsProvider := settings.NewProvider(configRepo, cfg.App.StoreID)
	ruleEngine := rules.NewEngine(settingsProvider, catalogRepo)
	suggestionService := suggestion.NewSuggestionService(suggestionRepo, viewRepo, catalogRepo, settingsProvider)
	displayService := display.NewDisplayService(settingsProvider, catalogRepo, ruleEngine)
	voiceService := voice.NewVoiceService(settingsProvider, deepgramRepo, voiceCache)

	// Init handler
	suggestionHandler := rest.NewSuggestionHandler(suggestionService)
	displayHandler := rest.NewDisplayHandler(displayService)
	voiceHandler := rest.NewVoiceHandler(voiceService)
	settingsHandler := rest.NewSettingsAdminHandler(settingsProvider)

	agentmetrics.Init()
	metrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	storefront := []echo.MiddlewareFunc{
		middleware.SessionMiddleware(cfg.Session.CookieName, cfg.Session.TTL),
		middleware.OptionalAuth(cfg.JWT.SecretKey),
	}

	// Setup routes
	api := e.Group("/api/v1")
	router.SetSuggestionRoutes(api, suggestionHandler, storefront...)
	router.SetDisplayRoutes(api, displayHandler, storefront...)
	router.SetVoiceRoutes(api, voiceHandler, storefront...)
	router.SetAdminRoutes(api, settingsHandler, suggestionHandler,
		middleware.AuthMiddleware(cfg.JWT.SecretKey),
		middleware.AdminOnly(),
	)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("Server stopped")
}
