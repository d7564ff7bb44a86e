package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rashdan16/Event-sorter/internal/ai"
	"github.com/Rashdan16/Event-sorter/internal/api/handlers"
	"github.com/Rashdan16/Event-sorter/internal/api/middleware"
	"github.com/Rashdan16/Event-sorter/internal/api/routes"
	"github.com/Rashdan16/Event-sorter/internal/domain/credential"
	"github.com/Rashdan16/Event-sorter/internal/domain/event"
	"github.com/Rashdan16/Event-sorter/internal/domain/extraction"
	"github.com/Rashdan16/Event-sorter/internal/domain/notification"
	syncdomain "github.com/Rashdan16/Event-sorter/internal/domain/sync"
	"github.com/Rashdan16/Event-sorter/internal/infrastructure/cache"
	"github.com/Rashdan16/Event-sorter/internal/infrastructure/persistence/postgres/connection"
	"github.com/Rashdan16/Event-sorter/internal/infrastructure/persistence/postgres/migrations"
	"github.com/Rashdan16/Event-sorter/pkg/config"
	"github.com/Rashdan16/Event-sorter/pkg/logger"
	"github.com/Rashdan16/Event-sorter/pkg/security/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLoggerWithLevel(cfg.Logging.Level)
	defer appLogger.Sync()
	log := appLogger.Logger

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.RegisterValidators()

	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := migrations.AutoMigrate(db.DB, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional: without it list caching and rate limiting are
	// skipped, everything else keeps working.
	var redisClient *cache.RedisClient
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedisClient(cache.NewConfigFromEnv(cfg))
		if err != nil {
			log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	aiClient := ai.NewClient(cfg.AI, log)
	adapter := extraction.NewAdapter(aiClient, log)
	fetcher := extraction.NewPageFetcher()
	chat := extraction.NewManager(aiClient, log)

	eventRepo := event.NewRepository(db.DB)
	sweeper := event.NewSweeper(eventRepo, log, time.Local)

	// A typed nil pointer must not reach the service as a non-nil
	// interface, so the nil case passes an untyped nil.
	var eventService event.Service
	var binService event.BinService
	if redisClient != nil {
		eventService = event.NewService(eventRepo, redisClient, sweeper, log)
		binService = event.NewBinService(eventRepo, redisClient, log)
	} else {
		eventService = event.NewService(eventRepo, nil, sweeper, log)
		binService = event.NewBinService(eventRepo, nil, log)
	}

	credRepo := credential.NewRepository(db.DB)
	refresher := credential.NewRefresher(credRepo, cfg.Google.ClientID, cfg.Google.ClientSecret, log)
	syncService := syncdomain.NewService(eventRepo, credRepo, refresher, time.Local, log)

	mailer := notification.NewMailer(cfg.SMTP)

	eventHandler := handlers.NewEventHandler(eventService, mailer, log)
	extractionHandler := handlers.NewExtractionHandler(adapter, fetcher, chat, log)
	binHandler := handlers.NewBinHandler(binService, log)
	syncHandler := handlers.NewSyncHandler(syncService, log)
	credentialHandler := handlers.NewCredentialHandler(credRepo, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(corsConfig(cfg)))

	registerHealth(router, db, redisClient)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	if redisClient != nil {
		limiter := auth.NewRedisRateLimiter(redisClient.GetClient(), time.Minute, 120)
		api.Use(middleware.RateLimitMiddleware(limiter))
	}
	api.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

	routes.NewEventRoutes(eventHandler, syncHandler).RegisterRoutes(api)
	routes.NewExtractionRoutes(extractionHandler).RegisterRoutes(api)
	routes.NewBinRoutes(binHandler).RegisterRoutes(api)
	routes.NewCredentialRoutes(credentialHandler).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		c.AllowAllOrigins = true
	}
	if len(cfg.CORS.AllowedMethods) > 0 {
		c.AllowMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		c.AllowHeaders = cfg.CORS.AllowedHeaders
	} else {
		c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	}
	c.AllowCredentials = cfg.CORS.AllowCredentials
	return c
}

func registerHealth(router *gin.Engine, db *connection.Database, redisClient *cache.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := db.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/health/cache", func(c *gin.Context) {
		if redisClient == nil {
			c.JSON(http.StatusOK, gin.H{"status": "disabled"})
			return
		}
		if err := redisClient.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, redisClient.GetMetrics())
	})
}
