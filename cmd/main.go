package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"content-protect-assistant/internal/config"
	"content-protect-assistant/internal/gateway"
	"content-protect-assistant/internal/logger"
	"content-protect-assistant/internal/telemetry"
	"content-protect-assistant/middleware"
	"content-protect-assistant/routes"
	"content-protect-assistant/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer("content-protect-assistant", cfg.AssistantVersion)
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	} else {
		defer shutdownTracer()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.NonceHeader, middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	db := mongoClient.Database(cfg.DBName)

	builder := services.NewContextBuilder(cfg,
		services.NewMongoCodeStore(db, cfg.TablePrefix),
		services.NewMongoVideoStore(db, cfg.TablePrefix),
		services.NewMongoSessionStore(db, cfg.TablePrefix),
		services.NewMongoEventStore(db, cfg.TablePrefix),
		services.NewModuleScanner(cfg.ModuleDirs),
	)

	deps := routes.AssistantDeps{
		Cfg:      cfg,
		Limiter:  services.NewRateLimiter(rdb, cfg.RateLimitReqs, cfg.RateLimitWindow),
		Builder:  builder,
		Composer: services.NewPromptComposer(cfg.ReferenceDocPath),
		Gateway: gateway.NewClient(gateway.Options{
			BaseURL:  cfg.GatewayURL,
			APIKey:   cfg.GatewayAPIKey,
			Provider: cfg.GatewayProvider,
			Model:    cfg.GatewayModel,
			Keep:     cfg.HistoryKeep,
		}),
		Analytics: services.NewAnalyticsLogger(db, cfg.TablePrefix, metrics),
		Metrics:   metrics,
	}

	authMiddleware := middleware.NewAuthMiddleware(rdb)
	routes.SetupAssistantRoutes(router, deps, authMiddleware)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
