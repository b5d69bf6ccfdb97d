package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"inventory-service/internal/adapters/primary/http/handlers"
	"inventory-service/internal/adapters/primary/http/middleware"
	"inventory-service/internal/adapters/primary/scheduler"
	"inventory-service/internal/adapters/secondary/cache"
	"inventory-service/internal/adapters/secondary/postgres"
	"inventory-service/internal/config"
	output "inventory-service/internal/core/ports/output"
	"inventory-service/internal/core/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, "up"); err != nil {
			return err
		}
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Repositories)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	moveRepo := postgres.NewStockMoveRepository(pool)
	batchRepo := postgres.NewStockBatchRepository(pool)
	reorderRepo := postgres.NewReorderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	ledger := postgres.NewStockLedger(pool)

	// Redis Cache (Optional - based on config)
	var suggestionCache output.SuggestionCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warnf("Redis init failed (continuing without suggestion cache): %v", err)
		} else {
			defer client.Close()
			suggestionCache = cache.NewSuggestionCache(client, cfg.Redis.KeyPrefix, cfg.Redis.SuggestTTL)
			log.Info("reorder suggestion cache enabled")
		}
	} else {
		log.Info("reorder suggestion cache disabled")
	}

	// Core Services (Application Layer)
	productSvc := services.NewProductService(productRepo)
	locationSvc := services.NewLocationService(locationRepo)
	levelSvc := services.NewInventoryLevelService(levelRepo)
	stockSvc := services.NewStockService(ledger, moveRepo, batchRepo, suggestionCache)
	reorderSvc := services.NewReorderService(reorderRepo, productRepo, suggestionCache)
	importer := services.NewProductImporter(productRepo)
	userSvc := services.NewUserService(userRepo)

	// Scheduled backups
	if cfg.Backup.Schedule != "" {
		sched := scheduler.New()
		backupSvc := services.NewBackupService(newDumper(cfg, ""), cfg.Backup.Dir, cfg.Backup.Retain)
		if err := sched.AddBackup(cfg.Backup.Schedule, backupSvc); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(productSvc, locationSvc, levelSvc, stockSvc, reorderSvc, importer)
	router := newRouter(cfg, pool, h, userSvc)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func newRouter(cfg *config.Config, pool *pgxpool.Pool, h *handlers.Handler, auth middleware.Authenticator) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders("Authorization", "X-Request-ID")
		router.Use(cors.New(corsCfg))
	}
	if cfg.RateLimit.RPS > 0 {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1/inventory")
	if cfg.Auth.Enabled {
		api.Use(middleware.BasicAuth(auth, cfg.Auth.Realm))
	} else {
		log.Warn("API authentication disabled")
	}
	h.RegisterRoutes(api)

	return router
}
