package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/config"
	"github.com/SAP-F-2025/valentine-service/internal/handlers"
	"github.com/SAP-F-2025/valentine-service/internal/link"
	"github.com/SAP-F-2025/valentine-service/internal/ratelimit"
	"github.com/SAP-F-2025/valentine-service/internal/services"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/SAP-F-2025/valentine-service/internal/validator"
	"github.com/SAP-F-2025/valentine-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(os.Stdout, cfg.IsProduction())
	slogger := utils.ToSlogLogger(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting stays in memory", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		log.Fatalf("Failed to create event publisher: %v", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	v := validator.New()
	builder := link.NewBuilder(cfg.PublicBaseURL, cfg.LinkPath, v)

	hm := handlers.NewHandlerManager(
		services.NewLinkService(builder, newLimiter(cfg, redisClient, slogger), publisher, slogger),
		services.NewQuizService(publisher, slogger, v),
		services.NewImportExportService(publisher, slogger),
		logger,
	)

	router := handlers.NewRouter(logger, cfg.CORSOrigins)
	hm.SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Server forced to shut down")
	}
}

// newLimiter uses redis when a client is configured and the in-process
// window whenever redis errors.
func newLimiter(cfg *config.Config, client *redis.Client, logger *slog.Logger) ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return ratelimit.Unlimited{}
	}

	memory := ratelimit.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
	if client == nil {
		return memory
	}
	return ratelimit.NewFallbackLimiter(
		ratelimit.NewRedisLimiter(client, cfg.RateLimit.Max, cfg.RateLimit.Window),
		memory,
		logger,
	)
}
