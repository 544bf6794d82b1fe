package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cdp-query/internal/config"
	"cdp-query/internal/db"
	apihttp "cdp-query/internal/http"
	"cdp-query/internal/llm"
	"cdp-query/internal/metrics"
	"cdp-query/internal/repository"
	"cdp-query/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	m := metrics.New()

	var llmClient *llm.HTTPClient
	if cfg.LLMEnabled() {
		llmClient = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, llm.Options{
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
			Timeout:     cfg.LLMTimeout(),
		}, zap.NewStdLog(logger))
	} else {
		logger.Warn("llm api key not configured, serving rule engine results only")
	}

	var logRepo repository.AnalysisLogRepository
	if cfg.DatabaseURL != "" {
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal("db migrations", zap.Error(err))
		}
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		pgRepo := repository.NewPgAnalysisLogRepository(pool)
		logRepo = pgRepo
		if err := m.RegisterLogCollector(pgRepo, logger); err != nil {
			logger.Warn("register analysis log collector failed", zap.Error(err))
		}
	}

	var (
		cache       service.ResultCache
		limiter     service.RateLimiter
		cacheDriver = "memory"
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, falling back to in-memory cache", zap.Error(err))
		} else {
			cache = service.NewRedisResultCache(redisClient, cfg.CacheTTL())
			limiter = service.NewRedisRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMinute)
			cacheDriver = "redis"
		}
		cancel()
		defer redisClient.Close()
	}
	if cache == nil {
		cache = service.NewMemoryResultCache(cfg.CacheTTL())
	}
	if limiter == nil {
		limiter = service.NewRateLimiter(time.Minute, cfg.RateLimitPerMinute)
	}

	tokens := service.NewTokenService(cfg.APIJWTSecret)
	if !tokens.Enabled() {
		logger.Warn("api jwt secret not configured, /api/analyze is open")
	}

	opts := service.AnalysisOptions{
		Cache:          cache,
		Limiter:        limiter,
		Logs:           logRepo,
		Metrics:        m,
		MaxQueryLength: cfg.MaxQueryLength,
		LLMTimeout:     cfg.LLMTimeout(),
	}
	var (
		analysisSvc *service.AnalysisService
		probe       *service.LLMProbe
	)
	if llmClient != nil {
		analysisSvc = service.NewAnalysisService(llmClient, logger, opts)
		probe = service.NewLLMProbe(cfg.LLMAPIKey, llmClient)
	} else {
		analysisSvc = service.NewAnalysisService(nil, logger, opts)
		probe = service.NewLLMProbe("", nil)
	}

	analyzeHandler := apihttp.NewAnalyzeHandler(logger, analysisSvc, probe, apihttp.RuntimeInfo{
		Environment: cfg.AppEnv,
		LLMAPIKey:   cfg.LLMAPIKey,
		LLMModel:    cfg.LLMModel,
		CacheDriver: cacheDriver,
		Persistence: logRepo != nil,
		AuthEnabled: tokens.Enabled(),
	})
	metricsHandler := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	router := apihttp.NewRouter(logger, analyzeHandler, tokens, metricsHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.Bool("llm_enabled", cfg.LLMEnabled()),
			zap.String("cache", cacheDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
