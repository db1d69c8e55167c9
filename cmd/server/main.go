// Package main is the entrypoint for the Stratus weather dashboard API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stratuslabs/stratus/internal/ai"
	"github.com/stratuslabs/stratus/internal/analysis"
	"github.com/stratuslabs/stratus/internal/api"
	"github.com/stratuslabs/stratus/internal/api/handler"
	mw "github.com/stratuslabs/stratus/internal/api/middleware"
	"github.com/stratuslabs/stratus/internal/api/response"
	"github.com/stratuslabs/stratus/internal/cache"
	"github.com/stratuslabs/stratus/internal/config"
	"github.com/stratuslabs/stratus/internal/store"
	"github.com/stratuslabs/stratus/internal/weather"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create weather service
	weatherClient := weather.NewHTTPClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout)
	weatherService := weather.NewService(weatherClient, redisCache, cfg.Weather.CacheTTL)

	// 6. Create AI provider and the analysis pipeline
	aiProvider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", aiProvider.Name(), "model", aiProvider.Model())

	analyzer := analysis.NewAnalyzer(aiProvider, cfg.AI.InferenceTimeout)
	registry := analysis.NewRegistry(analyzer, analysis.Config{
		MaxWorkers: cfg.AI.MaxConcurrent,
		JobTTL:     cfg.AI.JobTTL,
		OnStatus: func(id uuid.UUID, status string) {
			if err := redisCache.SetJobStatus(context.Background(), id, status, cfg.AI.JobTTL); err != nil {
				slog.Warn("job status mirror failed", "job_id", id, "error", err)
			}
		},
	})
	defer registry.Close()
	analysisService := analysis.NewService(registry, weatherService)

	// 7. Create store
	pgStore := store.NewPostgresStore(pool)

	// 8. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, cfg.Server.RateLimitPerMin)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler: healthHandler(pgStore, redisCache),

		RegisterHandler: handler.NewRegisterHandler(pgStore),
		LoginHandler:    handler.NewLoginHandler(pgStore, cfg.Auth.SessionTTL),
		LogoutHandler:   handler.NewLogoutHandler(pgStore),

		WeatherHandler:        handler.NewWeatherHandler(weatherService),
		GeocodeHandler:        handler.NewGeocodeHandler(weatherService),
		ReverseGeocodeHandler: handler.NewReverseGeocodeHandler(weatherService),

		AnalyzeHandler: handler.NewAnalyzeHandler(analysisService),
		PollHandler:    handler.NewPollHandler(analysisService),

		ListLocationsHandler:  handler.NewListLocationsHandler(pgStore),
		SaveLocationHandler:   handler.NewSaveLocationHandler(pgStore),
		DeleteLocationHandler: handler.NewDeleteLocationHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 9. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
