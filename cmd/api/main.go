package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/pwcheck/pwcheck-go/internal/breach"
	"github.com/pwcheck/pwcheck-go/internal/config"
	"github.com/pwcheck/pwcheck-go/internal/crypto"
	"github.com/pwcheck/pwcheck-go/internal/handler"
	"github.com/pwcheck/pwcheck-go/internal/middleware"
	"github.com/pwcheck/pwcheck-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	breachOpts := []breach.Option{
		breach.WithTimeout(cfg.BreachTimeout),
		breach.WithRateLimit(cfg.BreachRPS, cfg.BreachBurst),
		breach.WithCache(cfg.BreachCacheSize, cfg.BreachCacheTTL),
	}
	if cfg.BreachPadding {
		breachOpts = append(breachOpts, breach.WithPadding())
	}
	breachClient := breach.NewClient(cfg.BreachAPIURL, breachOpts...)

	gen := crypto.NewGenerator()

	evalService := service.NewEvaluatorService(breachClient, gen, cfg.BatchWorkers)
	evalHandler := handler.NewEvaluateHandler(evalService, cfg.MaxUploadBytes)

	genService := service.NewGeneratorService(gen)
	genHandler := handler.NewGeneratorHandler(genService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/", evalHandler.HandleForm)
	r.Post("/", evalHandler.HandleSubmit)
	r.Post("/api/v1/evaluate", evalHandler.HandleEvaluate)
	r.Post("/api/v1/generate", genHandler.HandleGenerate)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "breach_api", cfg.BreachAPIURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
