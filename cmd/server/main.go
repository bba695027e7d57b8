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

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/ecosplit/internal/auth"
	"github.com/mmynk/ecosplit/internal/cache"
	"github.com/mmynk/ecosplit/internal/config"
	"github.com/mmynk/ecosplit/internal/events"
	"github.com/mmynk/ecosplit/internal/middleware"
	"github.com/mmynk/ecosplit/internal/ocr"
	"github.com/mmynk/ecosplit/internal/service"
	"github.com/mmynk/ecosplit/internal/storage"
	"github.com/mmynk/ecosplit/internal/storage/memory"
	"github.com/mmynk/ecosplit/internal/storage/sqlite"
	"github.com/mmynk/ecosplit/pkg/api/apiconnect"
	"github.com/mmynk/ecosplit/pkg/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.DataBackend, "database", cfg.DBPath)

	var leaderboard cache.LeaderboardCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer client.Close()
		leaderboard = cache.NewRedis(client, cfg.LeaderboardTTL)
		slog.Info("Leaderboard cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.LeaderboardTTL)
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		slog.Info("Score events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	var (
		scanner ocr.Scanner
		advisor ocr.Advisor
	)
	if cfg.GeminiAPIKey != "" {
		gemini, err := ocr.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		scanner, advisor = gemini, gemini
		slog.Info("Receipt scanning enabled", "model", cfg.GeminiModel)
	} else {
		slog.Warn("GEMINI_API_KEY not set, receipt scanning and suggestions are disabled")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	interceptors := connect.WithInterceptors(
		metrics.Interceptor(),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewReceiptServiceHandler(
		service.NewReceiptService(store, scanner, leaderboard, publisher, logger), interceptors,
		connect.WithReadMaxBytes(service.MaxReceiptRequestBytes)))
	mux.Handle(apiconnect.NewSplitServiceHandler(
		service.NewSplitService(store, logger), interceptors))
	mux.Handle(apiconnect.NewGreenScoreServiceHandler(
		service.NewGreenScoreService(store, leaderboard, logger), interceptors))
	mux.Handle(apiconnect.NewSuggestionServiceHandler(
		service.NewSuggestionService(store, advisor, logger), interceptors))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Connect needs the protocol headers exposed to browsers.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
	}).Handler(mux)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(corsHandler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.DataBackend == config.BackendMemory {
		return memory.New(), nil
	}
	return sqlite.New(cfg.DBPath)
}
