// Command vectorizer embeds product records with Gemini and upserts them
// into a Qdrant collection for similarity search.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/yoloeats/foodgraph/config"
	"github.com/yoloeats/foodgraph/pkg/embeddings"
	"github.com/yoloeats/foodgraph/pkg/logging"
	"github.com/yoloeats/foodgraph/pkg/middleware"
	"github.com/yoloeats/foodgraph/pkg/routes/health"
	"github.com/yoloeats/foodgraph/pkg/source"
	"github.com/yoloeats/foodgraph/pkg/startup"
	"github.com/yoloeats/foodgraph/pkg/tracing"
	"github.com/yoloeats/foodgraph/pkg/vector"
)

const version = "0.3.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vectorizer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.AppName+"-vectorizer", cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	var provider *source.MongoProvider
	err = startup.Connect(ctx, logger, "mongodb", cfg.StartupMaxAttempts, func(ctx context.Context) error {
		p, err := source.NewMongoVectorFeed(ctx, source.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			Timeout:    cfg.MongoTimeout,
		}, logger)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close(ctx)
			return err
		}
		provider = p
		return nil
	})
	if err != nil {
		return err
	}
	defer provider.Close(context.Background())

	store, err := vector.NewStore(vector.StoreConfig{
		Host:       cfg.QdrantHost,
		Port:       cfg.QdrantPort,
		APIKey:     cfg.QdrantAPIKey,
		UseTLS:     cfg.QdrantUseTLS,
		Collection: cfg.QdrantCollection,
		Dimension:  cfg.VectorDimension,
	}, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	err = startup.Connect(ctx, logger, "qdrant", cfg.StartupMaxAttempts, func(ctx context.Context) error {
		return store.Ping(ctx)
	})
	if err != nil {
		return err
	}

	engine, err := embeddings.NewGeminiEngine(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return err
	}
	defer engine.Close()

	checks := []health.Check{
		{Name: "source", Ping: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return provider.Ping(ctx)
		}},
		{Name: "vector", Ping: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return store.Ping(ctx)
		}},
	}
	checker := health.NewChecker(checks, nil, version)
	server := startServer(cfg, checker, logger)
	defer server.Shutdown(context.Background())
	checker.SetReady(true)

	vectorizer := vector.NewVectorizer(provider, engine, store, cfg.VectorBatchSize, logger)
	stats, err := vectorizer.Run(ctx)
	if err != nil {
		return err
	}

	logger.WithContext(ctx).WithFields(map[string]any{
		"points":  stats.Points,
		"skipped": stats.Skipped,
	}).Info("Vectorizer run finished")
	return nil
}

func startServer(cfg config.Config, checker *health.Checker, logger ectologger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(otelecho.Middleware(cfg.AppName + "-vectorizer"))
	checker.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server stopped")
		}
	}()
	return e
}
