// Command relationalizer derives the food product graph from an upstream
// record source and streams it to a bulk-import TSV file or straight into a
// Bolt graph database.
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
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/yoloeats/foodgraph/config"
	"github.com/yoloeats/foodgraph/pkg/events"
	"github.com/yoloeats/foodgraph/pkg/graph"
	"github.com/yoloeats/foodgraph/pkg/logging"
	"github.com/yoloeats/foodgraph/pkg/middleware"
	"github.com/yoloeats/foodgraph/pkg/processor"
	"github.com/yoloeats/foodgraph/pkg/routes/health"
	"github.com/yoloeats/foodgraph/pkg/source"
	"github.com/yoloeats/foodgraph/pkg/startup"
	"github.com/yoloeats/foodgraph/pkg/tracing"
)

const version = "0.3.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relationalizer: %v\n", err)
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

	shutdownTracing, err := tracing.Init(ctx, cfg.AppName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	provider, checks, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer provider.Close(context.Background())

	sink, graphClient, err := buildSink(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if graphClient != nil {
		defer graphClient.Close(context.Background())
		checks = append(checks, health.Check{Name: "graph", Ping: func() error {
			return graphClient.VerifyConnectivity(context.Background())
		}})
	}

	runID := uuid.NewString()
	var eventEmitter *events.Emitter
	if cfg.KafkaEventsEnabled {
		eventEmitter = events.NewEmitter(events.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaEventsTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, runID, logger)
		defer eventEmitter.Close()
	}

	emitter := graph.NewEmitter(sink, logger)
	proc := processor.New(provider, emitter, eventEmitter, logger)

	checker := health.NewChecker(checks, proc, version)
	server := startServer(cfg, checker, logger)
	defer server.Shutdown(context.Background())
	checker.SetReady(true)

	logger.WithContext(ctx).WithFields(map[string]any{
		"run_id": runID,
		"source": cfg.SourceKind,
		"sink":   cfg.SinkKind,
	}).Info("Starting relationalizer run")
	eventEmitter.EmitRunStarted(ctx, cfg.SourceKind, cfg.SinkKind)

	stats, runErr := proc.Run(ctx)
	if closeErr := sink.Close(context.Background()); closeErr != nil && runErr == nil {
		runErr = closeErr
	}

	if runErr != nil {
		eventEmitter.EmitRunFailed(context.Background(), runErr)
		return runErr
	}

	eventEmitter.EmitRunCompleted(ctx, stats.Products, stats.Rejected, stats.NodeRows, stats.RelationshipRows)
	logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":            runID,
		"products":          stats.Products,
		"rejected":          stats.Rejected,
		"node_rows":         stats.NodeRows,
		"relationship_rows": stats.RelationshipRows,
	}).Info("Relationalizer run finished")
	return nil
}

func buildProvider(ctx context.Context, cfg config.Config, logger ectologger.Logger) (source.Provider, []health.Check, error) {
	switch cfg.SourceKind {
	case "mongo":
		var provider *source.MongoProvider
		err := startup.Connect(ctx, logger, "mongodb", cfg.StartupMaxAttempts, func(ctx context.Context) error {
			p, err := source.NewMongoGraphFeed(ctx, source.MongoConfig{
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
			return nil, nil, err
		}

		if count, err := provider.Count(ctx); err != nil {
			logger.WithContext(ctx).WithError(err).Warn("Failed to count eligible documents")
		} else {
			logger.WithContext(ctx).WithField("documents", count).Info("Eligible documents")
		}

		checks := []health.Check{{Name: "source", Ping: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return provider.Ping(ctx)
		}}}
		return provider, checks, nil

	case "kafka":
		provider := source.NewKafkaProvider(source.KafkaConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaInputTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}, logger)
		return provider, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.SourceKind)
	}
}

func buildSink(ctx context.Context, cfg config.Config, logger ectologger.Logger) (graph.RowSink, *graph.Client, error) {
	switch cfg.SinkKind {
	case "tsv":
		sink, err := graph.NewTSVSink(cfg.OutputTSVFile, logger)
		if err != nil {
			return nil, nil, err
		}
		return sink, nil, nil

	case "bolt":
		client, err := graph.NewClient(graph.ClientConfig{
			Host:     cfg.GraphDBHost,
			Port:     cfg.GraphDBPort,
			Username: cfg.GraphDBUser,
			Password: cfg.GraphDBPassword,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		err = startup.Connect(ctx, logger, "graphdb", cfg.StartupMaxAttempts, func(ctx context.Context) error {
			return client.VerifyConnectivity(ctx)
		})
		if err != nil {
			client.Close(ctx)
			return nil, nil, err
		}
		return graph.NewBoltSink(client, cfg.GraphBatchSize, logger), client, nil

	default:
		return nil, nil, fmt.Errorf("unknown sink kind %q", cfg.SinkKind)
	}
}

func startServer(cfg config.Config, checker *health.Checker, logger ectologger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(otelecho.Middleware(cfg.AppName))
	checker.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server stopped")
		}
	}()
	return e
}
