package di

import (
	"context"
	"fmt"

	"stringanalyzer/application/commands"
	"stringanalyzer/application/commands/bus"
	commandhandlers "stringanalyzer/application/commands/handlers"
	"stringanalyzer/application/ports"
	"stringanalyzer/application/queries"
	querybus "stringanalyzer/application/queries/bus"
	queryhandlers "stringanalyzer/application/queries/handlers"
	"stringanalyzer/domain/services"
	"stringanalyzer/infrastructure/config"
	"stringanalyzer/infrastructure/messaging/eventbridge"
	"stringanalyzer/infrastructure/messaging/logging"
	"stringanalyzer/infrastructure/persistence/dynamodb"
	"stringanalyzer/infrastructure/persistence/instrumented"
	"stringanalyzer/infrastructure/persistence/memory"
	"stringanalyzer/infrastructure/persistence/resilient"
	"stringanalyzer/infrastructure/persistence/sqlite"
	"stringanalyzer/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const metricsNamespace = "string_analyzer"

// ProvideLogLevel parses the configured level into a level that can be
// changed at runtime
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return level, nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, func(), error) {
	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}

// ProvideMetrics creates the Prometheus metrics, or nil when disabled
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(metricsNamespace)
}

// ProvideTracerProvider sets up OpenTelemetry tracing
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "string-analyzer",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		Enabled:     cfg.EnableTracing,
		Insecure:    !cfg.IsProduction(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("Failed to shut down tracer provider", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideTracer returns the application tracer
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	return tp.Tracer()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client. DYNAMODB_ENDPOINT points
// it at DynamoDB Local.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideStore builds the configured backend and decorates it with the
// circuit breaker and instrumentation
func ProvideStore(
	ctx context.Context,
	cfg *config.Config,
	client *awsdynamodb.Client,
	metrics *observability.Metrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) (ports.StringRepository, func(), error) {
	var (
		store   ports.StringRepository
		cleanup = func() {}
	)

	switch cfg.StoreBackend {
	case config.StoreMemory:
		store = memory.NewStringRepository()
	case config.StoreDynamoDB:
		store = dynamodb.NewStringRepository(client, cfg.DynamoDBTable, logger)
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store = sqlite.NewStringRepository(db, logger)
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close sqlite database", zap.Error(err))
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.Breaker.Enabled {
		store = resilient.NewStringRepository(store, resilient.BreakerSettings{
			Name:                cfg.StoreBackend,
			MaxRequests:         cfg.Breaker.MaxRequests,
			Interval:            cfg.Breaker.Interval,
			Timeout:             cfg.Breaker.Timeout,
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
			OnStateChange: func(name string, _, to gobreaker.State) {
				metrics.SetBreakerState(name, float64(to))
			},
		}, logger)
		metrics.SetBreakerState(cfg.StoreBackend, float64(gobreaker.StateClosed))
	}

	store = instrumented.NewStringRepository(store, metrics, tracer, cfg.StoreBackend)

	logger.Info("Store initialized",
		zap.String("backend", cfg.StoreBackend),
		zap.Bool("circuit_breaker", cfg.Breaker.Enabled),
	)
	return store, cleanup, nil
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured and
// to the log otherwise
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return logging.NewPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideQueryInterpreter creates the natural-language query interpreter
func ProvideQueryInterpreter() *services.QueryInterpreter {
	return services.NewQueryInterpreter()
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	store ports.StringRepository,
	publisher ports.EventPublisher,
	tracer trace.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.TracingMiddleware(tracer),
		bus.LoggingMiddleware(logger),
	)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateStringCommand{}, commandhandlers.NewCreateStringHandler(store, publisher, logger)},
		{commands.DeleteStringCommand{}, commandhandlers.NewDeleteStringHandler(store, publisher, logger)},
	}

	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	store ports.StringRepository,
	interpreter *services.QueryInterpreter,
	metrics *observability.Metrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.TracingMiddleware(tracer),
		querybus.LoggingMiddleware(logger),
	)

	executor := queryhandlers.NewFilterExecutor(store)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetStringQuery{}, queryhandlers.NewGetStringHandler(store)},
		{queries.FilterStringsQuery{}, queryhandlers.NewFilterStringsHandler(executor)},
		{queries.NaturalLanguageFilterQuery{}, queryhandlers.NewNaturalLanguageFilterHandler(interpreter, executor, metrics)},
	}

	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}
