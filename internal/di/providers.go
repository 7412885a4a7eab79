package di

import (
    "context"
    "fmt"
    "time"

    domrepo "RiskIQ/internal/domain/repository"
    domservice "RiskIQ/internal/domain/service"
    "RiskIQ/internal/handler/api"
    internalrepo "RiskIQ/internal/repository"
    icache "RiskIQ/internal/service/cache"
    "RiskIQ/internal/services/forecast"
    "RiskIQ/internal/services/narrative"
    "RiskIQ/internal/usecase"
    pkgcache "RiskIQ/pkg/cache"
    pkgch "RiskIQ/pkg/clickhouse"
    "RiskIQ/pkg/config"
    xhttp "RiskIQ/pkg/http"
    pkgkafka "RiskIQ/pkg/kafka"
    "RiskIQ/pkg/logger"
    "RiskIQ/pkg/metrics"
    "RiskIQ/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client when the price
// store runs against ClickHouse, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.MarketData.Source != "clickhouse" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS riskiq",
		"CREATE TABLE IF NOT EXISTS riskiq.daily_bars (ticker String, date Date, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=MergeTree ORDER BY (ticker, date)",
		"CREATE TABLE IF NOT EXISTS riskiq.tickers (ticker String, currency String) ENGINE=ReplacingMergeTree ORDER BY ticker",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvidePriceSource selects the configured price history backend.
func ProvidePriceSource(cfg *config.Config, chClient *pkgch.Client, l *logger.Logger) domrepo.PriceSource {
	if cfg.MarketData.Source == "clickhouse" && chClient != nil {
		store := internalrepo.NewCHPriceStore(chClient)
		store.SetLogger(l)
		return store
	}
	return internalrepo.NewYahooPriceSource(cfg.MarketData.Timeout, l)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideVolatilityModels builds the forecast ensemble.
func ProvideVolatilityModels(cfg *config.Config) []domservice.VolatilityModel {
	return []domservice.VolatilityModel{
		forecast.NewGARCHModel(),
		forecast.NewXGBoostModel(cfg.Models.XGBoostPath),
		forecast.NewLSTMModel(cfg.Models.LSTMPath),
	}
}

// ProvideKafkaProducer creates a Kafka producer, nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAssessmentPublisher creates the Kafka publisher, nil when the
// producer is disabled.
func ProvideAssessmentPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.AssessmentPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaAssessmentPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMetricsCache builds the layered metrics cache, nil when
// caching is disabled.
func ProvideMetricsCache(cfg *config.Config) pkgcache.Service {
	if !cfg.Cache.Enabled {
		return nil
	}
	memMax := cfg.Cache.MemoryMax
	if memMax <= 0 {
		memMax = 1000
	}
	if cfg.Cache.Redis.Enabled {
		redisCache, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix("riskiq"),
		)
		if err == nil {
			return pkgcache.NewLayeredCache(redisCache,
				pkgcache.WithLayeredMemorySize(memMax))
		}
		// Redis unreachable at startup: run on memory only.
	}
	return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(memMax))
}

// ProvideTickerAssessor creates the per-ticker pipeline.
func ProvideTickerAssessor(
	source domrepo.PriceSource,
	models []domservice.VolatilityModel,
	m domrepo.Metrics,
	l *logger.Logger,
) *usecase.TickerAssessor {
	return usecase.NewTickerAssessor(source, models, m, l)
}

// ProvideAssessor wraps the pipeline with the metrics cache when one
// is configured.
func ProvideAssessor(assessor *usecase.TickerAssessor, c pkgcache.Service, cfg *config.Config, l *logger.Logger) usecase.Assessor {
	if c == nil {
		return assessor
	}
	return usecase.NewCachedAssessor(assessor, c, cfg.Cache.TTL, l)
}

// ProvideNarrativeGenerator creates the narrative service. Without a
// configured endpoint the generator runs fallback-only.
func ProvideNarrativeGenerator(cfg *config.Config, l *logger.Logger) domservice.NarrativeGenerator {
	var client *narrative.Client
	if cfg.Narrative.URL != "" {
		client = narrative.NewClient(narrative.ClientConfig{
			URL:         cfg.Narrative.URL,
			Token:       cfg.Narrative.Token,
			Timeout:     cfg.Narrative.Timeout,
			MaxAttempts: cfg.Narrative.MaxAttempts,
			Backoff:     cfg.Narrative.Backoff,
		})
	}
	return narrative.NewGenerator(client, l)
}

// ProvidePortfolioAssessor creates the portfolio pipeline.
func ProvidePortfolioAssessor(
	assessor usecase.Assessor,
	gen domservice.NarrativeGenerator,
	publisher domrepo.AssessmentPublisher,
	m domrepo.Metrics,
	l *logger.Logger,
) *usecase.PortfolioAssessor {
	return usecase.NewPortfolioAssessor(assessor, gen, publisher, m, l)
}

// ProvideRiskHandler creates the Echo handler with rate limiting and
// response caching from config.
func ProvideRiskHandler(l *logger.Logger, portfolio *usecase.PortfolioAssessor, cfg *config.Config) xhttp.Handler {
	h := api.NewRiskEchoHandler(l, portfolio)
	if cfg.RateLimit.Enabled {
		h.SetRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	if cfg.Cache.Enabled {
		var bc icache.BytesCache = icache.NewTTLCache()
		if cfg.Cache.Redis.Enabled {
			bc = icache.NewRedisCache(icache.RedisConfig{
				Addr:     fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
			})
		}
		h.SetCache(bc, cfg.Cache.TTL)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
    cfg *config.Config,
    l *logger.Logger,
    handler xhttp.Handler,
    chClient *pkgch.Client,
    publisher domrepo.AssessmentPublisher,
) *server.App {
    return server.New(cfg, l, handler, chClient, publisher)
}
