//go:build wireinject
// +build wireinject

package di

import (
	"RiskIQ/pkg/config"
	"RiskIQ/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
    wire.Build(
        ProvideLogger,
        ProvideMetrics,

        // Infrastructure clients
        ProvideClickHouseClient,
        ProvideKafkaProducer,
        ProvideMetricsCache,

        // Repositories
        ProvidePriceSource,
        ProvideAssessmentPublisher,

        // Domain services
        ProvideVolatilityModels,
        ProvideNarrativeGenerator,

        // Use cases
        ProvideTickerAssessor,
        ProvideAssessor,
        ProvidePortfolioAssessor,

        // HTTP
        ProvideRiskHandler,

        // Application server
        ProvideApp,
    )
    return &server.App{}, nil
}
