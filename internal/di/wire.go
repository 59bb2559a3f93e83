//go:build wireinject
// +build wireinject

package di

import (
	"MacroPulse/pkg/config"
	"MacroPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideClickHouseClient,

		// Repositories
		ProvideSnapshotStore,
		ProvideSnapshotPublisher,

		// Upstreams
		ProvideYahooClient,
		ProvideFREDClient,
		ProvideCNNClient,
		ProvideRSSClient,
		ProvideGeminiClient,
		ProvideAnalyst,

		// Use cases
		ProvideQuoteFetcher,
		ProvideMacroFetcher,
		ProvideSentimentFetcher,
		ProvideNewsFetcher,
		ProvideSnapshotAssembler,
		ProvideSnapshotQuery,
		ProvideScheduler,
		ProvideSnapshotEventsHandler,
		ProvideKafkaConsumer,

		// HTTP
		ProvideTriggerLimiter,
		ProvideHandlers,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
