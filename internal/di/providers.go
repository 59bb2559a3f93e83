package di

import (
	"context"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
	domsvc "MacroPulse/internal/domain/service"
	"MacroPulse/internal/handler/api"
	internalrepo "MacroPulse/internal/repository"
	"MacroPulse/internal/service/cnn"
	"MacroPulse/internal/service/fred"
	"MacroPulse/internal/service/gemini"
	analystmetrics "MacroPulse/internal/service/metrics"
	"MacroPulse/internal/service/ratelimit"
	"MacroPulse/internal/service/rss"
	"MacroPulse/internal/service/upstream"
	"MacroPulse/internal/service/yahoo"
	"MacroPulse/internal/services/analyst"
	"MacroPulse/internal/usecase"
	"MacroPulse/pkg/cache"
	pkgch "MacroPulse/pkg/clickhouse"
	"MacroPulse/pkg/config"
	xhttp "MacroPulse/pkg/http"
	pkgkafka "MacroPulse/pkg/kafka"
	"MacroPulse/pkg/logger"
	"MacroPulse/pkg/metrics"
	"MacroPulse/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// ProvideKafkaProducer creates a Kafka producer, or nil when kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
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

// ProvideLogger builds the application logger. Error logs are aggregated and
// shipped to Kafka when a collect topic is configured.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Log.CollectTopic != "" {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Log.CollectTopic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus recorder and registers the analyst collectors.
func ProvideMetrics() repository.Metrics {
	analystmetrics.Register(prometheus.DefaultRegisterer)
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCache returns redis when enabled, otherwise an in-process cache.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideClickHouseClient creates a ClickHouse client, or nil for the memory backend.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Store.Backend != "clickhouse" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSnapshotStore picks the durable backend, creates its schema and fronts
// it with the latest-snapshot cache.
func ProvideSnapshotStore(cfg *config.Config, ch *pkgch.Client, c cache.Service, l *logger.Logger) (*internalrepo.CachedSnapshotStore, error) {
	var durable repository.SnapshotStore
	if ch != nil {
		durable = internalrepo.NewClickHouseSnapshotStore(ch.DB(), ch.Database(), internalrepo.DefaultSnapshotTable)
	} else {
		durable = internalrepo.NewMemorySnapshotStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := durable.Init(ctx); err != nil {
		_ = durable.Close()
		return nil, fmt.Errorf("snapshot store: %w", err)
	}
	return internalrepo.NewCachedSnapshotStore(durable, c, cfg.Store.CacheTTL, l), nil
}

// ProvideSnapshotPublisher returns nil when kafka is disabled.
func ProvideSnapshotPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.SnapshotPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic)
}

// ProvideYahooClient paces the quote fan-out and retries transient failures once.
func ProvideYahooClient(cfg *config.Config) *yahoo.Client {
	base := upstream.NewBase("yahoo",
		upstream.WithTimeout(cfg.Yahoo.Timeout),
		upstream.WithUserAgent(cfg.Yahoo.UserAgent),
		upstream.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Yahoo.RequestsPerSecond), cfg.Yahoo.Burst)),
		upstream.WithRetry(2, 200*time.Millisecond),
	)
	return yahoo.NewClient(cfg.Yahoo.QuoteURL, cfg.Yahoo.SearchURL, base)
}

func ProvideFREDClient(cfg *config.Config) *fred.Client {
	base := upstream.NewBase("fred",
		upstream.WithTimeout(cfg.FRED.Timeout),
		upstream.WithRetry(2, 200*time.Millisecond),
	)
	return fred.NewClient(cfg.FRED.BaseURL, cfg.FRED.APIKey, base)
}

// ProvideCNNClient sends a browser user agent; the endpoint rejects default clients.
func ProvideCNNClient(cfg *config.Config) *cnn.Client {
	base := upstream.NewBase("cnn",
		upstream.WithTimeout(cfg.Sentiment.Timeout),
		upstream.WithUserAgent(cfg.Sentiment.UserAgent),
	)
	return cnn.NewClient(cfg.Sentiment.URL, base)
}

func ProvideRSSClient(cfg *config.Config) *rss.Client {
	return rss.NewClient(cfg.News.RSSURL, cfg.News.Timeout, cfg.Yahoo.UserAgent)
}

func ProvideGeminiClient(cfg *config.Config) (*gemini.Client, error) {
	c, err := gemini.NewClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return c, nil
}

func ProvideAnalyst(cfg *config.Config, gen *gemini.Client, l *logger.Logger) domsvc.Analyst {
	return analyst.New(gen, cfg.Gemini.Timeout, l)
}

func ProvideQuoteFetcher(y *yahoo.Client, m repository.Metrics, l *logger.Logger) *usecase.QuoteFetcher {
	return usecase.NewQuoteFetcher(y, models.QuoteInstruments, m, l)
}

func ProvideMacroFetcher(f *fred.Client, m repository.Metrics, l *logger.Logger) *usecase.MacroFetcher {
	return usecase.NewMacroFetcher(f, models.MacroSeriesSet, m, l)
}

func ProvideSentimentFetcher(cfg *config.Config, c *cnn.Client, m repository.Metrics, l *logger.Logger) *usecase.SentimentFetcher {
	return usecase.NewSentimentFetcher(c, cfg.Sentiment.Timeout, m, l)
}

// ProvideNewsFetcher chains Yahoo search first, then the RSS feed.
func ProvideNewsFetcher(cfg *config.Config, y *yahoo.Client, r *rss.Client, m repository.Metrics, l *logger.Logger) *usecase.NewsFetcher {
	return usecase.NewNewsFetcher([]repository.NewsProvider{y, r}, cfg.News.Topic, cfg.News.MaxHeadlines, m, l)
}

func ProvideSnapshotAssembler(
	cfg *config.Config,
	quotes *usecase.QuoteFetcher,
	macro *usecase.MacroFetcher,
	sentiment *usecase.SentimentFetcher,
	news *usecase.NewsFetcher,
	an domsvc.Analyst,
	store *internalrepo.CachedSnapshotStore,
	pub repository.SnapshotPublisher,
	c cache.Service,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.SnapshotAssembler {
	return usecase.NewSnapshotAssembler(usecase.AssemblerDeps{
		Quotes:    quotes,
		Macro:     macro,
		Sentiment: sentiment,
		News:      news,
		Analyst:   an,
		Store:     store,
		Publisher: pub,
		Locker:    c,
		LockTTL:   cfg.Redis.LockTTL,
		Metrics:   m,
		Log:       l,
	})
}

func ProvideSnapshotQuery(store *internalrepo.CachedSnapshotStore, l *logger.Logger) *usecase.SnapshotQuery {
	return usecase.NewSnapshotQuery(store, l)
}

func ProvideTriggerLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.PerMinute(cfg.Trigger.RatePerMinute, cfg.Trigger.Burst)
}

// ProvideScheduler returns nil when periodic collection is disabled.
func ProvideScheduler(cfg *config.Config, assembler *usecase.SnapshotAssembler, l *logger.Logger) *usecase.Scheduler {
	if !cfg.Scheduler.Enabled {
		return nil
	}
	return usecase.NewScheduler(assembler, cfg.Scheduler.Interval, l)
}

// ProvideKafkaConsumer creates the snapshot events consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.LoggingHook{Log: l, IDHeader: internalrepo.HeaderSnapshotID})
	return consumer, nil
}

func ProvideSnapshotEventsHandler(cfg *config.Config, store *internalrepo.CachedSnapshotStore, m repository.Metrics) *usecase.SnapshotEventsHandler {
	return usecase.NewSnapshotEventsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideHandlers lists every HTTP handler mounted on the server.
func ProvideHandlers(
	l *logger.Logger,
	assembler *usecase.SnapshotAssembler,
	query *usecase.SnapshotQuery,
	limiter *ratelimit.Limiter,
	store *internalrepo.CachedSnapshotStore,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewMacroHandler(l, assembler, query, limiter),
		api.NewSnapshotsHandler(l, query),
		api.NewHealthHandler(l, store),
	}
}

func ProvideHTTPServer(cfg *config.Config, handlers []xhttp.Handler, l *logger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	l *logger.Logger,
	httpServer *xhttp.Server,
	scheduler *usecase.Scheduler,
	consumer *pkgkafka.Consumer,
	events *usecase.SnapshotEventsHandler,
	store *internalrepo.CachedSnapshotStore,
	pub repository.SnapshotPublisher,
	c cache.Service,
	ch *pkgch.Client,
) *server.App {
	return server.New(l, httpServer, scheduler, consumer, events, store, pub, c, ch)
}
