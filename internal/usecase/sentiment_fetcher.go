package usecase

import (
	"context"
	"math"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/pkg/logger"
)

// SentimentFetcher reads the fear/greed score within a bounded time.
type SentimentFetcher struct {
	provider drepo.SentimentProvider
	timeout  time.Duration
	metrics  drepo.Metrics
	log      *logger.Logger
}

func NewSentimentFetcher(provider drepo.SentimentProvider, timeout time.Duration, metrics drepo.Metrics, log *logger.Logger) *SentimentFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SentimentFetcher{provider: provider, timeout: timeout, metrics: metrics, log: log}
}

// Fetch returns the rounded score, or an unobserved reading on any failure.
func (f *SentimentFetcher) Fetch(ctx context.Context) models.SentimentReading {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	score, err := f.provider.FearGreedScore(ctx)
	if err != nil {
		f.log.Warn("sentiment fetch failed", logger.Error(err))
		f.metrics.RecordSourceFetch(models.SourceSentiment, string(models.OutcomeFallback))
		return models.SentimentReading{}
	}
	f.metrics.RecordSourceFetch(models.SourceSentiment, string(models.OutcomeOK))
	return models.SentimentReading{Score: math.Round(score), Observed: true}
}
