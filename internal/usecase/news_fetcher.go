package usecase

import (
	"context"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/pkg/logger"
)

// Filler texts handed to the model in place of headlines.
const (
	NewsFillerNoData = "No recent headlines were found; base the analysis on the numeric data."
	NewsFillerError  = "Headline collection failed; base the analysis on the numeric data."
)

// MaxHeadlines caps how many headlines reach the prompt.
const MaxHeadlines = 5

// NewsFetcher tries each provider in order until one returns headlines.
type NewsFetcher struct {
	providers []drepo.NewsProvider
	topic     string
	limit     int
	metrics   drepo.Metrics
	log       *logger.Logger
}

func NewNewsFetcher(providers []drepo.NewsProvider, topic string, limit int, metrics drepo.Metrics, log *logger.Logger) *NewsFetcher {
	if limit <= 0 || limit > MaxHeadlines {
		limit = MaxHeadlines
	}
	return &NewsFetcher{providers: providers, topic: topic, limit: limit, metrics: metrics, log: log}
}

// Fetch returns headlines and the report entry for the news source.
func (f *NewsFetcher) Fetch(ctx context.Context) (models.NewsResult, models.SourceStatus) {
	answered := false
	for i, p := range f.providers {
		headlines, err := p.Headlines(ctx, f.topic, f.limit)
		if err != nil {
			f.log.Warn("news fetch failed", logger.String("provider", p.Name()), logger.Error(err))
			continue
		}
		answered = true
		if len(headlines) == 0 {
			continue
		}
		if len(headlines) > f.limit {
			headlines = headlines[:f.limit]
		}

		outcome := models.OutcomeOK
		if i > 0 {
			outcome = models.OutcomeFallback
		}
		f.metrics.RecordSourceFetch(models.SourceNews, string(outcome))
		return models.NewsResult{Headlines: headlines, Origin: p.Name()},
			models.SourceStatus{Outcome: outcome, Detail: models.NewsDetail(p.Name(), len(headlines))}
	}

	if answered {
		f.metrics.RecordSourceFetch(models.SourceNews, string(models.OutcomeFallback))
		return models.NewsResult{Filler: NewsFillerNoData}, models.SourceStatus{Outcome: models.OutcomeFallback, Detail: "no data"}
	}
	f.metrics.RecordSourceFetch(models.SourceNews, string(models.OutcomeFail))
	return models.NewsResult{Filler: NewsFillerError}, models.SourceStatus{Outcome: models.OutcomeFail, Detail: "error"}
}
