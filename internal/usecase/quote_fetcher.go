package usecase

import (
	"context"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// QuoteResult covers every requested key; OK is false where the default was substituted.
type QuoteResult struct {
	Readings map[models.InstrumentKey]models.InstrumentReading
	OK       map[models.InstrumentKey]bool
	Report   models.Report
}

// QuoteFetcher reads the fixed quote set concurrently. A failing ticker never aborts the batch.
type QuoteFetcher struct {
	provider    drepo.QuoteProvider
	instruments []models.QuoteInstrument
	metrics     drepo.Metrics
	log         *logger.Logger
}

// NewQuoteFetcher creates a QuoteFetcher for instruments.
func NewQuoteFetcher(provider drepo.QuoteProvider, instruments []models.QuoteInstrument, metrics drepo.Metrics, log *logger.Logger) *QuoteFetcher {
	return &QuoteFetcher{provider: provider, instruments: instruments, metrics: metrics, log: log}
}

func (f *QuoteFetcher) Fetch(ctx context.Context) QuoteResult {
	readings := make([]models.InstrumentReading, len(f.instruments))
	errs := make([]error, len(f.instruments))

	var g errgroup.Group
	for i, inst := range f.instruments {
		g.Go(func() error {
			start := time.Now()
			q, err := f.provider.Quote(ctx, inst.Ticker)
			f.metrics.RecordLatency("quote_fetch", time.Since(start).Seconds())
			if err != nil {
				errs[i] = err
				return nil
			}
			readings[i] = models.InstrumentReading{Price: q.Price, ChangePercent: q.ChangePercent}
			return nil
		})
	}
	_ = g.Wait()

	res := QuoteResult{
		Readings: make(map[models.InstrumentKey]models.InstrumentReading, len(f.instruments)),
		OK:       make(map[models.InstrumentKey]bool, len(f.instruments)),
		Report:   models.Report{},
	}
	for i, inst := range f.instruments {
		if errs[i] != nil {
			f.log.Warn("quote fetch failed",
				logger.String("ticker", inst.Ticker),
				logger.String("key", inst.Key.String()),
				logger.Error(errs[i]),
			)
			f.metrics.RecordSourceFetch(inst.Key.String(), string(models.OutcomeFail))
			res.Readings[inst.Key] = models.DefaultReading
			res.Report.Set(inst.Key.String(), models.OutcomeFail, "error")
			continue
		}
		f.metrics.RecordSourceFetch(inst.Key.String(), string(models.OutcomeOK))
		res.Readings[inst.Key] = readings[i]
		res.OK[inst.Key] = true
		res.Report.Set(inst.Key.String(), models.OutcomeOK, "")
	}
	return res
}
