package usecase

import (
	"context"
	"errors"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/service/fred"
	"MacroPulse/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// MacroResult holds the latest value per macro key; 0 where nothing usable came back.
type MacroResult struct {
	Values map[models.InstrumentKey]float64
	OK     map[models.InstrumentKey]bool
	Report models.Report
}

// MacroFetcher reads the latest observation of each series. Series are isolated from each other.
type MacroFetcher struct {
	provider drepo.MacroProvider
	series   []models.MacroSeries
	metrics  drepo.Metrics
	log      *logger.Logger
}

func NewMacroFetcher(provider drepo.MacroProvider, series []models.MacroSeries, metrics drepo.Metrics, log *logger.Logger) *MacroFetcher {
	return &MacroFetcher{provider: provider, series: series, metrics: metrics, log: log}
}

func (f *MacroFetcher) Fetch(ctx context.Context) MacroResult {
	obs := make([]drepo.Observation, len(f.series))
	errs := make([]error, len(f.series))

	var g errgroup.Group
	for i, s := range f.series {
		g.Go(func() error {
			start := time.Now()
			obs[i], errs[i] = f.provider.LatestObservation(ctx, s.SeriesID)
			f.metrics.RecordLatency("macro_fetch", time.Since(start).Seconds())
			return nil
		})
	}
	_ = g.Wait()

	res := MacroResult{
		Values: make(map[models.InstrumentKey]float64, len(f.series)),
		OK:     make(map[models.InstrumentKey]bool, len(f.series)),
		Report: models.Report{},
	}
	for i, s := range f.series {
		key := s.Key.String()
		res.Values[s.Key] = 0
		switch {
		case errs[i] != nil:
			detail := "error"
			if errors.Is(errs[i], fred.ErrMissingAPIKey) {
				detail = "no api key"
			}
			f.log.Warn("macro fetch failed", logger.String("series", s.SeriesID), logger.Error(errs[i]))
			f.metrics.RecordSourceFetch(key, string(models.OutcomeFail))
			res.Report.Set(key, models.OutcomeFail, detail)
		case obs[i].Missing:
			f.log.Warn("macro series has no value", logger.String("series", s.SeriesID), logger.String("date", obs[i].Date))
			f.metrics.RecordSourceFetch(key, string(models.OutcomeFail))
			res.Report.Set(key, models.OutcomeFail, "missing value")
		default:
			f.metrics.RecordSourceFetch(key, string(models.OutcomeOK))
			res.Values[s.Key] = obs[i].Value
			res.OK[s.Key] = true
			res.Report.Set(key, models.OutcomeOK, obs[i].Date)
		}
	}
	return res
}
