package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	domsvc "MacroPulse/internal/domain/service"
	"MacroPulse/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrCycleInProgress is returned when another cycle holds the cycle lock.
var ErrCycleInProgress = errors.New("collection cycle already in progress")

// CycleLockKey is the cache key guarding cycles across instances.
const CycleLockKey = "cycle:lock"

// Locker is the subset of the cache used for the cross-instance cycle lock.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// CycleResult is what one cycle produced. Report is set even when the cycle fails.
type CycleResult struct {
	Snapshot models.Snapshot
	Report   models.Report
}

// AssemblerDeps groups the collaborators of SnapshotAssembler.
type AssemblerDeps struct {
	Quotes    *QuoteFetcher
	Macro     *MacroFetcher
	Sentiment *SentimentFetcher
	News      *NewsFetcher
	Analyst   domsvc.Analyst
	Store     drepo.SnapshotStore
	// Publisher and Locker are optional.
	Publisher drepo.SnapshotPublisher
	Locker    Locker
	LockTTL   time.Duration
	Metrics   drepo.Metrics
	Log       *logger.Logger
}

// SnapshotAssembler runs one collection cycle: fetch everything, analyze, merge, append.
type SnapshotAssembler struct {
	d       AssemblerDeps
	running sync.Mutex
	now     func() time.Time
	newID   func() string
}

func NewSnapshotAssembler(d AssemblerDeps) *SnapshotAssembler {
	if d.Metrics == nil {
		d.Metrics = drepo.NopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	if d.LockTTL <= 0 {
		d.LockTTL = 2 * time.Minute
	}
	return &SnapshotAssembler{
		d:     d,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// RunCycle collects, analyzes and persists one snapshot.
// Only a persistence failure or a held lock is returned as an error.
func (a *SnapshotAssembler) RunCycle(ctx context.Context) (CycleResult, error) {
	if !a.running.TryLock() {
		return CycleResult{}, ErrCycleInProgress
	}
	defer a.running.Unlock()

	release, err := a.acquire(ctx)
	if err != nil {
		return CycleResult{}, err
	}
	defer release()

	start := time.Now()
	a.d.Log.Info("collection cycle started")

	var (
		quotes    QuoteResult
		macro     MacroResult
		sentiment models.SentimentReading
		news      models.NewsResult
		newsState models.SourceStatus
	)
	var g errgroup.Group
	g.Go(func() error { quotes = a.d.Quotes.Fetch(ctx); return nil })
	g.Go(func() error { macro = a.d.Macro.Fetch(ctx); return nil })
	g.Go(func() error { sentiment = a.d.Sentiment.Fetch(ctx); return nil })
	g.Go(func() error { news, newsState = a.d.News.Fetch(ctx); return nil })
	_ = g.Wait()

	verdict, analyzed, analysisDetail := a.d.Analyst.Analyze(ctx, domsvc.AnalysisInput{
		Quotes:    quotes.Readings,
		QuoteOK:   quotes.OK,
		Macro:     macro.Values,
		MacroOK:   macro.OK,
		Sentiment: sentiment,
		News:      news,
	})

	report := models.Report{}
	report.Merge(quotes.Report)
	report.Merge(macro.Report)
	report[models.SourceNews] = newsState
	if analyzed {
		report.Set(models.SourceAnalysis, models.OutcomeOK, analysisDetail)
	} else {
		report.Set(models.SourceAnalysis, models.OutcomeFail, analysisDetail)
	}

	md := Merge(quotes, macro, sentiment, verdict)
	if sentiment.Observed {
		report.Set(models.SourceSentiment, models.OutcomeOK, "real")
		report.Set(models.SourceSentimentOrigin, models.OutcomeOK, models.SentimentReal)
	} else {
		report.Set(models.SourceSentiment, models.OutcomeFallback, "ai estimated")
		report.Set(models.SourceSentimentOrigin, models.OutcomeFallback, models.SentimentAIEstimated)
	}

	snap := models.Snapshot{
		ID:         a.newID(),
		MarketData: md,
		AIAnalysis: verdict,
		CreatedAt:  a.now().UTC(),
	}

	if err := a.d.Store.Append(ctx, snap); err != nil {
		a.d.Metrics.RecordError("persist")
		a.d.Metrics.ObserveCycle(time.Since(start).Seconds(), "error")
		a.d.Log.Error("snapshot append failed", logger.String("id", snap.ID), logger.Error(err))
		return CycleResult{Report: report}, fmt.Errorf("append snapshot: %w", err)
	}

	if a.d.Publisher != nil {
		if err := a.d.Publisher.PublishSnapshot(ctx, snap); err != nil {
			a.d.Metrics.RecordError("publish")
			a.d.Log.Warn("snapshot publish failed", logger.String("id", snap.ID), logger.Error(err))
		}
	}

	for k, r := range md {
		a.d.Metrics.RecordInstrumentValue(k.String(), r.Price)
	}
	a.d.Metrics.ObserveCycle(time.Since(start).Seconds(), "ok")
	a.d.Log.Info("collection cycle finished",
		logger.String("id", snap.ID),
		logger.String("status", string(verdict.Status)),
		logger.Int("ok", report.Count(models.OutcomeOK)),
		logger.Int("fallback", report.Count(models.OutcomeFallback)),
		logger.Int("fail", report.Count(models.OutcomeFail)),
		logger.Duration("duration_ms", time.Since(start)),
	)

	return CycleResult{Snapshot: snap, Report: report}, nil
}

// acquire takes the cross-instance lock. A cache outage does not block the cycle.
func (a *SnapshotAssembler) acquire(ctx context.Context) (func(), error) {
	noop := func() {}
	if a.d.Locker == nil {
		return noop, nil
	}
	ok, err := a.d.Locker.TryLock(ctx, CycleLockKey, a.d.LockTTL)
	if err != nil {
		a.d.Log.Warn("cycle lock unavailable, continuing without it", logger.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, ErrCycleInProgress
	}
	return func() {
		uctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.d.Locker.Unlock(uctx, CycleLockKey); err != nil {
			a.d.Log.Warn("cycle lock release failed", logger.Error(err))
		}
	}, nil
}

// Merge builds the full mapping. Macro readings carry no change; the fear/greed
// score is the observed value when there is one, else the model's estimate.
func Merge(q QuoteResult, m MacroResult, s models.SentimentReading, v models.AnalysisVerdict) models.MarketData {
	md := models.NewMarketData()
	for k, r := range q.Readings {
		md[k] = r
	}
	for k, val := range m.Values {
		md[k] = models.InstrumentReading{Price: val}
	}
	md[models.KeyFedWatch] = models.InstrumentReading{Price: v.EstimatedRateProbability}
	cnn := v.EstimatedSentimentScore
	if s.Observed {
		cnn = s.Score
	}
	md[models.KeyCNNIndex] = models.InstrumentReading{Price: cnn}
	return md.Normalize()
}
