package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	domsvc "MacroPulse/internal/domain/service"
)

var errUpstream = errors.New("upstream down")

type fakeQuotes struct {
	quotes map[string]drepo.Quote
	fail   map[string]bool
}

func (f *fakeQuotes) Quote(_ context.Context, ticker string) (drepo.Quote, error) {
	if f.fail[ticker] {
		return drepo.Quote{}, errUpstream
	}
	return f.quotes[ticker], nil
}

type fakeMacro struct {
	values  map[string]float64
	missing map[string]bool
	fail    map[string]bool
}

func (f *fakeMacro) LatestObservation(_ context.Context, id string) (drepo.Observation, error) {
	if f.fail[id] {
		return drepo.Observation{SeriesID: id}, errUpstream
	}
	if f.missing[id] {
		return drepo.Observation{SeriesID: id, Missing: true}, nil
	}
	return drepo.Observation{SeriesID: id, Date: "2024-05-01", Value: f.values[id]}, nil
}

type fakeSentiment struct {
	score float64
	err   error
}

func (f *fakeSentiment) FearGreedScore(context.Context) (float64, error) { return f.score, f.err }

type fakeNews struct {
	name      string
	headlines []string
	err       error
	calls     int
}

func (f *fakeNews) Name() string { return f.name }

func (f *fakeNews) Headlines(_ context.Context, _ string, limit int) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.headlines, nil
}

type fakeAnalyst struct {
	verdict models.AnalysisVerdict
	ok      bool
	in      domsvc.AnalysisInput
}

func (f *fakeAnalyst) Analyze(_ context.Context, in domsvc.AnalysisInput) (models.AnalysisVerdict, bool, string) {
	f.in = in
	if !f.ok {
		return models.NeutralVerdict(), false, "call failed"
	}
	return f.verdict, true, "stub"
}

type fakeStore struct {
	mu         sync.Mutex
	snaps      []models.Snapshot
	appendErr  error
	readErr    error
	appendHook func()
}

func (s *fakeStore) Init(context.Context) error { return nil }

func (s *fakeStore) Append(_ context.Context, snap models.Snapshot) error {
	if s.appendHook != nil {
		s.appendHook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.snaps = append(s.snaps, snap)
	return nil
}

func (s *fakeStore) Latest(ctx context.Context) (models.Snapshot, error) {
	out, err := s.Recent(ctx, 1)
	if err != nil {
		return models.Snapshot{}, err
	}
	if len(out) == 0 {
		return models.Snapshot{}, drepo.ErrSnapshotNotFound
	}
	return out[0], nil
}

func (s *fakeStore) Recent(_ context.Context, limit int) ([]models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := append([]models.Snapshot(nil), s.snaps...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) Health(context.Context) error { return s.readErr }
func (s *fakeStore) Close() error                 { return nil }

type fakePublisher struct {
	published []models.Snapshot
	err       error
}

func (p *fakePublisher) PublishSnapshot(_ context.Context, s models.Snapshot) error {
	p.published = append(p.published, s)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type fakeLocker struct {
	held     bool
	err      error
	unlocked int
}

func (l *fakeLocker) TryLock(context.Context, string, time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLocker) Unlock(context.Context, string) error {
	l.held = false
	l.unlocked++
	return nil
}
