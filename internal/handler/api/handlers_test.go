package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/repository"
	"MacroPulse/internal/service/ratelimit"
	"MacroPulse/internal/usecase"
	xhttp "MacroPulse/pkg/http"
	xlogger "MacroPulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	res   usecase.CycleResult
	err   error
	calls int
}

func (r *stubRunner) RunCycle(context.Context) (usecase.CycleResult, error) {
	r.calls++
	return r.res, r.err
}

type brokenStore struct {
	*repository.MemorySnapshotStore
}

var errDown = errors.New("connection refused")

func (brokenStore) Latest(context.Context) (models.Snapshot, error)        { return models.Snapshot{}, errDown }
func (brokenStore) Recent(context.Context, int) ([]models.Snapshot, error) { return nil, errDown }
func (brokenStore) Health(context.Context) error                           { return errDown }

var at = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func seeded(t *testing.T, n int) *repository.MemorySnapshotStore {
	t.Helper()
	st := repository.NewMemorySnapshotStore()
	for i := 0; i < n; i++ {
		md := models.NewMarketData()
		md[models.KeyVIX] = models.InstrumentReading{Price: float64(10 + i)}
		require.NoError(t, st.Append(context.Background(), models.Snapshot{
			ID:         string(rune('a' + i)),
			MarketData: md,
			AIAnalysis: models.NeutralVerdict(),
			CreatedAt:  at.Add(time.Duration(i) * time.Hour),
		}))
	}
	return st
}

func serve(h xhttp.Handler, method, target string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func newMacro(runner usecase.CycleRunner, store drepo.SnapshotStore, limiter *ratelimit.Limiter) *MacroHandler {
	log := xlogger.NewNop()
	return NewMacroHandler(log, runner, usecase.NewSnapshotQuery(store, log), limiter)
}

func TestCron_Success(t *testing.T) {
	md := models.NewMarketData()
	md[models.KeyUS10Y] = models.InstrumentReading{Price: 4.2}
	runner := &stubRunner{res: usecase.CycleResult{
		Snapshot: models.Snapshot{ID: "x", MarketData: md},
		Report:   models.Report{"us10y": {Outcome: models.OutcomeOK}},
	}}
	h := newMacro(runner, repository.NewMemorySnapshotStore(), nil)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := serve(h, method, "/api/cron")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.JSONEq(t, `"Data Saved"`, string(body["message"]))
		assert.Contains(t, string(body["report"]), `"us10y":{"outcome":"ok"}`)
		assert.Contains(t, string(body["data"]), `"us10y":{"price":4.2,"changePercent":0}`)
	}
	assert.Equal(t, 2, runner.calls)
}

func TestCron_PersistenceFailure(t *testing.T) {
	h := newMacro(&stubRunner{err: errors.New("append snapshot: disk full")}, repository.NewMemorySnapshotStore(), nil)

	rec := serve(h, http.MethodGet, "/api/cron")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"append snapshot: disk full"}`, rec.Body.String())
}

func TestCron_InProgress(t *testing.T) {
	h := newMacro(&stubRunner{err: usecase.ErrCycleInProgress}, repository.NewMemorySnapshotStore(), nil)

	rec := serve(h, http.MethodPost, "/api/cron")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCron_Throttled(t *testing.T) {
	runner := &stubRunner{}
	h := newMacro(runner, repository.NewMemorySnapshotStore(), ratelimit.PerMinute(1, 1))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/cron").Code)
	rec := serve(h, http.MethodGet, "/api/cron")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, runner.calls)
}

func TestMacro_EmptyStore(t *testing.T) {
	h := newMacro(&stubRunner{}, repository.NewMemorySnapshotStore(), nil)

	rec := serve(h, http.MethodGet, "/api/macro")
	require.Equal(t, http.StatusOK, rec.Code)

	var body MacroResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.LastUpdated)
	assert.Equal(t, models.StatusWaiting, body.AIAnalysis.Status)
	assert.Len(t, body.MarketData, len(models.AllKeys))
	assert.Contains(t, rec.Body.String(), `"lastUpdated":null`)
}

func TestMacro_Latest(t *testing.T) {
	h := newMacro(&stubRunner{}, seeded(t, 3), nil)

	rec := serve(h, http.MethodGet, "/api/macro")
	require.Equal(t, http.StatusOK, rec.Code)

	var body MacroResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.LastUpdated)
	assert.Equal(t, at.Add(2*time.Hour), *body.LastUpdated)
	assert.Equal(t, 12.0, body.MarketData[models.KeyVIX].Price)
}

func TestMacro_StoreError(t *testing.T) {
	h := newMacro(&stubRunner{}, brokenStore{repository.NewMemorySnapshotStore()}, nil)

	rec := serve(h, http.MethodGet, "/api/macro")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func newSnapshots(store drepo.SnapshotStore) *SnapshotsHandler {
	log := xlogger.NewNop()
	return NewSnapshotsHandler(log, usecase.NewSnapshotQuery(store, log))
}

func TestSnapshots_List(t *testing.T) {
	rec := serve(newSnapshots(seeded(t, 3)), http.MethodGet, "/api/snapshots?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Rows  []models.Snapshot `json:"rows"`
			Total int64             `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Rows, 2)
	assert.Equal(t, "c", body.Data.Rows[0].ID)
	assert.Equal(t, int64(2), body.Data.Total)
}

func TestSnapshots_ListRejectsBadLimit(t *testing.T) {
	rec := serve(newSnapshots(seeded(t, 1)), http.MethodGet, "/api/snapshots?limit=500")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	rec := serve(newSnapshots(seeded(t, 3)), http.MethodGet, "/api/indicators/vix/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Rows []models.IndicatorPoint `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Rows, 3)
	assert.Equal(t, 10.0, body.Data.Rows[0].Value)
	assert.Equal(t, 12.0, body.Data.Rows[2].Value)
}

func TestHistory_UnknownKey(t *testing.T) {
	rec := serve(newSnapshots(seeded(t, 1)), http.MethodGet, "/api/indicators/gold/history")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard(t *testing.T) {
	rec := serve(newSnapshots(seeded(t, 1)), http.MethodGet, "/api/dashboard?lang=en")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data models.DashboardView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.LangEN, body.Data.Language)
	assert.Equal(t, "Neutral", body.Data.StatusLabel)
	assert.Len(t, body.Data.Sectors, 4)
}

func TestDashboard_DefaultLanguageAndSoftFailure(t *testing.T) {
	rec := serve(newSnapshots(brokenStore{repository.NewMemorySnapshotStore()}), http.MethodGet, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data models.DashboardView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.LangKO, body.Data.Language)
	assert.NotEmpty(t, body.Data.Warning)
}

func TestDashboard_RejectsUnknownLanguage(t *testing.T) {
	rec := serve(newSnapshots(seeded(t, 1)), http.MethodGet, "/api/dashboard?lang=fr")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(xlogger.NewNop(), repository.NewMemorySnapshotStore())
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/readyz").Code)

	broken := NewHealthHandler(xlogger.NewNop(), brokenStore{repository.NewMemorySnapshotStore()})
	assert.Equal(t, http.StatusOK, serve(broken, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(broken, http.MethodGet, "/readyz").Code)
}
