package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/pkg/logger"

	"github.com/shopspring/decimal"
)

// DashboardWarning is the soft banner shown when the store could not be read.
var DashboardWarning = models.Localized{
	models.LangEN: "Latest data could not be loaded; showing defaults.",
	models.LangKO: "최신 데이터를 불러오지 못해 기본값을 표시합니다.",
	models.LangJA: "最新データを読み込めなかったため、既定値を表示しています。",
	models.LangZH: "无法加载最新数据，正在显示默认值。",
}

// SnapshotQuery serves the read path. It never blocks on a running cycle.
type SnapshotQuery struct {
	store drepo.SnapshotStore
	log   *logger.Logger
}

func NewSnapshotQuery(store drepo.SnapshotStore, log *logger.Logger) *SnapshotQuery {
	if log == nil {
		log = logger.NewNop()
	}
	return &SnapshotQuery{store: store, log: log}
}

// Latest returns the newest snapshot, or the waiting placeholder when the store is empty.
// Store failures are returned.
func (q *SnapshotQuery) Latest(ctx context.Context) (models.Snapshot, error) {
	s, err := q.store.Latest(ctx)
	if errors.Is(err, drepo.ErrSnapshotNotFound) {
		return models.EmptySnapshot(), nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("latest snapshot: %w", err)
	}
	s.MarketData = s.MarketData.Normalize()
	return s, nil
}

// Recent returns up to limit snapshots, newest first.
func (q *SnapshotQuery) Recent(ctx context.Context, limit int) ([]models.Snapshot, error) {
	out, err := q.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent snapshots: %w", err)
	}
	return out, nil
}

// IndicatorHistory returns the values of key over the last limit snapshots, oldest first.
func (q *SnapshotQuery) IndicatorHistory(ctx context.Context, key models.InstrumentKey, limit int) ([]models.IndicatorPoint, error) {
	snaps, err := q.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	points := make([]models.IndicatorPoint, 0, len(snaps))
	for i := len(snaps) - 1; i >= 0; i-- {
		s := snaps[i]
		points = append(points, models.IndicatorPoint{Date: s.CreatedAt, Value: s.MarketData[key].Price})
	}
	return points, nil
}

// Dashboard builds the localized view. A store failure degrades to defaults plus a warning.
func (q *SnapshotQuery) Dashboard(ctx context.Context, lang models.Language) models.DashboardView {
	if !lang.Valid() {
		lang = models.DefaultLanguage
	}

	s, err := q.Latest(ctx)
	warning := ""
	if err != nil {
		q.log.Warn("dashboard falling back to defaults", logger.Error(err))
		s = models.EmptySnapshot()
		warning = DashboardWarning.In(lang)
	}
	return BuildDashboard(s, lang, warning)
}

// BuildDashboard renders s into sector-grouped cards.
func BuildDashboard(s models.Snapshot, lang models.Language, warning string) models.DashboardView {
	status, label := models.StatusLabel(s.AIAnalysis.Status, lang)
	view := models.DashboardView{
		Language:    lang,
		Status:      status,
		StatusLabel: label,
		Briefing:    strings.Join(s.AIAnalysis.Summary, " "),
		Warning:     warning,
	}
	if !s.IsEmpty() {
		t := s.CreatedAt
		view.LastUpdated = &t
	}

	bySector := make(map[models.Sector][]models.IndicatorCard, len(models.Sectors))
	for _, ind := range models.Catalog {
		r := s.MarketData[ind.Key]
		bySector[ind.Sector] = append(bySector[ind.Sector], models.IndicatorCard{
			ID:          ind.Key,
			Name:        ind.Name.In(lang),
			Description: ind.Description.In(lang),
			Value:       decimal.NewFromFloat(r.Price).StringFixed(2),
			Change:      decimal.NewFromFloat(r.ChangePercent).Round(2).InexactFloat64(),
			Signal:      models.ComputeSignal(ind.Polarity, r.Price, r.ChangePercent),
			Source:      ind.Source,
		})
	}
	for _, sec := range models.Sectors {
		view.Sectors = append(view.Sectors, models.SectorView{
			ID:         sec,
			Title:      models.SectorTitles[sec].In(lang),
			Indicators: bySector[sec],
		})
	}
	return view
}
