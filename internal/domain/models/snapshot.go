package models

import "time"

// Snapshot is one immutable aggregation of readings and a verdict.
type Snapshot struct {
	ID         string          `json:"id"`
	MarketData MarketData      `json:"marketData"`
	AIAnalysis AnalysisVerdict `json:"aiAnalysis"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// EmptySnapshot is what the read path serves before the first cycle completes.
func EmptySnapshot() Snapshot {
	return Snapshot{
		MarketData: NewMarketData(),
		AIAnalysis: WaitingVerdict(),
	}
}

// IsEmpty reports whether s is the placeholder returned for an empty store.
func (s Snapshot) IsEmpty() bool {
	return s.ID == "" && s.CreatedAt.IsZero()
}

// IndicatorPoint is one historical value of a single instrument.
type IndicatorPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
