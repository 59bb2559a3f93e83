package models

import "time"

// IndicatorCard is one rendered indicator.
type IndicatorCard struct {
	ID          InstrumentKey `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Value       string        `json:"value"`
	Change      float64       `json:"change"`
	Signal      Signal        `json:"signal"`
	Source      string        `json:"source"`
}

// SectorView groups cards under a localized title.
type SectorView struct {
	ID         Sector          `json:"id"`
	Title      string          `json:"title"`
	Indicators []IndicatorCard `json:"indicators"`
}

// DashboardView is the localized view model served to the UI.
type DashboardView struct {
	Language    Language      `json:"language"`
	Status      VerdictStatus `json:"status"`
	StatusLabel string        `json:"statusLabel"`
	Briefing    string        `json:"briefing"`
	LastUpdated *time.Time    `json:"lastUpdated"`
	Sectors     []SectorView  `json:"sectors"`
	// Warning is a soft banner shown when the store could not be read.
	Warning string `json:"warning,omitempty"`
}
