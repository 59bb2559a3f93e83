package models

// Requests for HTTP endpoints. Defined in domain for consistency and reuse.

type SnapshotListRequest struct {
	Limit int `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
}

type IndicatorHistoryRequest struct {
	Key   string `param:"key" json:"key" validate:"required,instrument"`
	Limit int    `query:"limit" json:"limit" default:"30" validate:"gte=1,lte=365"`
}

type DashboardRequest struct {
	Lang string `query:"lang" json:"lang" default:"ko" validate:"oneof=en ko ja zh"`
}
