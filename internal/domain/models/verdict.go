package models

// VerdictStatus is the qualitative market assessment.
type VerdictStatus string

const (
	StatusRisk       VerdictStatus = "risk"
	StatusCaution    VerdictStatus = "caution"
	StatusNeutral    VerdictStatus = "neutral"
	StatusPositive   VerdictStatus = "positive"
	StatusOverheated VerdictStatus = "overheated"
	// StatusWaiting is only produced by the read path when nothing has been collected yet.
	StatusWaiting VerdictStatus = "waiting"
)

// AnalysisVerdict is the model's assessment of one snapshot.
type AnalysisVerdict struct {
	Status                   VerdictStatus `json:"status"`
	Summary                  []string      `json:"summary"`
	EstimatedRateProbability float64       `json:"estimated_fed_prob"`
	EstimatedSentimentScore  float64       `json:"estimated_cnn_score"`
}

// NeutralVerdict is substituted whenever the model call or its parse fails.
func NeutralVerdict() AnalysisVerdict {
	return AnalysisVerdict{
		Status:                   StatusNeutral,
		Summary:                  []string{"Analyzing market data..."},
		EstimatedRateProbability: 50,
		EstimatedSentimentScore:  50,
	}
}

// WaitingVerdict is returned by the read path for an empty store.
func WaitingVerdict() AnalysisVerdict {
	return AnalysisVerdict{
		Status: StatusWaiting,
		Summary: []string{
			"No market data has been collected yet.",
			"Trigger /api/cron to run a collection cycle.",
			"The dashboard will update shortly.",
		},
	}
}

// Clone returns a deep copy.
func (v AnalysisVerdict) Clone() AnalysisVerdict {
	out := v
	out.Summary = append([]string(nil), v.Summary...)
	return out
}
