package models

import "fmt"

// Outcome classifies how a source behaved in one cycle.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFallback Outcome = "fallback"
	OutcomeFail     Outcome = "fail"
)

// SourceStatus is one report entry.
type SourceStatus struct {
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// Report sources beyond the instrument keys.
const (
	SourceSentiment       = "sentiment"
	SourceSentimentOrigin = "sentimentSource"
	SourceNews            = "news"
	SourceAnalysis        = "analysis"
)

// Sentiment origins recorded under SourceSentimentOrigin.
const (
	SentimentReal        = "real"
	SentimentAIEstimated = "ai-estimated"
)

// Report is the per-source diagnostic produced by one cycle. It is never persisted.
type Report map[string]SourceStatus

// Set records the status for a source.
func (r Report) Set(source string, outcome Outcome, detail string) {
	r[source] = SourceStatus{Outcome: outcome, Detail: detail}
}

// Merge copies every entry of other into r.
func (r Report) Merge(other Report) {
	for k, v := range other {
		r[k] = v
	}
}

// Count returns how many entries have the given outcome.
func (r Report) Count(outcome Outcome) int {
	n := 0
	for _, v := range r {
		if v.Outcome == outcome {
			n++
		}
	}
	return n
}

// NewsDetail renders the news entry detail for n headlines from the given origin.
func NewsDetail(origin string, n int) string {
	if origin == "rss" {
		return fmt.Sprintf("fallback rss (%d)", n)
	}
	return fmt.Sprintf("ok (%d headlines)", n)
}

// SentimentReading is the sentiment fetcher's result.
// Observed is false when the upstream could not be read; Score is then meaningless.
type SentimentReading struct {
	Score    float64
	Observed bool
}

// NewsResult holds headlines and the text embedded in the analyst prompt.
type NewsResult struct {
	Headlines []string
	// Origin is "yahoo", "rss", or empty when nothing was fetched.
	Origin string
	// Filler explains the absence of headlines to the model; empty when Headlines is not.
	Filler string
}
