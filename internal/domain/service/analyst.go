package service

import (
	"context"

	"MacroPulse/internal/domain/models"
)

// AnalysisInput is everything the analyst sees for one cycle.
type AnalysisInput struct {
	Quotes    map[models.InstrumentKey]models.InstrumentReading
	QuoteOK   map[models.InstrumentKey]bool
	Macro     map[models.InstrumentKey]float64
	MacroOK   map[models.InstrumentKey]bool
	Sentiment models.SentimentReading
	News      models.NewsResult
}

// Analyst produces a verdict. It never fails: on any error it returns the
// neutral verdict and ok=false.
type Analyst interface {
	Analyze(ctx context.Context, in AnalysisInput) (verdict models.AnalysisVerdict, ok bool, detail string)
}

// TextGenerator submits a prompt to a generative model and returns raw text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}
