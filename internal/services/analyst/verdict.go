package analyst

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"MacroPulse/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedVerdict wraps every reason a model response is rejected.
var ErrMalformedVerdict = errors.New("malformed verdict")

var fenceStripper = strings.NewReplacer("```json", "", "```JSON", "", "```", "")

// verdictPayload mirrors the wire shape. Pointers distinguish absent fields from zero.
type verdictPayload struct {
	Status   *string  `json:"status" validate:"required,oneof=risk caution neutral positive overheated"`
	Summary  []string `json:"summary" validate:"required,min=1,dive,required"`
	FedProb  *float64 `json:"estimated_fed_prob" validate:"required,gte=0,lte=100"`
	CNNScore *float64 `json:"estimated_cnn_score" validate:"required,gte=0,lte=100"`
}

var verdictValidator = validator.New()

// StripFences removes markdown code fences the model sometimes wraps JSON in.
func StripFences(s string) string {
	return strings.TrimSpace(fenceStripper.Replace(s))
}

// ParseVerdict strictly decodes a model response. Unknown or missing fields,
// wrong types, out-of-range numbers, unknown status, blank summary lines and
// trailing data are all rejected.
func ParseVerdict(raw string) (models.AnalysisVerdict, error) {
	text := StripFences(raw)
	if text == "" {
		return models.AnalysisVerdict{}, fmt.Errorf("%w: empty body", ErrMalformedVerdict)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var p verdictPayload
	if err := dec.Decode(&p); err != nil {
		return models.AnalysisVerdict{}, fmt.Errorf("%w: %v", ErrMalformedVerdict, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.AnalysisVerdict{}, fmt.Errorf("%w: trailing data", ErrMalformedVerdict)
	}

	if p.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*p.Status))
		p.Status = &s
	}
	if err := verdictValidator.Struct(p); err != nil {
		return models.AnalysisVerdict{}, fmt.Errorf("%w: %v", ErrMalformedVerdict, err)
	}

	summary := make([]string, 0, len(p.Summary))
	for _, line := range p.Summary {
		line = strings.TrimSpace(line)
		if line == "" {
			return models.AnalysisVerdict{}, fmt.Errorf("%w: blank summary line", ErrMalformedVerdict)
		}
		summary = append(summary, line)
	}

	return models.AnalysisVerdict{
		Status:                   models.VerdictStatus(*p.Status),
		Summary:                  summary,
		EstimatedRateProbability: *p.FedProb,
		EstimatedSentimentScore:  *p.CNNScore,
	}, nil
}
