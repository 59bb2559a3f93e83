package analyst

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	domsvc "MacroPulse/internal/domain/service"
	"MacroPulse/internal/service/metrics"
	"MacroPulse/pkg/logger"
	"MacroPulse/pkg/util"
)

// Service asks a generative model for a verdict and never fails: any error
// yields the neutral verdict.
type Service struct {
	gen     domsvc.TextGenerator
	timeout time.Duration
	log     *logger.Logger
}

// New builds the analyst. timeout bounds the single model call; no retry is made.
func New(gen domsvc.TextGenerator, timeout time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Service{gen: gen, timeout: timeout, log: log}
}

// Analyze returns the model's verdict, or the neutral verdict with ok=false.
func (s *Service) Analyze(ctx context.Context, in domsvc.AnalysisInput) (models.AnalysisVerdict, bool, string) {
	if s.gen == nil {
		return models.NeutralVerdict(), false, "analyst not configured"
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.gen.Generate(callCtx, BuildPrompt(in))
	metrics.AnalystLatency.WithLabelValues(s.gen.Model()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalystVerdicts.WithLabelValues("call_error").Inc()
		s.log.Warn("analyst call failed", logger.String("model", s.gen.Model()), logger.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return models.NeutralVerdict(), false, "timeout"
		}
		return models.NeutralVerdict(), false, "call failed"
	}

	v, err := ParseVerdict(raw)
	if err != nil {
		metrics.AnalystVerdicts.WithLabelValues("malformed").Inc()
		s.log.Warn("analyst response rejected",
			logger.String("model", s.gen.Model()),
			logger.Error(err),
			logger.String("response_head", util.Truncate(raw, 120)),
		)
		return models.NeutralVerdict(), false, "malformed response"
	}

	metrics.AnalystVerdicts.WithLabelValues("ok").Inc()
	detail := s.gen.Model()
	if len(in.News.Headlines) > 0 {
		detail = fmt.Sprintf("%s (with news)", detail)
	}
	return v, true, detail
}

var _ domsvc.Analyst = (*Service)(nil)
