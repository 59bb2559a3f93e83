package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/service/ratelimit"
	"MacroPulse/internal/usecase"
	xhttp "MacroPulse/pkg/http"
	xlogger "MacroPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const triggerKey = "trigger"

// CronResponse is the trigger endpoint body.
type CronResponse struct {
	Message string            `json:"message"`
	Report  models.Report     `json:"report"`
	Data    models.MarketData `json:"data"`
}

// MacroResponse is the read endpoint body.
type MacroResponse struct {
	MarketData  models.MarketData      `json:"marketData"`
	AIAnalysis  models.AnalysisVerdict `json:"aiAnalysis"`
	LastUpdated *time.Time             `json:"lastUpdated"`
}

// MacroHandler serves the trigger and the latest-snapshot read.
type MacroHandler struct {
	logger  *xlogger.Logger
	runner  usecase.CycleRunner
	query   *usecase.SnapshotQuery
	limiter *ratelimit.Limiter
}

func NewMacroHandler(logger *xlogger.Logger, runner usecase.CycleRunner, query *usecase.SnapshotQuery, limiter *ratelimit.Limiter) *MacroHandler {
	return &MacroHandler{logger: logger, runner: runner, query: query, limiter: limiter}
}

func (h *MacroHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/cron", h.Cron)
	g.POST("/cron", h.Cron)
	g.GET("/macro", h.Macro)
}

// Cron runs one collection cycle. The cycle outlives a disconnected caller so
// that a started append is not abandoned.
func (h *MacroHandler) Cron(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(triggerKey) {
		return xhttp.PlainErrorResponse(c, xhttp.TooManyRequestsError("too many trigger requests, retry later"))
	}

	res, err := h.runner.RunCycle(context.WithoutCancel(c.Request().Context()))
	if errors.Is(err, usecase.ErrCycleInProgress) {
		return xhttp.PlainErrorResponse(c, xhttp.ConflictError(err.Error()))
	}
	if err != nil {
		h.logger.Error("collection cycle failed", xlogger.Error(err))
		return xhttp.PlainErrorResponse(c, xhttp.InternalError(err.Error()))
	}

	return c.JSON(http.StatusOK, CronResponse{
		Message: "Data Saved",
		Report:  res.Report,
		Data:    res.Snapshot.MarketData,
	})
}

// Macro returns the newest snapshot, or the waiting placeholder for an empty store.
func (h *MacroHandler) Macro(c echo.Context) error {
	s, err := h.query.Latest(c.Request().Context())
	if err != nil {
		h.logger.Error("latest snapshot read failed", xlogger.Error(err))
		return xhttp.PlainErrorResponse(c, xhttp.InternalError(err.Error()))
	}

	resp := MacroResponse{MarketData: s.MarketData, AIAnalysis: s.AIAnalysis}
	if !s.IsEmpty() {
		t := s.CreatedAt
		resp.LastUpdated = &t
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, resp)
}
