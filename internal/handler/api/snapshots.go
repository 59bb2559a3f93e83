package api

import (
	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/usecase"
	xhttp "MacroPulse/pkg/http"
	xlogger "MacroPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SnapshotsHandler serves history and the localized dashboard view.
type SnapshotsHandler struct {
	logger *xlogger.Logger
	query  *usecase.SnapshotQuery
}

func NewSnapshotsHandler(logger *xlogger.Logger, query *usecase.SnapshotQuery) *SnapshotsHandler {
	return &SnapshotsHandler{logger: logger, query: query}
}

func (h *SnapshotsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/snapshots", h.List)
	g.GET("/indicators/:key/history", h.History)
	g.GET("/dashboard", h.Dashboard)
}

func (h *SnapshotsHandler) List(c echo.Context) error {
	req := &models.SnapshotListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.query.Recent(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("snapshot list failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if rows == nil {
		rows = []models.Snapshot{}
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *SnapshotsHandler) History(c echo.Context) error {
	req := &models.IndicatorHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.query.IndicatorHistory(c.Request().Context(), models.InstrumentKey(req.Key), req.Limit)
	if err != nil {
		h.logger.Error("indicator history failed", xlogger.String("key", req.Key), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, points, int64(len(points)))
}

// Dashboard never fails on store errors; the view carries a warning instead.
func (h *SnapshotsHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.query.Dashboard(c.Request().Context(), models.Language(req.Lang)))
}
