package handlers

import (
	"net/http"
	"time"

	"balcao/internal/analytics"
	"balcao/internal/common"
	"balcao/internal/services"

	"github.com/labstack/echo/v4"
)

type ReportHandlers struct {
	reportService services.ReportService
	now           func() time.Time
}

func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService, now: time.Now}
}

func (h *ReportHandlers) Register(g *echo.Group) {
	g.GET("/reports", h.GetReport)
}

// GetReport handles GET /reports?range=today|yesterday|last7days|last30days|all
func (h *ReportHandlers) GetReport(c echo.Context) error {
	r, err := analytics.ParseDateRange(c.QueryParam("range"))
	if err != nil {
		return common.SendValidationError(c, "range", err.Error())
	}

	report, err := h.reportService.Build(c.Request().Context(), r, h.now())
	if err != nil {
		return respondError(c, err, "Report")
	}
	return c.JSON(http.StatusOK, report)
}
