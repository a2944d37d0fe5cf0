package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves finance reports. Report content is produced by the
// reporting module; this endpoint only exposes the access-controlled shell.
type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

type reportSummary struct {
	GeneratedAt time.Time `json:"generatedAt"`
	GeneratedBy string    `json:"generatedBy"`
	Sections    []string  `json:"sections"`
}

// Summary returns the report index.
//
// @Summary      Finance report summary
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse{data=reportSummary}
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("", reportSummary{
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: p.Username,
		Sections:    []string{"purchase-orders", "invoices", "payments"},
	}))
}
