// internal/handlers/report.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/keebmarket-backend/internal/i18n"
	"github.com/javajoker/keebmarket-backend/internal/services"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// POST /report
func (h *ReportHandler) CreateReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportCreated),
		"id":      report.ID,
	})
}
