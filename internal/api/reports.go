package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/models"
)

// ReportHandler serves the commission and billing reports.
type ReportHandler struct {
	repo ReportRepository
	log  *logrus.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(repo ReportRepository, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{repo: repo, log: log}
}

// Commissions handles GET /reports/commissions?from=&to=.
func (h *ReportHandler) Commissions(c *gin.Context) {
	tenantID, w, ok := h.window(c)
	if !ok {
		return
	}

	rows, err := h.repo.Commissions(c.Request.Context(), tenantID, w)
	if err != nil {
		respondServiceError(c, h.log, err, "building commission report")
		return
	}

	if rows == nil {
		rows = []models.CommissionRow{}
	}

	c.JSON(http.StatusOK, gin.H{"data": rows, "from": w.From, "to": w.To})
}

// Billing handles GET /reports/billing?from=&to=.
func (h *ReportHandler) Billing(c *gin.Context) {
	tenantID, w, ok := h.window(c)
	if !ok {
		return
	}

	rows, err := h.repo.Billing(c.Request.Context(), tenantID, w)
	if err != nil {
		respondServiceError(c, h.log, err, "building billing report")
		return
	}

	if rows == nil {
		rows = []models.BillingRow{}
	}

	c.JSON(http.StatusOK, gin.H{"data": rows, "from": w.From, "to": w.To})
}

func (h *ReportHandler) window(c *gin.Context) (string, models.ReportWindow, bool) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return "", models.ReportWindow{}, false
	}

	from, err := queryTime(c, "from")
	if err != nil || from == nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "from is required (RFC3339 or YYYY-MM-DD)")
		return "", models.ReportWindow{}, false
	}

	to, err := queryTime(c, "to")
	if err != nil || to == nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "to is required (RFC3339 or YYYY-MM-DD)")
		return "", models.ReportWindow{}, false
	}

	return tenantID, models.ReportWindow{From: *from, To: *to}, true
}
