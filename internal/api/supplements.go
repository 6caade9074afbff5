package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/models"
)

// SupplementHandler serves supplement endpoints.
type SupplementHandler struct {
	svc SupplementRepository
	log *logrus.Logger
}

// NewSupplementHandler creates a SupplementHandler.
func NewSupplementHandler(svc SupplementRepository, log *logrus.Logger) *SupplementHandler {
	return &SupplementHandler{svc: svc, log: log}
}

// List handles GET /claims/:id/supplements.
func (h *SupplementHandler) List(c *gin.Context) {
	tenantID, claimID, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	sups, err := h.svc.List(c.Request.Context(), tenantID, claimID)
	if err != nil {
		respondServiceError(c, h.log, err, "listing supplements")
		return
	}

	if sups == nil {
		sups = []models.Supplement{}
	}

	c.JSON(http.StatusOK, gin.H{"data": sups})
}

// Create handles POST /claims/:id/supplements.
func (h *SupplementHandler) Create(c *gin.Context) {
	tenantID, claimID, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	var req models.CreateSupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	sup, err := h.svc.Create(c.Request.Context(), tenantID, claimID, req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating supplement")
		return
	}

	c.JSON(http.StatusCreated, sup)
}

// Get handles GET /supplements/:id.
func (h *SupplementHandler) Get(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	sup, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		respondServiceError(c, h.log, err, "loading supplement")
		return
	}

	c.JSON(http.StatusOK, sup)
}

// UpdateStatus handles POST /supplements/:id/status.
func (h *SupplementHandler) UpdateStatus(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateSupplementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	sup, err := h.svc.UpdateStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "changing supplement status")
		return
	}

	c.JSON(http.StatusOK, sup)
}
