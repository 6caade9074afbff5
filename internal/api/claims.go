// Package api serves the claimdesk HTTP API.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/models"
)

// ClaimHandler serves claim endpoints.
type ClaimHandler struct {
	svc ClaimRepository
	log *logrus.Logger
}

// NewClaimHandler creates a ClaimHandler.
func NewClaimHandler(svc ClaimRepository, log *logrus.Logger) *ClaimHandler {
	return &ClaimHandler{svc: svc, log: log}
}

type transitionRequest struct {
	Status models.ClaimStatus `json:"status" binding:"required"`
}

// List handles GET /claims.
func (h *ClaimHandler) List(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	opts := models.ClaimListOpts{
		Status:       models.ClaimStatus(c.Query("status")),
		ContractorID: c.Query("contractor_id"),
		EstimatorID:  c.Query("estimator_id"),
		CarrierID:    c.Query("carrier_id"),
		Search:       c.Query("q"),
		Limit:        parseInt(c.Query("limit"), defaultPageSize),
		Offset:       parseOffset(c.Query("offset")),
	}

	claims, hasMore, err := h.svc.List(c.Request.Context(), tenantID, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "listing claims")
		return
	}

	if claims == nil {
		claims = []models.Claim{}
	}

	c.JSON(http.StatusOK, gin.H{"data": claims, "has_more": hasMore})
}

// Create handles POST /claims.
func (h *ClaimHandler) Create(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	var req models.CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	claim, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating claim")
		return
	}

	c.JSON(http.StatusCreated, claim)
}

// Get handles GET /claims/:id.
func (h *ClaimHandler) Get(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	claim, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		respondServiceError(c, h.log, err, "loading claim")
		return
	}

	c.JSON(http.StatusOK, claim)
}

// Update handles PATCH /claims/:id. Absent fields are left unchanged.
func (h *ClaimHandler) Update(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	claim, err := h.svc.UpdateFields(c.Request.Context(), tenantID, id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "updating claim")
		return
	}

	c.JSON(http.StatusOK, claim)
}

// Transition handles POST /claims/:id/status.
func (h *ClaimHandler) Transition(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "status is required")
		return
	}

	claim, err := h.svc.TransitionStatus(c.Request.Context(), tenantID, id, req.Status)
	if err != nil {
		respondServiceError(c, h.log, err, "changing claim status")
		return
	}

	c.JSON(http.StatusOK, claim)
}

// Transitions handles GET /claims/:id/transitions.
func (h *ClaimHandler) Transitions(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	next, err := h.svc.AllowedTransitions(c.Request.Context(), tenantID, id)
	if err != nil {
		respondServiceError(c, h.log, err, "loading transitions")
		return
	}

	options := make([]gin.H, 0, len(next))
	for _, s := range next {
		options = append(options, gin.H{"status": s, "label": s.Label()})
	}

	c.JSON(http.StatusOK, gin.H{"data": options})
}

// History handles GET /claims/:id/history.
func (h *ClaimHandler) History(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	page, err := h.svc.History(c.Request.Context(), tenantID, id,
		parseInt(c.Query("page"), 1), parseInt(c.Query("limit"), models.DefaultAuditLimit))
	if err != nil {
		respondServiceError(c, h.log, err, "loading claim history")
		return
	}

	c.JSON(http.StatusOK, page)
}
