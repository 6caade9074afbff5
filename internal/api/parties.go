package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/models"
)

// PartyHandler serves carrier, contractor, estimator and adjuster endpoints.
type PartyHandler struct {
	svc PartyRepository
	log *logrus.Logger
}

// NewPartyHandler creates a PartyHandler.
func NewPartyHandler(svc PartyRepository, log *logrus.Logger) *PartyHandler {
	return &PartyHandler{svc: svc, log: log}
}

// List handles GET /parties.
func (h *PartyHandler) List(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	opts := models.PartyListOpts{
		Kind:       models.PartyKind(c.Query("kind")),
		ActiveOnly: c.Query("active") == "true",
		Limit:      parseInt(c.Query("limit"), defaultPageSize),
		Offset:     parseOffset(c.Query("offset")),
	}

	parties, err := h.svc.List(c.Request.Context(), tenantID, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "listing parties")
		return
	}

	if parties == nil {
		parties = []models.Party{}
	}

	c.JSON(http.StatusOK, gin.H{"data": parties})
}

// Create handles POST /parties.
func (h *PartyHandler) Create(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	var req models.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	party, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating party")
		return
	}

	c.JSON(http.StatusCreated, party)
}

// Get handles GET /parties/:id.
func (h *PartyHandler) Get(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	party, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		respondServiceError(c, h.log, err, "loading party")
		return
	}

	c.JSON(http.StatusOK, party)
}

// Update handles PATCH /parties/:id.
func (h *PartyHandler) Update(c *gin.Context) {
	tenantID, id, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	party, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "updating party")
		return
	}

	c.JSON(http.StatusOK, party)
}
