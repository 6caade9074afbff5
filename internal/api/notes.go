package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/models"
)

// NoteHandler serves claim note endpoints.
type NoteHandler struct {
	svc NoteRepository
	log *logrus.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(svc NoteRepository, log *logrus.Logger) *NoteHandler {
	return &NoteHandler{svc: svc, log: log}
}

// List handles GET /claims/:id/notes.
func (h *NoteHandler) List(c *gin.Context) {
	tenantID, claimID, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	notes, err := h.svc.List(c.Request.Context(), tenantID, claimID)
	if err != nil {
		respondServiceError(c, h.log, err, "listing notes")
		return
	}

	if notes == nil {
		notes = []models.Note{}
	}

	c.JSON(http.StatusOK, gin.H{"data": notes})
}

// Create handles POST /claims/:id/notes.
func (h *NoteHandler) Create(c *gin.Context) {
	tenantID, claimID, ok := tenantAndPathID(c, "id")
	if !ok {
		return
	}

	var req models.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}

	note, err := h.svc.Create(c.Request.Context(), tenantID, claimID, req)
	if err != nil {
		respondServiceError(c, h.log, err, "adding note")
		return
	}

	c.JSON(http.StatusCreated, note)
}
