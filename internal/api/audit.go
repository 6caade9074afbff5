package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/models"
)

// AuditHandler serves the tenant audit log.
type AuditHandler struct {
	repo AuditRepository
	log  *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(repo AuditRepository, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{repo: repo, log: log}
}

// Query handles GET /audit. Page and limit are passed through unclamped and an
// explicit zero is refused, so out-of-range values are rejected rather than
// silently corrected.
func (h *AuditHandler) Query(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	opts := models.AuditQueryOpts{
		UserID:     c.Query("user_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
	}

	var (
		err error
		set bool
	)
	if opts.Page, set, err = queryInt(c, "page"); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "page must be an integer")
		return
	} else if set && opts.Page < 1 {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "page must be at least 1")
		return
	}

	if opts.Limit, set, err = queryInt(c, "limit"); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "limit must be an integer")
		return
	} else if set && opts.Limit < 1 {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "limit must be at least 1")
		return
	}

	if opts.From, err = queryTime(c, "from"); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "from must be RFC3339 or YYYY-MM-DD")
		return
	}

	if opts.To, err = queryUntil(c, "to"); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "to must be RFC3339 or YYYY-MM-DD")
		return
	}

	page, err := h.repo.Query(c.Request.Context(), tenantID, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "querying audit log")
		return
	}

	c.JSON(http.StatusOK, page)
}

// queryInt reports whether the parameter was supplied. An absent parameter is 0.
func queryInt(c *gin.Context, key string) (int, bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, false, nil
	}

	n, err := strconv.Atoi(raw)
	return n, true, err
}

// queryTime accepts RFC3339 timestamps or bare dates, interpreted as UTC midnight.
func queryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent parameter
	}

	t, err := parseTime(raw)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// queryUntil parses an exclusive upper bound. A bare date covers that whole
// day, so it resolves to the following midnight.
func queryUntil(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent parameter
	}

	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		next := t.AddDate(0, 0, 1)
		return &next, nil
	}

	t, err := parseTime(raw)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}

	return time.Parse(time.DateOnly, raw)
}
