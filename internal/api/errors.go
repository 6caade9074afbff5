package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/httputil"
	"github.com/claimdesk/claimdesk/internal/metrics"
	"github.com/claimdesk/claimdesk/internal/models"
)

// Error codes returned in the "code" field of error responses.
const (
	ErrCodeInvalidRequest        = "invalid_request"
	ErrCodeValidationError       = "validation_error"
	ErrCodeUnauthenticated       = "unauthenticated"
	ErrCodeForbidden             = "forbidden"
	ErrCodeNotFound              = "not_found"
	ErrCodeInvalidTransition     = "invalid_transition"
	ErrCodeConflict              = "conflict"
	ErrCodeDependencyUnavailable = "dependency_unavailable"
	ErrCodeInternalError         = "internal_error"
)

// respondError writes a standardized JSON error response and counts it.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondServiceError maps a service error onto its HTTP status. Only
// unexpected errors are logged at error level; their text is not echoed.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error, op string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	case errors.Is(err, models.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthenticated, "authentication required")
	case errors.Is(err, models.ErrUnauthorized):
		respondError(c, http.StatusForbidden, ErrCodeForbidden, "your role does not allow this action")
	case errors.Is(err, models.ErrInvalidTransition):
		respondError(c, http.StatusConflict, ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, models.ErrDependencyUnavailable):
		log.WithError(err).WithField("op", op).Warn("dependency unavailable")
		respondError(c, http.StatusServiceUnavailable, ErrCodeDependencyUnavailable, "a required service is unavailable, retry shortly")
	default:
		log.WithError(err).WithField("op", op).Error("request failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed "+op)
	}
}
