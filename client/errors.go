package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/claimdesk/claimdesk/internal/httputil"
)

// APIError is a structured error response from the claimdesk API.
type APIError struct {
	StatusCode int
	httputil.ErrorBody
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("claimdesk: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("claimdesk: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func statusIs(err error, status int) bool {
	var e *APIError
	return errors.As(err, &e) && e.StatusCode == status
}

// IsNotFound reports a 404.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsForbidden reports a 403: the caller's role does not allow the action.
func IsForbidden(err error) bool { return statusIs(err, http.StatusForbidden) }

// IsConflict reports a 409, either a duplicate or a disallowed status transition.
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// IsInvalidTransition reports a 409 caused by the claim or supplement workflow.
func IsInvalidTransition(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.StatusCode == http.StatusConflict && e.Code == "invalid_transition"
}

// IsRateLimited reports a 429.
func IsRateLimited(err error) bool { return statusIs(err, http.StatusTooManyRequests) }

// parseAPIError decodes a JSON error body, falling back to the raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, &apiErr.ErrorBody); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
