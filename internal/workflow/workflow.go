// Package workflow holds the status transition tables for claims and supplements.
// Both tables are built once at init and never mutated.
package workflow

import (
	"github.com/claimdesk/claimdesk/internal/models"
)

var claimTransitions = buildClaimTable()

func buildClaimTable() map[models.ClaimStatus][]models.ClaimStatus {
	t := map[models.ClaimStatus][]models.ClaimStatus{
		models.StatusNewSupplement:           {models.StatusMissingInfo, models.StatusContractorReview},
		models.StatusMissingInfo:             {models.StatusSupplementInProgress},
		models.StatusContractorReview:        {models.StatusSupplementInProgress},
		models.StatusSupplementInProgress:    {models.StatusSupplementSent},
		models.StatusSupplementSent:          {models.StatusAwaitingCarrierResponse},
		models.StatusAwaitingCarrierResponse: {models.StatusReinspectionRequested},
		models.StatusReinspectionRequested:   {models.StatusReinspectionScheduled},
		models.StatusReinspectionScheduled:   {models.StatusApproved},
		models.StatusApproved:                {models.StatusFinalInvoicePending},
		models.StatusFinalInvoicePending:     {models.StatusFinalInvoiceSent},
		models.StatusFinalInvoiceSent:        {models.StatusCompleted},
		models.StatusCompleted:               nil,
		models.StatusClosedLost:              nil,
	}

	for status, next := range t {
		if status == models.StatusCompleted || status == models.StatusClosedLost {
			continue
		}
		t[status] = append(next, models.StatusClosedLost)
	}

	return t
}

// TransitionsFrom returns the statuses a claim may move to from status, in workflow
// order. Terminal and unknown statuses return an empty slice.
func TransitionsFrom(status models.ClaimStatus) []models.ClaimStatus {
	next := claimTransitions[status]
	out := make([]models.ClaimStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether a claim may move from one status to another.
func CanTransition(from, to models.ClaimStatus) bool {
	for _, s := range claimTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.ClaimStatus) bool {
	next, ok := claimTransitions[status]
	return ok && len(next) == 0
}

// ValidateTransition returns a *models.ValidationError for unknown statuses and a
// *models.TransitionError when the move is not in the table.
func ValidateTransition(from, to models.ClaimStatus) error {
	if !to.Valid() {
		return models.NewValidationError("status", "unknown claim status %q", to)
	}
	if !from.Valid() {
		return models.NewValidationError("status", "claim is in unknown status %q", from)
	}
	if !CanTransition(from, to) {
		return &models.TransitionError{Entity: models.EntityClaim, From: string(from), To: string(to)}
	}
	return nil
}
