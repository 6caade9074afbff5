package workflow

import "github.com/claimdesk/claimdesk/internal/models"

var supplementTransitions = map[models.SupplementStatus][]models.SupplementStatus{
	models.SupplementDraft:     {models.SupplementSubmitted},
	models.SupplementSubmitted: {models.SupplementPending, models.SupplementApproved, models.SupplementDenied, models.SupplementPartial},
	models.SupplementPending:   {models.SupplementApproved, models.SupplementDenied, models.SupplementPartial},
	models.SupplementDenied:    {models.SupplementSubmitted},
	models.SupplementPartial:   {models.SupplementSubmitted},
	models.SupplementApproved:  nil,
}

// SupplementTransitionsFrom returns the statuses a supplement may move to from status.
func SupplementTransitionsFrom(status models.SupplementStatus) []models.SupplementStatus {
	next := supplementTransitions[status]
	out := make([]models.SupplementStatus, len(next))
	copy(out, next)
	return out
}

// ValidateSupplementTransition mirrors ValidateTransition for supplements.
func ValidateSupplementTransition(from, to models.SupplementStatus) error {
	if !to.Valid() {
		return models.NewValidationError("status", "unknown supplement status %q", to)
	}
	for _, s := range supplementTransitions[from] {
		if s == to {
			return nil
		}
	}
	return &models.TransitionError{Entity: models.EntitySupplement, From: string(from), To: string(to)}
}

// SupplementAction maps a supplement status change to its audit action.
func SupplementAction(to models.SupplementStatus) string {
	switch to {
	case models.SupplementSubmitted:
		return models.ActionSubmit
	case models.SupplementApproved, models.SupplementPartial:
		return models.ActionApprove
	default:
		return models.ActionStatusChange
	}
}
