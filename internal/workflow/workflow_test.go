package workflow_test

import (
	"errors"
	"testing"

	"github.com/claimdesk/claimdesk/internal/models"
	"github.com/claimdesk/claimdesk/internal/workflow"
)

func TestTransitionsFrom(t *testing.T) {
	tests := []struct {
		from models.ClaimStatus
		want []models.ClaimStatus
	}{
		{models.StatusNewSupplement, []models.ClaimStatus{models.StatusMissingInfo, models.StatusContractorReview, models.StatusClosedLost}},
		{models.StatusMissingInfo, []models.ClaimStatus{models.StatusSupplementInProgress, models.StatusClosedLost}},
		{models.StatusContractorReview, []models.ClaimStatus{models.StatusSupplementInProgress, models.StatusClosedLost}},
		{models.StatusSupplementInProgress, []models.ClaimStatus{models.StatusSupplementSent, models.StatusClosedLost}},
		{models.StatusSupplementSent, []models.ClaimStatus{models.StatusAwaitingCarrierResponse, models.StatusClosedLost}},
		{models.StatusAwaitingCarrierResponse, []models.ClaimStatus{models.StatusReinspectionRequested, models.StatusClosedLost}},
		{models.StatusReinspectionRequested, []models.ClaimStatus{models.StatusReinspectionScheduled, models.StatusClosedLost}},
		{models.StatusReinspectionScheduled, []models.ClaimStatus{models.StatusApproved, models.StatusClosedLost}},
		{models.StatusApproved, []models.ClaimStatus{models.StatusFinalInvoicePending, models.StatusClosedLost}},
		{models.StatusFinalInvoicePending, []models.ClaimStatus{models.StatusFinalInvoiceSent, models.StatusClosedLost}},
		{models.StatusFinalInvoiceSent, []models.ClaimStatus{models.StatusCompleted, models.StatusClosedLost}},
		{models.StatusCompleted, []models.ClaimStatus{}},
		{models.StatusClosedLost, []models.ClaimStatus{}},
		{"bogus", []models.ClaimStatus{}},
	}

	for _, tc := range tests {
		t.Run(string(tc.from), func(t *testing.T) {
			got := workflow.TransitionsFrom(tc.from)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestTransitionsFrom_ReturnsCopy(t *testing.T) {
	got := workflow.TransitionsFrom(models.StatusNewSupplement)
	got[0] = models.StatusCompleted

	if workflow.TransitionsFrom(models.StatusNewSupplement)[0] != models.StatusMissingInfo {
		t.Fatal("caller mutation leaked into the table")
	}
}

func TestValidateTransition_Exhaustive(t *testing.T) {
	for _, from := range models.ClaimStatuses {
		allowed := map[models.ClaimStatus]bool{}
		for _, s := range workflow.TransitionsFrom(from) {
			allowed[s] = true
		}

		for _, to := range models.ClaimStatuses {
			err := workflow.ValidateTransition(from, to)
			if allowed[to] {
				if err != nil {
					t.Errorf("%s -> %s: unexpected error %v", from, to, err)
				}
				continue
			}

			var te *models.TransitionError
			if !errors.As(err, &te) {
				t.Errorf("%s -> %s: expected TransitionError, got %v", from, to, err)
				continue
			}
			if te.From != string(from) || te.To != string(to) {
				t.Errorf("%s -> %s: error carries %q -> %q", from, to, te.From, te.To)
			}
		}
	}
}

func TestClosedLostReachableFromEveryNonTerminal(t *testing.T) {
	for _, s := range models.ClaimStatuses {
		if workflow.IsTerminal(s) {
			continue
		}
		if !workflow.CanTransition(s, models.StatusClosedLost) {
			t.Errorf("closed_lost not reachable from %s", s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range models.ClaimStatuses {
		want := s == models.StatusCompleted || s == models.StatusClosedLost
		if got := workflow.IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
	if workflow.IsTerminal("bogus") {
		t.Error("unknown status must not be reported terminal")
	}
}

func TestValidateTransition_SkipRejected(t *testing.T) {
	err := workflow.ValidateTransition(models.StatusNewSupplement, models.StatusApproved)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestValidateTransition_UnknownTarget(t *testing.T) {
	err := workflow.ValidateTransition(models.StatusNewSupplement, "paid")
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateSupplementTransition(t *testing.T) {
	tests := []struct {
		from, to models.SupplementStatus
		ok       bool
	}{
		{models.SupplementDraft, models.SupplementSubmitted, true},
		{models.SupplementDraft, models.SupplementApproved, false},
		{models.SupplementSubmitted, models.SupplementPartial, true},
		{models.SupplementPending, models.SupplementDenied, true},
		{models.SupplementDenied, models.SupplementSubmitted, true},
		{models.SupplementPartial, models.SupplementSubmitted, true},
		{models.SupplementApproved, models.SupplementSubmitted, false},
		{models.SupplementApproved, models.SupplementDenied, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := workflow.ValidateSupplementTransition(tc.from, tc.to)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tc.ok && !errors.Is(err, models.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestSupplementAction(t *testing.T) {
	cases := map[models.SupplementStatus]string{
		models.SupplementSubmitted: models.ActionSubmit,
		models.SupplementApproved:  models.ActionApprove,
		models.SupplementPartial:   models.ActionApprove,
		models.SupplementDenied:    models.ActionStatusChange,
		models.SupplementPending:   models.ActionStatusChange,
	}
	for status, want := range cases {
		if got := workflow.SupplementAction(status); got != want {
			t.Errorf("SupplementAction(%s) = %q, want %q", status, got, want)
		}
	}
}
