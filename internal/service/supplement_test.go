package service

import (
	"context"
	"errors"
	"testing"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
)

type supplementFixture struct {
	store    *mockSupplementStore
	audit    *mockAuditStore
	notifier *mockNotifier
	svc      *SupplementService
	lastAmt  *float64
}

func newSupplementFixture(current *models.Supplement) *supplementFixture {
	f := &supplementFixture{audit: &mockAuditStore{}, notifier: &mockNotifier{}}

	f.store = &mockSupplementStore{
		getSupplement: func(_ context.Context, _, id string) (*models.Supplement, error) {
			if current == nil || id != current.ID {
				return nil, models.ErrSupplementNotFound
			}
			s := *current
			return &s, nil
		},
		setSupplementStatus: func(_ context.Context, _, _ string, _, to models.SupplementStatus, approved *float64) (*models.Supplement, error) {
			f.lastAmt = approved
			s := *current
			s.Status = to
			s.ApprovedAmount = approved
			return &s, nil
		},
		createSupplement: func(_ context.Context, _, claimID, createdBy string, req models.CreateSupplementRequest) (*models.Supplement, error) {
			return &models.Supplement{
				ID: "s-new", ClaimID: claimID, Sequence: 1, Amount: req.Amount,
				Status: models.SupplementDraft, LineItems: req.LineItems, CreatedBy: createdBy,
			}, nil
		},
		listSupplements: func(context.Context, string, string) ([]models.Supplement, error) {
			return []models.Supplement{}, nil
		},
	}

	claims := &mockClaimStore{
		getClaim: func(_ context.Context, _, id string) (*models.Claim, error) {
			return &models.Claim{ID: id, ClaimNumber: "CLM-1"}, nil
		},
	}

	log := testLogger()
	guard := authz.NewGuard(nil)
	f.svc = NewSupplementService(f.store, claims, guard, NewAuditRecorder(f.audit, guard, log), f.notifier, nil, log)

	return f
}

func TestSupplementUpdateStatus_ApprovedNotifies(t *testing.T) {
	tests := []struct {
		name       string
		to         models.SupplementStatus
		approved   *float64
		wantAmount float64
		wantAction string
	}{
		{name: "approved defaults amount", to: models.SupplementApproved, wantAmount: 5000, wantAction: models.ActionApprove},
		{name: "approved with amount", to: models.SupplementApproved, approved: ptr(4500), wantAmount: 4500, wantAction: models.ActionApprove},
		{name: "partial", to: models.SupplementPartial, approved: ptr(4500), wantAmount: 4500, wantAction: models.ActionApprove},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newSupplementFixture(&models.Supplement{ID: "s1", ClaimID: "c1", Amount: 5000, Status: models.SupplementSubmitted})

			got, err := f.svc.UpdateStatus(ctxAs(models.RoleManager), "t1", "s1", models.UpdateSupplementStatusRequest{
				Status: tc.to, ApprovedAmount: tc.approved,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ApprovedAmount == nil || *got.ApprovedAmount != tc.wantAmount {
				t.Errorf("approved amount = %v, want %v", got.ApprovedAmount, tc.wantAmount)
			}
			if _, n := f.notifier.counts(); n != 1 {
				t.Errorf("approval notifications = %d, want 1", n)
			}

			rows := f.audit.rows()
			if len(rows) != 2 {
				t.Fatalf("audit rows = %d, want status and approved_amount", len(rows))
			}
			if rows[0].Action != tc.wantAction {
				t.Errorf("action = %q, want %q", rows[0].Action, tc.wantAction)
			}
		})
	}
}

func TestSupplementUpdateStatus_DeniedDoesNotNotify(t *testing.T) {
	f := newSupplementFixture(&models.Supplement{ID: "s1", ClaimID: "c1", Amount: 5000, Status: models.SupplementPending})

	if _, err := f.svc.UpdateStatus(ctxAs(models.RoleAdmin), "t1", "s1", models.UpdateSupplementStatusRequest{
		Status: models.SupplementDenied,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, n := f.notifier.counts(); n != 0 {
		t.Errorf("approval notifications = %d, want 0", n)
	}
	if f.lastAmt != nil {
		t.Errorf("approved amount = %v, want nil for denial", *f.lastAmt)
	}
}

func TestSupplementUpdateStatus_Roles(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		from    models.SupplementStatus
		to      models.SupplementStatus
		wantErr error
	}{
		{name: "estimator submits", role: models.RoleEstimator, from: models.SupplementDraft, to: models.SupplementSubmitted},
		{name: "estimator cannot approve", role: models.RoleEstimator, from: models.SupplementSubmitted, to: models.SupplementApproved, wantErr: models.ErrUnauthorized},
		{name: "contractor cannot submit", role: models.RoleContractor, from: models.SupplementDraft, to: models.SupplementSubmitted, wantErr: models.ErrUnauthorized},
		{name: "draft cannot be approved", role: models.RoleAdmin, from: models.SupplementDraft, to: models.SupplementApproved, wantErr: models.ErrInvalidTransition},
		{name: "approved is final", role: models.RoleAdmin, from: models.SupplementApproved, to: models.SupplementSubmitted, wantErr: models.ErrInvalidTransition},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newSupplementFixture(&models.Supplement{ID: "s1", ClaimID: "c1", Amount: 100, Status: tc.from})

			_, err := f.svc.UpdateStatus(ctxAs(tc.role), "t1", "s1", models.UpdateSupplementStatusRequest{Status: tc.to})
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if len(f.audit.rows()) != 0 {
				t.Error("rejected update wrote audit rows")
			}
		})
	}
}

func TestSupplementCreate_FlagsMismatchedLineItems(t *testing.T) {
	f := newSupplementFixture(nil)

	sup, err := f.svc.Create(ctxAs(models.RoleEstimator), "t1", "c1", models.CreateSupplementRequest{
		Amount: 700,
		LineItems: []models.LineItem{
			{Description: "Drip edge", Quantity: 10, UnitPrice: 20, Total: 200},
			{Description: "Ice and water", Quantity: 5, UnitPrice: 100, Total: 450},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sup.LineItems[1].Total != 450 {
		t.Errorf("line item total was rewritten to %v", sup.LineItems[1].Total)
	}

	rows := f.audit.rows()
	if len(rows) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(rows))
	}
	idx, ok := rows[0].Metadata["line_item_total_mismatch"].([]int)
	if !ok || len(idx) != 1 || idx[0] != 1 {
		t.Errorf("mismatch metadata = %v, want [1]", rows[0].Metadata["line_item_total_mismatch"])
	}
}

func ptr(v float64) *float64 { return &v }
