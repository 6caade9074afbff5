package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
)

func newNoteFixture() (*NoteService, *mockNoteStore, *mockAuditStore, *mockRevalidator) {
	notes := &mockNoteStore{}
	audit := &mockAuditStore{}
	reval := &mockRevalidator{}
	claims := newClaimFixture(sampleClaim(models.StatusSupplementSent)).store
	guard := authz.NewGuard(nil)
	svc := NewNoteService(notes, claims, guard, NewAuditRecorder(audit, guard, testLogger()), reval, testLogger())
	return svc, notes, audit, reval
}

func TestNoteCreate_AuditsAndRevalidates(t *testing.T) {
	svc, notes, audit, reval := newNoteFixture()

	note, err := svc.Create(ctxAs(models.RoleEstimator), "t1", "c1", models.CreateNoteRequest{Body: "Called the adjuster", Internal: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if note.AuthorID != "u1" || note.AuthorEmail != "user@example.com" {
		t.Errorf("author not stamped: %+v", note)
	}
	if len(notes.created) != 1 {
		t.Fatalf("created = %d", len(notes.created))
	}

	rows := audit.rows()
	if len(rows) != 1 || rows[0].Action != models.ActionCreate || rows[0].EntityType != models.EntityNote || rows[0].FieldName != nil {
		t.Errorf("audit rows = %+v", rows)
	}
	if len(reval.paths) != 1 || reval.paths[0] != "/claims/c1" {
		t.Errorf("revalidated %v", reval.paths)
	}
}

func TestNoteCreate_ContractorCannotWriteInternal(t *testing.T) {
	svc, notes, audit, _ := newNoteFixture()

	_, err := svc.Create(ctxAs(models.RoleContractor), "t1", "c1", models.CreateNoteRequest{Body: "hidden", Internal: true})
	if !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if len(notes.created) != 0 || len(audit.rows()) != 0 {
		t.Error("rejected note must not be stored or audited")
	}
}

func TestNoteCreate_Validation(t *testing.T) {
	svc, notes, _, _ := newNoteFixture()

	_, err := svc.Create(ctxAs(models.RoleManager), "t1", "c1", models.CreateNoteRequest{})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(notes.created) != 0 {
		t.Error("invalid note stored")
	}
}

func TestNoteList_HidesInternalFromContractors(t *testing.T) {
	svc, notes, _, _ := newNoteFixture()

	for _, role := range []models.Role{models.RoleContractor, models.RoleEstimator} {
		if _, err := svc.List(ctxAs(role), "t1", "c1"); err != nil {
			t.Fatalf("List as %s: %v", role, err)
		}
	}
	if len(notes.includeInternal) != 2 || notes.includeInternal[0] || !notes.includeInternal[1] {
		t.Errorf("includeInternal = %v, want [false true]", notes.includeInternal)
	}
}

func TestNoteList_UnknownClaim(t *testing.T) {
	svc, _, _, _ := newNoteFixture()

	if _, err := svc.List(ctxAs(models.RoleAdmin), "t1", "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

type stubReportStore struct {
	calls int
}

func (s *stubReportStore) Commissions(context.Context, string, models.ReportWindow) ([]models.CommissionRow, error) {
	s.calls++
	return []models.CommissionRow{{EstimatorID: "e1", Commission: 200}}, nil
}

func (s *stubReportStore) Billing(context.Context, string, models.ReportWindow) ([]models.BillingRow, error) {
	s.calls++
	return []models.BillingRow{}, nil
}

func TestReports_Guard(t *testing.T) {
	window := models.ReportWindow{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		role    models.Role
		wantErr error
	}{
		{models.RoleAdmin, nil},
		{models.RoleManager, nil},
		{models.RoleEstimator, models.ErrUnauthorized},
		{models.RoleContractor, models.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			store := &stubReportStore{}
			svc := NewReportService(store, authz.NewGuard(nil), testLogger())

			_, err := svc.Commissions(ctxAs(tt.role), "t1", window)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && store.calls != 0 {
				t.Error("store called after guard rejection")
			}
		})
	}
}

func TestReports_InvalidWindow(t *testing.T) {
	store := &stubReportStore{}
	svc := NewReportService(store, authz.NewGuard(nil), testLogger())

	now := time.Now()
	_, err := svc.Billing(ctxAs(models.RoleAdmin), "t1", models.ReportWindow{From: now, To: now.Add(-time.Hour)})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if store.calls != 0 {
		t.Error("store called for invalid window")
	}
}
