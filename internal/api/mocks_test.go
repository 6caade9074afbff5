package api_test

import (
	"context"

	"github.com/claimdesk/claimdesk/internal/models"
)

// mockClaimRepo implements api.ClaimRepository. Unset funcs panic if called.
type mockClaimRepo struct {
	createFn      func(ctx context.Context, tenantID string, req models.CreateClaimRequest) (*models.Claim, error)
	getFn         func(ctx context.Context, tenantID, claimID string) (*models.Claim, error)
	listFn        func(ctx context.Context, tenantID string, opts models.ClaimListOpts) ([]models.Claim, bool, error)
	updateFn      func(ctx context.Context, tenantID, claimID string, req models.UpdateClaimRequest) (*models.Claim, error)
	transitionFn  func(ctx context.Context, tenantID, claimID string, target models.ClaimStatus) (*models.Claim, error)
	transitionsFn func(ctx context.Context, tenantID, claimID string) ([]models.ClaimStatus, error)
	historyFn     func(ctx context.Context, tenantID, claimID string, page, limit int) (*models.AuditPage, error)
}

func (m *mockClaimRepo) Create(ctx context.Context, tenantID string, req models.CreateClaimRequest) (*models.Claim, error) {
	return m.createFn(ctx, tenantID, req)
}

func (m *mockClaimRepo) Get(ctx context.Context, tenantID, claimID string) (*models.Claim, error) {
	return m.getFn(ctx, tenantID, claimID)
}

func (m *mockClaimRepo) List(ctx context.Context, tenantID string, opts models.ClaimListOpts) ([]models.Claim, bool, error) {
	return m.listFn(ctx, tenantID, opts)
}

func (m *mockClaimRepo) UpdateFields(
	ctx context.Context, tenantID, claimID string, req models.UpdateClaimRequest,
) (*models.Claim, error) {
	return m.updateFn(ctx, tenantID, claimID, req)
}

func (m *mockClaimRepo) TransitionStatus(
	ctx context.Context, tenantID, claimID string, target models.ClaimStatus,
) (*models.Claim, error) {
	return m.transitionFn(ctx, tenantID, claimID, target)
}

func (m *mockClaimRepo) AllowedTransitions(ctx context.Context, tenantID, claimID string) ([]models.ClaimStatus, error) {
	return m.transitionsFn(ctx, tenantID, claimID)
}

func (m *mockClaimRepo) History(ctx context.Context, tenantID, claimID string, page, limit int) (*models.AuditPage, error) {
	return m.historyFn(ctx, tenantID, claimID, page, limit)
}

// mockSupplementRepo implements api.SupplementRepository.
type mockSupplementRepo struct {
	createFn func(ctx context.Context, tenantID, claimID string, req models.CreateSupplementRequest) (*models.Supplement, error)
	getFn    func(ctx context.Context, tenantID, id string) (*models.Supplement, error)
	listFn   func(ctx context.Context, tenantID, claimID string) ([]models.Supplement, error)
	statusFn func(ctx context.Context, tenantID, id string, req models.UpdateSupplementStatusRequest) (*models.Supplement, error)
}

func (m *mockSupplementRepo) Create(
	ctx context.Context, tenantID, claimID string, req models.CreateSupplementRequest,
) (*models.Supplement, error) {
	return m.createFn(ctx, tenantID, claimID, req)
}

func (m *mockSupplementRepo) Get(ctx context.Context, tenantID, id string) (*models.Supplement, error) {
	return m.getFn(ctx, tenantID, id)
}

func (m *mockSupplementRepo) List(ctx context.Context, tenantID, claimID string) ([]models.Supplement, error) {
	return m.listFn(ctx, tenantID, claimID)
}

func (m *mockSupplementRepo) UpdateStatus(
	ctx context.Context, tenantID, id string, req models.UpdateSupplementStatusRequest,
) (*models.Supplement, error) {
	return m.statusFn(ctx, tenantID, id, req)
}

// mockNoteRepo implements api.NoteRepository.
type mockNoteRepo struct {
	createFn func(ctx context.Context, tenantID, claimID string, req models.CreateNoteRequest) (*models.Note, error)
	listFn   func(ctx context.Context, tenantID, claimID string) ([]models.Note, error)
}

func (m *mockNoteRepo) Create(ctx context.Context, tenantID, claimID string, req models.CreateNoteRequest) (*models.Note, error) {
	return m.createFn(ctx, tenantID, claimID, req)
}

func (m *mockNoteRepo) List(ctx context.Context, tenantID, claimID string) ([]models.Note, error) {
	return m.listFn(ctx, tenantID, claimID)
}

// mockAuditRepo implements api.AuditRepository and keeps the last options it saw.
type mockAuditRepo struct {
	last  models.AuditQueryOpts
	page  *models.AuditPage
	err   error
	calls int
}

func (m *mockAuditRepo) Query(_ context.Context, _ string, opts models.AuditQueryOpts) (*models.AuditPage, error) {
	m.calls++
	m.last = opts
	if m.err != nil {
		return nil, m.err
	}

	return m.page, nil
}

// mockReportRepo implements api.ReportRepository.
type mockReportRepo struct {
	window models.ReportWindow
	err    error
}

func (m *mockReportRepo) Commissions(_ context.Context, _ string, w models.ReportWindow) ([]models.CommissionRow, error) {
	m.window = w
	if m.err != nil {
		return nil, m.err
	}

	return []models.CommissionRow{{EstimatorID: "e1", ClaimCount: 2, TotalIncrease: 1000, CommissionRate: 0.1, Commission: 100}}, nil
}

func (m *mockReportRepo) Billing(_ context.Context, _ string, w models.ReportWindow) ([]models.BillingRow, error) {
	m.window = w
	return nil, m.err
}
