package service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func ctxAs(role models.Role) context.Context {
	return authz.WithPrincipal(context.Background(), &models.Principal{
		UserID:   "u1",
		Email:    "user@example.com",
		Role:     role,
		TenantID: "t1",
	})
}

// mockClaimStore records calls and returns configured responses.
type mockClaimStore struct {
	mu    sync.Mutex
	calls []string

	createClaim    func(ctx context.Context, tenantID string, c *models.Claim) (*models.Claim, error)
	updateClaim    func(ctx context.Context, tenantID string, c *models.Claim) (*models.Claim, error)
	setClaimStatus func(ctx context.Context, tenantID, claimID string, from, to models.ClaimStatus) (*models.Claim, error)
	getClaim       func(ctx context.Context, tenantID, claimID string) (*models.Claim, error)
	listClaims     func(ctx context.Context, tenantID string, opts models.ClaimListOpts) ([]models.Claim, bool, error)
}

func (m *mockClaimStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockClaimStore) called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockClaimStore) CreateClaim(ctx context.Context, tenantID string, c *models.Claim) (*models.Claim, error) {
	m.record("CreateClaim")
	return m.createClaim(ctx, tenantID, c)
}

func (m *mockClaimStore) UpdateClaim(ctx context.Context, tenantID string, c *models.Claim) (*models.Claim, error) {
	m.record("UpdateClaim")
	return m.updateClaim(ctx, tenantID, c)
}

func (m *mockClaimStore) SetClaimStatus(ctx context.Context, tenantID, claimID string, from, to models.ClaimStatus) (*models.Claim, error) {
	m.record("SetClaimStatus")
	return m.setClaimStatus(ctx, tenantID, claimID, from, to)
}

func (m *mockClaimStore) GetClaim(ctx context.Context, tenantID, claimID string) (*models.Claim, error) {
	m.record("GetClaim")
	return m.getClaim(ctx, tenantID, claimID)
}

func (m *mockClaimStore) ListClaims(ctx context.Context, tenantID string, opts models.ClaimListOpts) ([]models.Claim, bool, error) {
	m.record("ListClaims")
	return m.listClaims(ctx, tenantID, opts)
}

// mockSupplementStore records calls and returns configured responses.
type mockSupplementStore struct {
	mu    sync.Mutex
	calls []string

	createSupplement    func(ctx context.Context, tenantID, claimID, createdBy string, req models.CreateSupplementRequest) (*models.Supplement, error)
	getSupplement       func(ctx context.Context, tenantID, supplementID string) (*models.Supplement, error)
	listSupplements     func(ctx context.Context, tenantID, claimID string) ([]models.Supplement, error)
	setSupplementStatus func(ctx context.Context, tenantID, supplementID string, from, to models.SupplementStatus, approved *float64) (*models.Supplement, error)
}

func (m *mockSupplementStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockSupplementStore) CreateSupplement(ctx context.Context, tenantID, claimID, createdBy string, req models.CreateSupplementRequest) (*models.Supplement, error) {
	m.record("CreateSupplement")
	return m.createSupplement(ctx, tenantID, claimID, createdBy, req)
}

func (m *mockSupplementStore) GetSupplement(ctx context.Context, tenantID, supplementID string) (*models.Supplement, error) {
	m.record("GetSupplement")
	return m.getSupplement(ctx, tenantID, supplementID)
}

func (m *mockSupplementStore) ListSupplements(ctx context.Context, tenantID, claimID string) ([]models.Supplement, error) {
	m.record("ListSupplements")
	return m.listSupplements(ctx, tenantID, claimID)
}

func (m *mockSupplementStore) SetSupplementStatus(
	ctx context.Context, tenantID, supplementID string, from, to models.SupplementStatus, approved *float64,
) (*models.Supplement, error) {
	m.record("SetSupplementStatus")
	return m.setSupplementStatus(ctx, tenantID, supplementID, from, to, approved)
}

// mockPartyStore records calls and returns configured responses.
type mockPartyStore struct {
	mu    sync.Mutex
	calls []string

	createParty func(ctx context.Context, tenantID string, req models.CreatePartyRequest) (*models.Party, error)
	updateParty func(ctx context.Context, tenantID string, p *models.Party) (*models.Party, error)
	getParty    func(ctx context.Context, tenantID, partyID string) (*models.Party, error)
}

func (m *mockPartyStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockPartyStore) CreateParty(ctx context.Context, tenantID string, req models.CreatePartyRequest) (*models.Party, error) {
	m.record("CreateParty")
	return m.createParty(ctx, tenantID, req)
}

func (m *mockPartyStore) UpdateParty(ctx context.Context, tenantID string, p *models.Party) (*models.Party, error) {
	m.record("UpdateParty")
	return m.updateParty(ctx, tenantID, p)
}

func (m *mockPartyStore) GetParty(ctx context.Context, tenantID, partyID string) (*models.Party, error) {
	m.record("GetParty")
	return m.getParty(ctx, tenantID, partyID)
}

func (m *mockPartyStore) ListParties(_ context.Context, _ string, _ models.PartyListOpts) ([]models.Party, error) {
	m.record("ListParties")
	return []models.Party{}, nil
}

// mockNoteStore records created notes and the internal flag of list calls.
type mockNoteStore struct {
	mu              sync.Mutex
	created         []models.Note
	includeInternal []bool
}

func (m *mockNoteStore) CreateNote(_ context.Context, _ string, n *models.Note) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *n
	out.ID = "note1"
	m.created = append(m.created, out)
	return &out, nil
}

func (m *mockNoteStore) ListNotes(_ context.Context, _, _ string, includeInternal bool) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.includeInternal = append(m.includeInternal, includeInternal)
	return []models.Note{}, nil
}

// mockAuditStore captures inserted rows.
type mockAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	inserts int
	err     error

	queryAudit func(ctx context.Context, tenantID string, opts models.AuditQueryOpts) ([]models.AuditEntry, int, error)
}

func (m *mockAuditStore) InsertEntries(_ context.Context, _ string, entries []models.AuditEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.err != nil {
		return 0, m.err
	}
	m.entries = append(m.entries, entries...)
	return len(entries), nil
}

func (m *mockAuditStore) QueryAudit(ctx context.Context, tenantID string, opts models.AuditQueryOpts) ([]models.AuditEntry, int, error) {
	return m.queryAudit(ctx, tenantID, opts)
}

func (m *mockAuditStore) rows() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockNotifier records dispatched notifications.
type mockNotifier struct {
	mu          sync.Mutex
	transitions [][2]models.ClaimStatus
	approvals   []*models.Supplement
}

func (m *mockNotifier) NotifyStatusChange(_ context.Context, _ string, _ *models.Claim, from, to models.ClaimStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, [2]models.ClaimStatus{from, to})
}

func (m *mockNotifier) NotifySupplementApproved(_ context.Context, _ string, _ *models.Claim, sup *models.Supplement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approvals = append(m.approvals, sup)
}

func (m *mockNotifier) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transitions), len(m.approvals)
}

// mockRevalidator records revalidated paths.
type mockRevalidator struct {
	mu    sync.Mutex
	paths []string
}

func (m *mockRevalidator) Revalidate(_ context.Context, _ string, paths ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, paths...)
}
