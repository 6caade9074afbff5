package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/claimdesk/claimdesk/internal/models"
	"github.com/claimdesk/claimdesk/internal/store"
)

func TestAuditStore_InsertAndQuery(t *testing.T) {
	base, tenantID := setupTestBase(t)
	as := store.NewAuditStore(base)
	ctx := context.Background()
	now := time.Now().UTC()

	entries := []models.AuditEntry{
		{UserID: "u1", UserEmail: "u1@example.com", Action: models.ActionUpdate, EntityType: models.EntityClaim, EntityID: "c1",
			FieldName: models.StringPtr("policyholder_name"), OldValue: models.StringPtr("A"), NewValue: models.StringPtr("B"), CreatedAt: now},
		{UserID: "u1", Action: models.ActionUpdate, EntityType: models.EntityClaim, EntityID: "c1",
			FieldName: models.StringPtr("loss_city"), NewValue: models.StringPtr("Austin"), CreatedAt: now,
			Metadata: map[string]any{"source": "test"}},
		{UserID: "u2", Action: models.ActionCreate, EntityType: models.EntityNote, EntityID: "n1", CreatedAt: now.Add(time.Second)},
	}

	n, err := as.InsertEntries(ctx, tenantID, entries)
	if err != nil || n != 3 {
		t.Fatalf("InsertEntries = %d, %v", n, err)
	}

	opts := models.AuditQueryOpts{EntityType: models.EntityClaim, EntityID: "c1"}
	if err := opts.Normalize(); err != nil {
		t.Fatal(err)
	}

	rows, total, err := as.QueryAudit(ctx, tenantID, opts)
	if err != nil {
		t.Fatalf("QueryAudit: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total=%d rows=%d, want 2/2", total, len(rows))
	}
	for _, r := range rows {
		if r.FieldName == nil {
			t.Errorf("row %d missing field name", r.ID)
		}
	}

	all := models.AuditQueryOpts{Limit: 1, Page: 1}
	rows, total, err = as.QueryAudit(ctx, tenantID, all)
	if err != nil {
		t.Fatalf("QueryAudit: %v", err)
	}
	if total != 3 || len(rows) != 1 || rows[0].EntityType != models.EntityNote {
		t.Errorf("newest-first paging broken: total=%d rows=%+v", total, rows)
	}
}

func TestAuditStore_ToIsExclusive(t *testing.T) {
	base, tenantID := setupTestBase(t)
	as := store.NewAuditStore(base)
	ctx := context.Background()
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	entries := []models.AuditEntry{
		{UserID: "u1", Action: models.ActionCreate, EntityType: models.EntityClaim, EntityID: "c1", CreatedAt: day.Add(15 * time.Hour)},
		{UserID: "u1", Action: models.ActionCreate, EntityType: models.EntityClaim, EntityID: "c2", CreatedAt: day.AddDate(0, 0, 1)},
	}
	if _, err := as.InsertEntries(ctx, tenantID, entries); err != nil {
		t.Fatalf("InsertEntries: %v", err)
	}

	to := day.AddDate(0, 0, 1)
	opts := models.AuditQueryOpts{From: &day, To: &to}
	if err := opts.Normalize(); err != nil {
		t.Fatal(err)
	}

	rows, total, err := as.QueryAudit(ctx, tenantID, opts)
	if err != nil {
		t.Fatalf("QueryAudit: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].EntityID != "c1" {
		t.Errorf("total=%d rows=%+v, want only the entry from inside the day", total, rows)
	}
}

func TestAuditStore_RowsImmutable(t *testing.T) {
	base, tenantID := setupTestBase(t)
	as := store.NewAuditStore(base)
	ctx := context.Background()

	if _, err := as.InsertEntries(ctx, tenantID, []models.AuditEntry{
		{UserID: "u1", Action: models.ActionCreate, EntityType: models.EntityClaim, EntityID: "c9", CreatedAt: time.Now()},
	}); err != nil {
		t.Fatal(err)
	}

	env := getTestEnv(t)
	tx, err := env.pool.BeginTx(ctx, pgxTxOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // test cleanup.

	if _, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", tenantID); err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Exec(ctx, "UPDATE audit_logs SET action = 'delete' WHERE entity_id = 'c9'"); err == nil {
		t.Fatal("expected UPDATE on audit_logs to be rejected")
	}
}
