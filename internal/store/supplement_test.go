package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/claimdesk/claimdesk/internal/models"
	"github.com/claimdesk/claimdesk/internal/store"
)

func pgxTxOptions() pgx.TxOptions { return pgx.TxOptions{} }

func TestSupplementStore_SequenceAndStatus(t *testing.T) {
	base, tenantID := setupTestBase(t)
	cs := store.NewClaimStore(base)
	ss := store.NewSupplementStore(base)
	ctx := context.Background()

	claim, err := cs.CreateClaim(ctx, tenantID, newTestClaim("CLM-SUP"))
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 5)

	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ss.CreateSupplement(ctx, tenantID, claim.ID, "user-1", models.CreateSupplementRequest{Amount: 100})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("CreateSupplement: %v", err)
		}
	}

	sups, err := ss.ListSupplements(ctx, tenantID, claim.ID)
	if err != nil {
		t.Fatalf("ListSupplements: %v", err)
	}
	if len(sups) != 5 {
		t.Fatalf("got %d supplements", len(sups))
	}
	for i, s := range sups {
		if s.Sequence != i+1 {
			t.Errorf("supplement %d has sequence %d", i, s.Sequence)
		}
	}

	first := sups[0]
	submitted, err := ss.SetSupplementStatus(ctx, tenantID, first.ID, models.SupplementDraft, models.SupplementSubmitted, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.SubmittedAt == nil {
		t.Error("submitted_at not stamped")
	}

	amount := 60.0
	partial, err := ss.SetSupplementStatus(ctx, tenantID, first.ID, models.SupplementSubmitted, models.SupplementPartial, &amount)
	if err != nil {
		t.Fatalf("partial: %v", err)
	}
	if partial.ApprovedAmount == nil || *partial.ApprovedAmount != 60 || partial.DecidedAt == nil {
		t.Errorf("unexpected partial decision %+v", partial)
	}

	_, err = ss.SetSupplementStatus(ctx, tenantID, first.ID, models.SupplementSubmitted, models.SupplementDenied, nil)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("stale status: got %v, want ErrInvalidTransition", err)
	}
}

func TestSupplementStore_MissingClaim(t *testing.T) {
	base, tenantID := setupTestBase(t)
	ss := store.NewSupplementStore(base)

	_, err := ss.CreateSupplement(context.Background(), tenantID, "00000000-0000-0000-0000-000000000000", "u", models.CreateSupplementRequest{})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
