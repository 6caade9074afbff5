package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claimdesk/claimdesk/internal/dbpool"
)

// TenantStore answers whether a tenant named in a token exists and is active.
type TenantStore struct {
	Pool *dbpool.Pool
}

// NewTenantStore creates a new TenantStore.
func NewTenantStore(pool *dbpool.Pool) *TenantStore {
	return &TenantStore{Pool: pool}
}

// TenantActive reports whether tenantID names an active tenant.
func (s *TenantStore) TenantActive(ctx context.Context, tenantID string) (bool, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return false, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var active bool

	err := s.Pool.QueryRow(ctx, "SELECT active FROM tenants WHERE id = $1", tenantID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("looking up tenant: %w", err)
	}

	return active, nil
}

// CreateTenant inserts a tenant and returns its ID.
func (s *TenantStore) CreateTenant(ctx context.Context, name string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id string
	if err := s.Pool.QueryRow(ctx, "INSERT INTO tenants (name) VALUES ($1) RETURNING id::text", name).Scan(&id); err != nil {
		return "", fmt.Errorf("creating tenant: %w", err)
	}

	return id, nil
}
