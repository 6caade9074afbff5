package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/models"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name      string
		principal *models.Principal
		allowed   []models.Role
		wantErr   error
	}{
		{name: "no principal", allowed: authz.Everyone, wantErr: models.ErrUnauthenticated},
		{name: "empty user id", principal: &models.Principal{Role: models.RoleAdmin}, allowed: authz.Everyone, wantErr: models.ErrUnauthenticated},
		{name: "estimator denied staff op", principal: &models.Principal{UserID: "u1", Role: models.RoleEstimator}, allowed: authz.Staff, wantErr: models.ErrUnauthorized},
		{name: "contractor denied edit", principal: &models.Principal{UserID: "u1", Role: models.RoleContractor}, allowed: authz.Editors, wantErr: models.ErrUnauthorized},
		{name: "manager allowed staff op", principal: &models.Principal{UserID: "u1", Role: models.RoleManager}, allowed: authz.Staff},
		{name: "contractor allowed read", principal: &models.Principal{UserID: "u1", Role: models.RoleContractor}, allowed: authz.Everyone},
		{name: "unknown role denied", principal: &models.Principal{UserID: "u1", Role: "owner"}, allowed: authz.Everyone, wantErr: models.ErrUnauthorized},
	}

	guard := authz.NewGuard(nil)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			if tc.principal != nil {
				ctx = authz.WithPrincipal(ctx, tc.principal)
			}

			p, err := guard.RequireRole(ctx, tc.allowed...)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if p.UserID != tc.principal.UserID {
				t.Errorf("principal = %+v", p)
			}
		})
	}
}

func TestRequireRole_ResolverCalledEveryTime(t *testing.T) {
	role := models.RoleAdmin
	calls := 0
	guard := authz.NewGuard(func(context.Context) (*models.Principal, error) {
		calls++
		return &models.Principal{UserID: "u1", Role: role}, nil
	})

	if _, err := guard.RequireRole(context.Background(), authz.Staff...); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	role = models.RoleEstimator
	if _, err := guard.RequireRole(context.Background(), authz.Staff...); !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("expected demoted role to be denied, got %v", err)
	}

	if calls != 2 {
		t.Errorf("resolver calls = %d, want 2", calls)
	}
}

func TestRequireRole_ResolverError(t *testing.T) {
	guard := authz.NewGuard(func(context.Context) (*models.Principal, error) {
		return nil, errors.New("identity provider down")
	})

	if _, err := guard.RequireRole(context.Background(), authz.Everyone...); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
