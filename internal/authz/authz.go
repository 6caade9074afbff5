// Package authz resolves the calling principal and checks its role before any
// service operation touches the store.
package authz

import (
	"context"
	"fmt"

	"github.com/claimdesk/claimdesk/internal/models"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal, if any.
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*models.Principal)
	return p, ok && p != nil
}

// RoleResolver returns the principal for the current request. It is called on every
// check so role changes take effect without a restart.
type RoleResolver func(ctx context.Context) (*models.Principal, error)

// ContextResolver resolves the principal placed in the context by the auth middleware.
func ContextResolver(ctx context.Context) (*models.Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, models.ErrUnauthenticated
	}
	return p, nil
}

// Role sets for the permission matrix.
var (
	Everyone = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleEstimator, models.RoleContractor}
	Editors  = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleEstimator}
	Staff    = []models.Role{models.RoleAdmin, models.RoleManager}
)

// Guard enforces role membership.
type Guard struct {
	resolve RoleResolver
}

// NewGuard creates a Guard. A nil resolver falls back to ContextResolver.
func NewGuard(resolve RoleResolver) *Guard {
	if resolve == nil {
		resolve = ContextResolver
	}
	return &Guard{resolve: resolve}
}

// RequireRole returns the principal when its role is in allowed. It fails with
// models.ErrUnauthenticated when nobody is signed in and models.ErrUnauthorized when
// the role is not allowed.
func (g *Guard) RequireRole(ctx context.Context, allowed ...models.Role) (*models.Principal, error) {
	p, err := g.resolve(ctx)
	if err != nil || p == nil || p.UserID == "" {
		return nil, models.ErrUnauthenticated
	}

	for _, r := range allowed {
		if p.Role == r {
			return p, nil
		}
	}

	return nil, fmt.Errorf("role %q: %w", p.Role, models.ErrUnauthorized)
}
