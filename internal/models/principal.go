package models

// Role is a user's application role, read from the identity provider's token claims.
type Role string

// Roles.
const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleEstimator  Role = "estimator"
	RoleContractor Role = "contractor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEstimator, RoleContractor:
		return true
	default:
		return false
	}
}

// Principal is the authenticated caller of one request.
type Principal struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenant_id"`
}
