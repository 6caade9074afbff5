// Package crypto seals sensitive claim fields (policyholder contact details) with
// tenant-scoped AES-256-GCM keys.
package crypto

import "context"

// KeyProvider returns AES-256 encryption keys for tenants.
type KeyProvider interface {
	// GetKey returns the 32-byte AES-256 key for the given tenant.
	GetKey(ctx context.Context, tenantID string) ([]byte, error)
}
