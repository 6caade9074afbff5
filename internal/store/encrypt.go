package store

import (
	"context"
	"fmt"

	"github.com/claimdesk/claimdesk/internal/models"
)

// sealContact returns the stored form of the claim's policyholder email and phone.
func (b *Base) sealContact(ctx context.Context, tenantID string, c *models.Claim) (email, phone string, err error) {
	email, err = b.Crypto.Seal(ctx, tenantID, c.PolicyholderEmail)
	if err != nil {
		return "", "", fmt.Errorf("sealing policyholder email: %w", err)
	}

	phone, err = b.Crypto.Seal(ctx, tenantID, c.PolicyholderPhone)
	if err != nil {
		return "", "", fmt.Errorf("sealing policyholder phone: %w", err)
	}

	return email, phone, nil
}

// openClaim decrypts a claim's policyholder contact fields in place.
func (b *Base) openClaim(ctx context.Context, tenantID string, c *models.Claim) error {
	email, err := b.Crypto.Open(ctx, tenantID, c.PolicyholderEmail)
	if err != nil {
		return fmt.Errorf("opening claim %s email: %w", c.ID, err)
	}

	phone, err := b.Crypto.Open(ctx, tenantID, c.PolicyholderPhone)
	if err != nil {
		return fmt.Errorf("opening claim %s phone: %w", c.ID, err)
	}

	c.PolicyholderEmail = email
	c.PolicyholderPhone = phone

	return nil
}

// openClaims decrypts contact fields for a slice of claims.
func (b *Base) openClaims(ctx context.Context, tenantID string, claims []models.Claim) error {
	for i := range claims {
		if err := b.openClaim(ctx, tenantID, &claims[i]); err != nil {
			return err
		}
	}

	return nil
}
