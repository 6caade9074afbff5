package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/config"
	"github.com/claimdesk/claimdesk/internal/crypto"
	"github.com/claimdesk/claimdesk/internal/db"
	"github.com/claimdesk/claimdesk/internal/db/migrations"
	"github.com/claimdesk/claimdesk/internal/dbpool"
)

// openDatabase connects the pool and applies pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*dbpool.Pool, error) {
	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), dbpool.Options{MaxConns: int32(cfg.DBMaxConns)}) //nolint:gosec // bounded by config validation
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// newKeyProvider selects the tenant key source for at-rest encryption.
func newKeyProvider(cfg *config.Config) (crypto.KeyProvider, error) {
	switch cfg.EncryptionProvider {
	case "vault":
		return crypto.NewVaultProvider(cfg.VaultAddr, cfg.VaultToken.Value()), nil
	case "static":
		p, err := crypto.NewStaticProvider(cfg.EncryptionKey.Value())
		if err != nil {
			return nil, fmt.Errorf("static key provider: %w", err)
		}

		return p, nil
	default:
		return nil, fmt.Errorf("unknown ENCRYPTION_PROVIDER %q", cfg.EncryptionProvider)
	}
}
