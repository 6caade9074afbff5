package db

import (
	"github.com/claimdesk/claimdesk/internal/db/migrations"
)

// SchemaVersion returns the number of embedded SQL migrations, reported by the
// readiness endpoint so deploys can confirm the schema they expect.
func SchemaVersion() int {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}

	return count
}
