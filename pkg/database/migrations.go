package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates GIN indexes for PostgreSQL JSONB columns not
// expressed in the Ent schema itself.
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	// GIN index for inject technical_metadata (affected_assets containment
	// queries during state-consistency checks).
	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_injects_technical_metadata_gin
		ON injects USING gin(technical_metadata)`)
	if err != nil {
		return fmt.Errorf("failed to create technical_metadata GIN index: %w", err)
	}

	// GIN index for forensic audit record details (full audit-record replay).
	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_validation_audits_details_gin
		ON validation_audits USING gin(details)`)
	if err != nil {
		return fmt.Errorf("failed to create validation_audit details GIN index: %w", err)
	}

	return nil
}
