package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the idempotent schema and seeds reference data.
func Migrate(ctx context.Context, db PgxIface) error {
	// no arguments, so pgx uses the simple protocol and accepts multiple statements
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
