package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// RequiredTables lists the tables the service cannot run without.
var RequiredTables = []string{"teams", "team_members", "leads", "applications", "tasks"}

// Migrate applies the schema. Every statement is idempotent, so it is
// safe to run on every deploy.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ValidateSchema checks that the required tables exist.
func ValidateSchema(ctx context.Context, db *sql.DB) error {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	`

	for _, table := range RequiredTables {
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("missing table %q - run `leadflowctl migrate` first", table)
		}
		if err != nil {
			return fmt.Errorf("check schema: %w", err)
		}
	}

	return nil
}
