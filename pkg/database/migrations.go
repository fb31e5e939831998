package database

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateGINIndexes creates full-text search GIN indexes for PostgreSQL,
// enabling efficient free-text search over buyer requirements and
// supplier-sourced property knowledge answers.
func CreateGINIndexes(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_buyer_needs_requirements_gin
		ON buyer_needs USING gin(to_tsvector('english', requirements))`)
	if err != nil {
		return fmt.Errorf("failed to create buyer_needs requirements GIN index: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_property_knowledge_answer_gin
		ON property_knowledge_entries USING gin(to_tsvector('english', answer))`)
	if err != nil {
		return fmt.Errorf("failed to create property_knowledge_entries answer GIN index: %w", err)
	}

	return nil
}
