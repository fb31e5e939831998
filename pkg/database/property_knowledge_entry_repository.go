package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// PropertyKnowledgeEntryRepository persists reusable supplier-sourced
// answers keyed by (warehouse_id, topic).
type PropertyKnowledgeEntryRepository struct {
	db *sql.DB
}

// NewPropertyKnowledgeEntryRepository constructs the repository over the shared pool.
func NewPropertyKnowledgeEntryRepository(client *Client) *PropertyKnowledgeEntryRepository {
	return &PropertyKnowledgeEntryRepository{db: client.DB()}
}

// Upsert writes or refreshes a knowledge entry for a warehouse+topic.
func (r *PropertyKnowledgeEntryRepository) Upsert(ctx context.Context, e *models.PropertyKnowledgeEntry) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO property_knowledge_entries (id, warehouse_id, topic, answer, source_question_id, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (warehouse_id, topic) DO UPDATE SET
			answer = EXCLUDED.answer, source_question_id = EXCLUDED.source_question_id, updated_at = EXCLUDED.updated_at`,
		e.ID, e.WarehouseID, e.Topic, e.Answer, e.SourceQuestionID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert property knowledge entry: %w", err)
	}
	return nil
}

// GetByTopic fetches a warehouse's knowledge entry for a topic, if any.
func (r *PropertyKnowledgeEntryRepository) GetByTopic(ctx context.Context, warehouseID, topic string) (*models.PropertyKnowledgeEntry, error) {
	var e models.PropertyKnowledgeEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, warehouse_id, topic, answer, source_question_id, created_at, updated_at
		 FROM property_knowledge_entries WHERE warehouse_id = $1 AND topic = $2`, warehouseID, topic,
	).Scan(&e.ID, &e.WarehouseID, &e.Topic, &e.Answer, &e.SourceQuestionID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("property_knowledge_entry", warehouseID+"/"+topic)
	}
	if err != nil {
		return nil, fmt.Errorf("get property knowledge entry: %w", err)
	}
	return &e, nil
}

// ListByWarehouse returns every knowledge entry for a warehouse, used by
// the SMS property-focused agent to answer without re-asking the supplier.
func (r *PropertyKnowledgeEntryRepository) ListByWarehouse(ctx context.Context, warehouseID string) ([]*models.PropertyKnowledgeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, warehouse_id, topic, answer, source_question_id, created_at, updated_at
		 FROM property_knowledge_entries WHERE warehouse_id = $1`, warehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list property knowledge entries: %w", err)
	}
	defer rows.Close()

	var out []*models.PropertyKnowledgeEntry
	for rows.Next() {
		var e models.PropertyKnowledgeEntry
		if err := rows.Scan(&e.ID, &e.WarehouseID, &e.Topic, &e.Answer, &e.SourceQuestionID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan property knowledge entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
