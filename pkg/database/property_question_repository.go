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

// PropertyQuestionRepository persists buyer-asked questions escalated to
// suppliers.
type PropertyQuestionRepository struct {
	db *sql.DB
}

// NewPropertyQuestionRepository constructs the repository over the shared pool.
func NewPropertyQuestionRepository(client *Client) *PropertyQuestionRepository {
	return &PropertyQuestionRepository{db: client.DB()}
}

// Create inserts a new question in pending status.
func (r *PropertyQuestionRepository) Create(ctx context.Context, q *models.PropertyQuestion) error {
	q.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO property_questions (id, warehouse_id, engagement_id, asked_by, question,
			routed_to_supplier_at, supplier_deadline, answered_at, answer, status, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		q.ID, q.WarehouseID, q.EngagementID, q.AskedBy, q.Question, q.RoutedToSupplierAt,
		q.SupplierDeadline, q.AnsweredAt, q.Answer, q.Status, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert property question: %w", err)
	}
	return nil
}

// Get fetches a question by ID.
func (r *PropertyQuestionRepository) Get(ctx context.Context, id string) (*models.PropertyQuestion, error) {
	var q models.PropertyQuestion
	err := r.db.QueryRowContext(ctx,
		`SELECT id, warehouse_id, engagement_id, asked_by, question, routed_to_supplier_at,
			supplier_deadline, answered_at, answer, status, created_at
		 FROM property_questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.WarehouseID, &q.EngagementID, &q.AskedBy, &q.Question, &q.RoutedToSupplierAt,
		&q.SupplierDeadline, &q.AnsweredAt, &q.Answer, &q.Status, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("property_question", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get property question: %w", err)
	}
	return &q, nil
}

// Answer records a supplier's answer and advances status.
func (r *PropertyQuestionRepository) Answer(ctx context.Context, id, answer string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE property_questions SET answer = $1, answered_at = $2, status = 'answered' WHERE id = $3`,
		answer, at, id,
	)
	if err != nil {
		return fmt.Errorf("answer property question: %w", err)
	}
	return nil
}

// Expire marks a routed question expired — its 24h supplier deadline
// elapsed with no answer (§4.4 job #5).
func (r *PropertyQuestionRepository) Expire(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE property_questions SET status = 'expired' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("expire property question: %w", err)
	}
	return nil
}

// ListAnsweredWithoutKnowledge returns answered questions that have no
// corresponding property_knowledge_entries row for their
// (warehouse_id, question) pair yet — the qa_knowledge_backfill job's
// work queue (§4.4 job #6).
func (r *PropertyQuestionRepository) ListAnsweredWithoutKnowledge(ctx context.Context) ([]*models.PropertyQuestion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT q.id, q.warehouse_id, q.engagement_id, q.asked_by, q.question, q.routed_to_supplier_at,
			q.supplier_deadline, q.answered_at, q.answer, q.status, q.created_at
		 FROM property_questions q
		 LEFT JOIN property_knowledge_entries k
			ON k.warehouse_id = q.warehouse_id AND k.topic = q.question
		 WHERE q.status = 'answered' AND k.id IS NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("list answered property questions without knowledge: %w", err)
	}
	defer rows.Close()

	var out []*models.PropertyQuestion
	for rows.Next() {
		var q models.PropertyQuestion
		if err := rows.Scan(&q.ID, &q.WarehouseID, &q.EngagementID, &q.AskedBy, &q.Question,
			&q.RoutedToSupplierAt, &q.SupplierDeadline, &q.AnsweredAt, &q.Answer, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan property question: %w", err)
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}

// ListPastDeadline returns every routed-but-unanswered question whose
// supplier deadline has elapsed, for the qa_supplier_deadline job.
func (r *PropertyQuestionRepository) ListPastDeadline(ctx context.Context, now time.Time) ([]*models.PropertyQuestion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, warehouse_id, engagement_id, asked_by, question, routed_to_supplier_at,
			supplier_deadline, answered_at, answer, status, created_at
		 FROM property_questions WHERE status = 'routed' AND supplier_deadline < $1`, now,
	)
	if err != nil {
		return nil, fmt.Errorf("list past-deadline property questions: %w", err)
	}
	defer rows.Close()

	var out []*models.PropertyQuestion
	for rows.Next() {
		var q models.PropertyQuestion
		if err := rows.Scan(&q.ID, &q.WarehouseID, &q.EngagementID, &q.AskedBy, &q.Question,
			&q.RoutedToSupplierAt, &q.SupplierDeadline, &q.AnsweredAt, &q.Answer, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan property question: %w", err)
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}
