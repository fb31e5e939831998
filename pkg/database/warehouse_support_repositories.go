package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wex-clearinghouse/core/pkg/models"
)

// ToggleHistoryRepository persists activation-status flip records, each
// with its own 48-hour grace window.
type ToggleHistoryRepository struct {
	db *sql.DB
}

// NewToggleHistoryRepository constructs the repository over the shared pool.
func NewToggleHistoryRepository(client *Client) *ToggleHistoryRepository {
	return &ToggleHistoryRepository{db: client.DB()}
}

// Create inserts a toggle record.
func (r *ToggleHistoryRepository) Create(ctx context.Context, h *models.ToggleHistory) error {
	h.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO toggle_history (id, warehouse_id, from_status, to_status, actor_id,
			in_flight_match_count, grace_period_ends_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		h.ID, h.WarehouseID, h.FromStatus, h.ToStatus, h.ActorID, h.InFlightMatchCount,
		h.GracePeriodEndsAt, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert toggle history: %w", err)
	}
	return nil
}

// ListByWarehouse returns every toggle ever recorded for a warehouse, most
// recent first.
func (r *ToggleHistoryRepository) ListByWarehouse(ctx context.Context, warehouseID string) ([]*models.ToggleHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, warehouse_id, from_status, to_status, actor_id, in_flight_match_count,
			grace_period_ends_at, created_at
		 FROM toggle_history WHERE warehouse_id = $1 ORDER BY created_at DESC`, warehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list toggle history: %w", err)
	}
	defer rows.Close()

	var out []*models.ToggleHistory
	for rows.Next() {
		var h models.ToggleHistory
		if err := rows.Scan(&h.ID, &h.WarehouseID, &h.FromStatus, &h.ToStatus, &h.ActorID,
			&h.InFlightMatchCount, &h.GracePeriodEndsAt, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan toggle history: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// SupplierAgreementRepository persists the one-time network-membership
// agreement signed on activation.
type SupplierAgreementRepository struct {
	db *sql.DB
}

// NewSupplierAgreementRepository constructs the repository over the shared pool.
func NewSupplierAgreementRepository(client *Client) *SupplierAgreementRepository {
	return &SupplierAgreementRepository{db: client.DB()}
}

// Create inserts a signed supplier agreement.
func (r *SupplierAgreementRepository) Create(ctx context.Context, a *models.SupplierAgreement) error {
	a.CreatedAt = time.Now().UTC()
	terms, err := json.Marshal(a.TermsSnapshot)
	if err != nil {
		return fmt.Errorf("marshal terms snapshot: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO supplier_agreements (id, warehouse_id, company_id, version, terms_snapshot, signed_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.WarehouseID, a.CompanyID, a.Version, terms, a.SignedAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier agreement: %w", err)
	}
	return nil
}

// GetLatest fetches the most recently signed agreement for a warehouse.
func (r *SupplierAgreementRepository) GetLatest(ctx context.Context, warehouseID string) (*models.SupplierAgreement, error) {
	var a models.SupplierAgreement
	var terms []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, warehouse_id, company_id, version, terms_snapshot, signed_at, created_at
		 FROM supplier_agreements WHERE warehouse_id = $1 ORDER BY signed_at DESC LIMIT 1`, warehouseID,
	).Scan(&a.ID, &a.WarehouseID, &a.CompanyID, &a.Version, &terms, &a.SignedAt, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get latest supplier agreement: %w", err)
	}
	if len(terms) > 0 {
		if err := json.Unmarshal(terms, &a.TermsSnapshot); err != nil {
			return nil, fmt.Errorf("unmarshal terms snapshot: %w", err)
		}
	}
	return &a, nil
}

// ContextualMemoryRepository persists per-warehouse learning notes that
// feed the feature-alignment pass and future routing (§4.1.2).
type ContextualMemoryRepository struct {
	db *sql.DB
}

// NewContextualMemoryRepository constructs the repository over the shared pool.
func NewContextualMemoryRepository(client *Client) *ContextualMemoryRepository {
	return &ContextualMemoryRepository{db: client.DB()}
}

// Create inserts a new memory row.
func (r *ContextualMemoryRepository) Create(ctx context.Context, m *models.ContextualMemory) error {
	m.CreatedAt = time.Now().UTC()
	data, err := json.Marshal(m.Data)
	if err != nil {
		return fmt.Errorf("marshal memory data: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO contextual_memories (id, warehouse_id, kind, note, data, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.WarehouseID, m.Kind, m.Note, data, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contextual memory: %w", err)
	}
	return nil
}

// ListByWarehouse returns every memory recorded for a warehouse, most
// recent first — read by the feature-alignment pass to condition the LLM
// prompt and by pkg/clearing's InstantBookScore depth factor.
func (r *ContextualMemoryRepository) ListByWarehouse(ctx context.Context, warehouseID string) ([]*models.ContextualMemory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, warehouse_id, kind, note, data, created_at
		 FROM contextual_memories WHERE warehouse_id = $1 ORDER BY created_at DESC`, warehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list contextual memories: %w", err)
	}
	defer rows.Close()

	var out []*models.ContextualMemory
	for rows.Next() {
		var m models.ContextualMemory
		var data []byte
		if err := rows.Scan(&m.ID, &m.WarehouseID, &m.Kind, &m.Note, &data, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contextual memory: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &m.Data); err != nil {
				return nil, fmt.Errorf("unmarshal memory data: %w", err)
			}
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
