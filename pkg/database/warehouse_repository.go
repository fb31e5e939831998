package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// WarehouseRepository persists models.Warehouse rows.
type WarehouseRepository struct {
	db *sql.DB
}

// NewWarehouseRepository constructs a WarehouseRepository over the shared pool.
func NewWarehouseRepository(client *Client) *WarehouseRepository {
	return &WarehouseRepository{db: client.DB()}
}

// Create inserts a new warehouse.
func (r *WarehouseRepository) Create(ctx context.Context, w *models.Warehouse) error {
	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO warehouses (id, company_id, created_by, address, city, state, zipcode, lat, lng,
			building_size_sqft, year_built, gallery, phone, supplier_status, last_outreach_at,
			outreach_count, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		w.ID, w.CompanyID, w.CreatedBy, w.Address, w.City, w.State, w.Zipcode, w.Lat, w.Lng,
		w.BuildingSizeSqft, w.YearBuilt, pq.Array(w.Gallery), w.Phone, w.SupplierStatus, w.LastOutreachAt,
		w.OutreachCount, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// Get fetches a warehouse by ID.
func (r *WarehouseRepository) Get(ctx context.Context, id string) (*models.Warehouse, error) {
	var w models.Warehouse
	err := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, created_by, address, city, state, zipcode, lat, lng,
			building_size_sqft, year_built, gallery, phone, supplier_status, last_outreach_at,
			outreach_count, created_at, updated_at
		 FROM warehouses WHERE id = $1`, id,
	).Scan(&w.ID, &w.CompanyID, &w.CreatedBy, &w.Address, &w.City, &w.State, &w.Zipcode, &w.Lat, &w.Lng,
		&w.BuildingSizeSqft, &w.YearBuilt, pq.Array(&w.Gallery), &w.Phone, &w.SupplierStatus, &w.LastOutreachAt,
		&w.OutreachCount, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("warehouse", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// ListInNetworkWithCoordinates returns every in-network warehouse whose
// lat/lng is set, for the application-side haversine pre-filter in
// pkg/clearing. Coordinate pre-filtering itself happens in Go, not SQL,
// since the matching radius is buyer-need-specific and the candidate set
// per company is small enough to filter in process (§4.1 Tier-1 step 1).
func (r *WarehouseRepository) ListInNetworkWithCoordinates(ctx context.Context) ([]*models.Warehouse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, company_id, created_by, address, city, state, zipcode, lat, lng,
			building_size_sqft, year_built, gallery, phone, supplier_status, last_outreach_at,
			outreach_count, created_at, updated_at
		 FROM warehouses WHERE supplier_status = $1 AND lat IS NOT NULL AND lng IS NOT NULL`,
		models.SupplierStatusInNetwork,
	)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []*models.Warehouse
	for rows.Next() {
		var w models.Warehouse
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.CreatedBy, &w.Address, &w.City, &w.State, &w.Zipcode,
			&w.Lat, &w.Lng, &w.BuildingSizeSqft, &w.YearBuilt, pq.Array(&w.Gallery), &w.Phone,
			&w.SupplierStatus, &w.LastOutreachAt, &w.OutreachCount, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// ListOutreachCandidatesWithCoordinates returns warehouses outside the
// network (so not already eligible for Tier-1) that still have a
// TruthCore listing, coordinates, and a phone number — the Tier-2 pool
// the clearing engine's DLA step sources outreach targets from (§4.1.2).
func (r *WarehouseRepository) ListOutreachCandidatesWithCoordinates(ctx context.Context) ([]*models.Warehouse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT w.id, w.company_id, w.created_by, w.address, w.city, w.state, w.zipcode, w.lat, w.lng,
			w.building_size_sqft, w.year_built, w.gallery, w.phone, w.supplier_status, w.last_outreach_at,
			w.outreach_count, w.created_at, w.updated_at
		 FROM warehouses w
		 JOIN truth_cores tc ON tc.warehouse_id = w.id
		 WHERE w.supplier_status != $1 AND w.lat IS NOT NULL AND w.lng IS NOT NULL AND w.phone != ''`,
		models.SupplierStatusInNetwork,
	)
	if err != nil {
		return nil, fmt.Errorf("list outreach candidate warehouses: %w", err)
	}
	defer rows.Close()

	var out []*models.Warehouse
	for rows.Next() {
		var w models.Warehouse
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.CreatedBy, &w.Address, &w.City, &w.State, &w.Zipcode,
			&w.Lat, &w.Lng, &w.BuildingSizeSqft, &w.YearBuilt, pq.Array(&w.Gallery), &w.Phone,
			&w.SupplierStatus, &w.LastOutreachAt, &w.OutreachCount, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// UpdateSupplierStatus transitions a warehouse's network-membership state.
func (r *WarehouseRepository) UpdateSupplierStatus(ctx context.Context, id string, status models.SupplierStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE warehouses SET supplier_status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update supplier status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apierr.NewNotFound("warehouse", id)
	}
	return nil
}
