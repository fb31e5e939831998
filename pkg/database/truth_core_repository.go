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

// TruthCoreRepository persists models.TruthCore rows, 1:1 with a Warehouse.
type TruthCoreRepository struct {
	db *sql.DB
}

// NewTruthCoreRepository constructs a TruthCoreRepository over the shared pool.
func NewTruthCoreRepository(client *Client) *TruthCoreRepository {
	return &TruthCoreRepository{db: client.DB()}
}

// Upsert creates or replaces the TruthCore for a warehouse.
func (r *TruthCoreRepository) Upsert(ctx context.Context, tc *models.TruthCore) error {
	now := time.Now().UTC()
	if tc.CreatedAt.IsZero() {
		tc.CreatedAt = now
	}
	tc.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO truth_cores (warehouse_id, min_sqft, max_sqft, activity_tier, has_office_space,
			available_from, supplier_rate_per_sqft, activation_status, trust_level, dock_doors,
			clear_height_ft, has_sprinkler, power_amps, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 ON CONFLICT (warehouse_id) DO UPDATE SET
			min_sqft = EXCLUDED.min_sqft, max_sqft = EXCLUDED.max_sqft,
			activity_tier = EXCLUDED.activity_tier, has_office_space = EXCLUDED.has_office_space,
			available_from = EXCLUDED.available_from, supplier_rate_per_sqft = EXCLUDED.supplier_rate_per_sqft,
			activation_status = EXCLUDED.activation_status, trust_level = EXCLUDED.trust_level,
			dock_doors = EXCLUDED.dock_doors, clear_height_ft = EXCLUDED.clear_height_ft,
			has_sprinkler = EXCLUDED.has_sprinkler, power_amps = EXCLUDED.power_amps,
			updated_at = EXCLUDED.updated_at`,
		tc.WarehouseID, tc.MinSqft, tc.MaxSqft, tc.ActivityTier, tc.HasOfficeSpace, tc.AvailableFrom,
		tc.SupplierRatePerSqft, tc.ActivationStatus, tc.TrustLevel, tc.DockDoors, tc.ClearHeightFt,
		tc.HasSprinkler, tc.PowerAmps, tc.CreatedAt, tc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert truth core: %w", err)
	}
	return nil
}

// Get fetches a warehouse's TruthCore.
func (r *TruthCoreRepository) Get(ctx context.Context, warehouseID string) (*models.TruthCore, error) {
	var tc models.TruthCore
	err := r.db.QueryRowContext(ctx,
		`SELECT warehouse_id, min_sqft, max_sqft, activity_tier, has_office_space, available_from,
			supplier_rate_per_sqft, activation_status, trust_level, dock_doors, clear_height_ft,
			has_sprinkler, power_amps, created_at, updated_at
		 FROM truth_cores WHERE warehouse_id = $1`, warehouseID,
	).Scan(&tc.WarehouseID, &tc.MinSqft, &tc.MaxSqft, &tc.ActivityTier, &tc.HasOfficeSpace, &tc.AvailableFrom,
		&tc.SupplierRatePerSqft, &tc.ActivationStatus, &tc.TrustLevel, &tc.DockDoors, &tc.ClearHeightFt,
		&tc.HasSprinkler, &tc.PowerAmps, &tc.CreatedAt, &tc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("truth_core", warehouseID)
	}
	if err != nil {
		return nil, fmt.Errorf("get truth core: %w", err)
	}
	return &tc, nil
}

// SetActivationStatus flips activation on/off for the 48-hour grace-window
// toggle endpoint.
func (r *TruthCoreRepository) SetActivationStatus(ctx context.Context, warehouseID string, status models.ActivationStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE truth_cores SET activation_status = $1, updated_at = $2 WHERE warehouse_id = $3`,
		status, time.Now().UTC(), warehouseID,
	)
	if err != nil {
		return fmt.Errorf("set activation status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apierr.NewNotFound("truth_core", warehouseID)
	}
	return nil
}

// SetSupplierRate overwrites the supplier rate, e.g. on DLA confirmation.
func (r *TruthCoreRepository) SetSupplierRate(ctx context.Context, warehouseID string, rate float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE truth_cores SET supplier_rate_per_sqft = $1, updated_at = $2 WHERE warehouse_id = $3`,
		rate, time.Now().UTC(), warehouseID,
	)
	if err != nil {
		return fmt.Errorf("set supplier rate: %w", err)
	}
	return nil
}

// ListActiveEligibleForTier1 returns every TruthCore eligible for Tier-1
// matching (activation on), joined server-side against warehouses'
// supplier_status so only in_network rows come back.
func (r *TruthCoreRepository) ListActiveEligibleForTier1(ctx context.Context) ([]*models.TruthCore, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tc.warehouse_id, tc.min_sqft, tc.max_sqft, tc.activity_tier, tc.has_office_space,
			tc.available_from, tc.supplier_rate_per_sqft, tc.activation_status, tc.trust_level,
			tc.dock_doors, tc.clear_height_ft, tc.has_sprinkler, tc.power_amps, tc.created_at, tc.updated_at
		 FROM truth_cores tc
		 JOIN warehouses w ON w.id = tc.warehouse_id
		 WHERE tc.activation_status = $1 AND w.supplier_status = $2`,
		models.ActivationOn, models.SupplierStatusInNetwork,
	)
	if err != nil {
		return nil, fmt.Errorf("list eligible truth cores: %w", err)
	}
	defer rows.Close()

	var out []*models.TruthCore
	for rows.Next() {
		var tc models.TruthCore
		if err := rows.Scan(&tc.WarehouseID, &tc.MinSqft, &tc.MaxSqft, &tc.ActivityTier, &tc.HasOfficeSpace,
			&tc.AvailableFrom, &tc.SupplierRatePerSqft, &tc.ActivationStatus, &tc.TrustLevel, &tc.DockDoors,
			&tc.ClearHeightFt, &tc.HasSprinkler, &tc.PowerAmps, &tc.CreatedAt, &tc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan truth core: %w", err)
		}
		out = append(out, &tc)
	}
	return out, rows.Err()
}
