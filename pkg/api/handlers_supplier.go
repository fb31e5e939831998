package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// supplierEstimate is a synchronous market-rate lookup a supplier can call
// before deciding whether to activate — no ownership check, since nothing
// is persisted (§6).
func (s *Server) supplierEstimate(c *gin.Context) {
	var req SupplierEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	rate, err := s.marketRates.Get(ctx, req.Zip, models.UseTypeGeneral)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimateResponse{RateLow: rate.RateLow, RateHigh: rate.RateHigh, SampleSize: rate.SampleSize})
}

// requireOwnedWarehouse loads the warehouse at c's :id param and 403s
// unless identity's company owns it.
func (s *Server) requireOwnedWarehouse(c *gin.Context) (*models.Warehouse, error) {
	ctx, cancel := withTimeout(c)
	defer cancel()
	wh, err := s.warehouses.Get(ctx, c.Param("id"))
	if err != nil {
		return nil, err
	}
	id := identity(c)
	if !id.IsPlatformAdmin && wh.CompanyID != id.CompanyID {
		return nil, apierr.NewAuthorization("manage warehouse")
	}
	return wh, nil
}

// activateWarehouse is POST /api/supplier/warehouse/{id}/activate (§6): a
// supplier brings a building live by creating its TruthCore, flipping
// supplier_status to in_network.
func (s *Server) activateWarehouse(c *gin.Context) {
	wh, err := s.requireOwnedWarehouse(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req SupplierActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	availableFrom, err := time.Parse(time.RFC3339, req.AvailableFrom)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := s.truthCores.Upsert(ctx, &models.TruthCore{
		WarehouseID: wh.ID, MinSqft: req.MinSqft, MaxSqft: req.MaxSqft,
		ActivityTier: req.ActivityTier, HasOfficeSpace: req.HasOfficeSpace,
		AvailableFrom: availableFrom, SupplierRatePerSqft: req.SupplierRatePerSqft,
		ActivationStatus: models.ActivationOn, TrustLevel: models.TrustLevelUnverified,
		DockDoors: req.DockDoors, ClearHeightFt: req.ClearHeightFt,
		HasSprinkler: req.HasSprinkler, PowerAmps: req.PowerAmps,
	}); err != nil {
		writeError(c, err)
		return
	}
	if err := s.warehouses.UpdateSupplierStatus(ctx, wh.ID, models.SupplierStatusInNetwork); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warehouse_id": wh.ID, "supplier_status": models.SupplierStatusInNetwork})
}

// toggleWarehouse is PATCH /api/supplier/warehouse/{id}/toggle (§6): flips
// a TruthCore's ActivationStatus, recording the flip as ToggleHistory with
// a 48-hour grace window before in-flight matches are affected.
func (s *Server) toggleWarehouse(c *gin.Context) {
	wh, err := s.requireOwnedWarehouse(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req SupplierToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	tc, err := s.truthCores.Get(ctx, wh.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	from := tc.ActivationStatus
	if err := s.truthCores.SetActivationStatus(ctx, wh.ID, req.Status); err != nil {
		writeError(c, err)
		return
	}
	now := time.Now().UTC()
	if err := s.toggles.Create(ctx, &models.ToggleHistory{
		ID: uuid.NewString(), WarehouseID: wh.ID, FromStatus: from, ToStatus: req.Status,
		ActorID: identity(c).UserID, GracePeriodEndsAt: now.Add(48 * time.Hour),
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warehouse_id": wh.ID, "activation_status": req.Status})
}
