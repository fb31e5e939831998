package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/engagement"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// acceptSettlement is POST /api/admin/settlement/accept (§6), admin-only:
// promotes a scored Match into a live Engagement, seeded at matched and
// immediately advanced to deal_ping_sent — the first system transition in
// the lifecycle table (§4.2).
func (s *Server) acceptSettlement(c *gin.Context) {
	if !identity(c).IsPlatformAdmin {
		writeError(c, apierr.NewAuthorization("accept settlement"))
		return
	}
	var req SettlementAcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	m, err := s.matches.Get(ctx, req.MatchID)
	if err != nil {
		writeError(c, err)
		return
	}

	e := &models.Engagement{
		ID: uuid.NewString(), MatchID: m.ID, BuyerNeedID: m.BuyerNeedID, WarehouseID: m.WarehouseID,
		Status: models.StateMatched, Path: models.EngagementPath(req.DealType),
		BuyerRatePerSqft: m.BuyerRatePerSqft, SupplierRatePerSqft: m.SupplierRatePerSqft,
	}
	if err := s.engagements.Create(ctx, e); err != nil {
		writeError(c, err)
		return
	}
	if err := s.matches.UpdateStatus(ctx, m.ID, models.MatchStatusAccepted); err != nil {
		writeError(c, err)
		return
	}

	updated, err := s.machine.Transition(ctx, engagement.Request{
		EngagementID: e.ID, Actor: models.ActorSystem, To: models.StateDealPingSent,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminView(updated, s.transitions))
}
