package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wex-clearinghouse/core/pkg/models"
)

// The /api/dla/{token}/* endpoints carry no bearer auth — the opaque
// 32-char hex token itself is the capability, exactly as spec.md §6
// describes the demand-led-activation invite link a supplier receives
// over SMS.

func (s *Server) dlaConfirm(c *gin.Context) {
	ctx, cancel := withTimeout(c)
	defer cancel()
	t, err := s.activator.ConfirmInterest(ctx, c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dlaView(t))
}

func (s *Server) dlaRate(c *gin.Context) {
	var req DLARateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	t, err := s.activator.CounterRate(ctx, c.Param("token"), req.RatePerSqft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dlaView(t))
}

func (s *Server) dlaAgree(c *gin.Context) {
	var req DLAAgreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	token := c.Param("token")
	t, err := s.dlaTokens.Get(ctx, token)
	if err != nil {
		writeError(c, err)
		return
	}
	wh, err := s.warehouses.Get(ctx, t.WarehouseID)
	if err != nil {
		writeError(c, err)
		return
	}
	match, err := s.activator.Convert(ctx, token, wh.CompanyID, req.TermsSnapshot)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match_id": match.ID, "status": "converted"})
}

func (s *Server) dlaOutcome(c *gin.Context) {
	var req DLAOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	kind := models.MemoryDLADeclined
	if req.Outcome == "no_response" {
		kind = models.MemoryDLANoResponse
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := s.activator.Decline(ctx, c.Param("token"), kind, req.Note); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
