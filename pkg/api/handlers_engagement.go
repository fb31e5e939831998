package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/engagement"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// engagementRole reports how identity relates to engagement e: which
// company owns the buyer need, which owns the warehouse, and whether id is
// either. A caller that is neither and isn't a platform admin gets 403 —
// the state machine's actor model has no "spectator" role.
func (s *Server) engagementRole(c *gin.Context, id authIdentity, e *models.Engagement) (isBuyer, isSupplier bool, err error) {
	ctx, cancel := withTimeout(c)
	defer cancel()

	need, err := s.buyerNeeds.Get(ctx, e.BuyerNeedID)
	if err != nil {
		return false, false, err
	}
	wh, err := s.warehouses.Get(ctx, e.WarehouseID)
	if err != nil {
		return false, false, err
	}
	return need.CompanyID == id.CompanyID, wh.CompanyID == id.CompanyID, nil
}

// viewEngagement serializes e for the caller's role, 403ing anyone who is
// neither the owning buyer, the owning supplier, nor a platform admin.
func (s *Server) viewEngagement(c *gin.Context, e *models.Engagement) (any, error) {
	id := identity(c)
	if id.IsPlatformAdmin {
		return adminView(e, s.transitions), nil
	}
	isBuyer, isSupplier, err := s.engagementRole(c, id, e)
	if err != nil {
		return nil, err
	}
	switch {
	case isBuyer:
		return buyerView(e, s.transitions), nil
	case isSupplier:
		return supplierView(e, s.transitions), nil
	default:
		return nil, apierr.NewAuthorization("view engagement")
	}
}

// actorForEngagement resolves which Actor identity may transition e as,
// checked against real company ownership rather than a client-asserted
// role (§6/§7: never trust a client-supplied actor field).
func (s *Server) actorForEngagement(c *gin.Context, e *models.Engagement, want models.Actor) (models.Actor, error) {
	id := identity(c)
	if id.IsPlatformAdmin {
		return models.ActorAdmin, nil
	}
	isBuyer, isSupplier, err := s.engagementRole(c, id, e)
	if err != nil {
		return "", err
	}
	if want == models.ActorBuyer && isBuyer {
		return models.ActorBuyer, nil
	}
	if want == models.ActorSupplier && isSupplier {
		return models.ActorSupplier, nil
	}
	return "", apierr.NewAuthorization("act as " + string(want))
}

func (s *Server) getEngagementByID(c *gin.Context) (*models.Engagement, error) {
	ctx, cancel := withTimeout(c)
	defer cancel()
	return s.engagements.Get(ctx, nil, c.Param("id"))
}

func (s *Server) getEngagement(c *gin.Context) {
	e, err := s.getEngagementByID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := s.viewEngagement(c, e)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) getTimeline(c *gin.Context) {
	e, err := s.getEngagementByID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := s.viewEngagement(c, e); err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	events, err := s.engagements.ListEvents(ctx, e.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, timelineView(events))
}

// transition is the shared body for every engagement-mutating endpoint:
// resolve the engagement, resolve the caller's actor, run the state
// machine, and return the role-filtered result.
func (s *Server) transition(c *gin.Context, want models.Actor, to models.EngagementState, data map[string]any) {
	e, err := s.getEngagementByID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	actor, err := s.actorForEngagement(c, e, want)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	updated, err := s.machine.Transition(ctx, engagement.Request{
		EngagementID: e.ID, Actor: actor, ActorID: identity(c).UserID, To: to, Data: data,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := s.viewEngagement(c, updated)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) acceptEngagement(c *gin.Context) {
	var req EngagementAcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	to := models.StateTourRequested
	if req.Path == models.PathInstantBook {
		to = models.StateInstantBookRequested
	}
	s.transition(c, models.ActorBuyer, to, map[string]any{"path": string(req.Path)})
}

func (s *Server) dealPingAccept(c *gin.Context) {
	s.transition(c, models.ActorSupplier, models.StateDealPingAccepted, nil)
}

func (s *Server) dealPingDecline(c *gin.Context) {
	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)
	s.transition(c, models.ActorSupplier, models.StateDealPingDeclined, map[string]any{"reason": req.Reason})
}

func (s *Server) signGuarantee(c *gin.Context) {
	s.transition(c, models.ActorBuyer, models.StateGuaranteeSigned, nil)
}

func (s *Server) requestTour(c *gin.Context) {
	s.transition(c, models.ActorBuyer, models.StateTourRequested, nil)
}

func (s *Server) confirmTour(c *gin.Context) {
	var req TourConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.transition(c, models.ActorSupplier, models.StateTourConfirmed, map[string]any{"scheduled_at": req.ScheduledAt})
}

func (s *Server) rescheduleTour(c *gin.Context) {
	var req TourRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := s.getEngagementByID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	isBuyer, isSupplier, err := s.engagementRole(c, identity(c), e)
	if err != nil {
		writeError(c, err)
		return
	}
	want := models.ActorBuyer
	if isSupplier && !isBuyer {
		want = models.ActorSupplier
	}
	s.transition(c, want, models.StateTourRescheduled, map[string]any{"scheduled_at": req.ScheduledAt})
}

// cancelEngagement is admin-only, checked here before the transition: the
// transition table has no rule routing any state to cancelled, so
// Machine.applyTransition's admin override is the only path there.
func (s *Server) cancelEngagement(c *gin.Context) {
	id := identity(c)
	if !id.IsPlatformAdmin {
		writeError(c, apierr.NewAuthorization("cancel engagement"))
		return
	}
	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)
	s.transition(c, models.ActorAdmin, models.StateCancelled, map[string]any{"reason": req.Reason})
}

// signAgreement is the dual-sign entry point: whichever side calls first
// just records its own signature (no state change yet); the second caller
// completes SignAgreement's guard and the engagement flips to
// agreement_signed (§4.2 Open Question on the double-transition shape).
func (s *Server) signAgreement(c *gin.Context) {
	e, err := s.getEngagementByID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	id := identity(c)
	isBuyer, isSupplier, err := s.engagementRole(c, id, e)
	if err != nil {
		writeError(c, err)
		return
	}
	var actor models.Actor
	switch {
	case id.IsPlatformAdmin:
		writeError(c, apierr.NewAuthorization("sign agreement as admin"))
		return
	case isBuyer:
		actor = models.ActorBuyer
	case isSupplier:
		actor = models.ActorSupplier
	default:
		writeError(c, apierr.NewAuthorization("sign agreement"))
		return
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	updated, err := s.machine.SignAgreement(ctx, e.ID, actor, id.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := s.viewEngagement(c, updated)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
