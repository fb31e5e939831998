// Package api exposes the clearinghouse's HTTP surface: role-filtered
// engagement views, the settlement/DLA/supplier endpoints named in §6, and
// the SMS inbound webhook, all behind gin the way the teacher's
// cmd/tarsy/main.go and pkg/api/handlers.go wire up their own gin server.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wex-clearinghouse/core/pkg/clearing"
	"github.com/wex-clearinghouse/core/pkg/config"
	"github.com/wex-clearinghouse/core/pkg/database"
	"github.com/wex-clearinghouse/core/pkg/engagement"
	"github.com/wex-clearinghouse/core/pkg/geocode"
	"github.com/wex-clearinghouse/core/pkg/sms"
	"github.com/wex-clearinghouse/core/pkg/version"
)

// Server bundles every domain dependency a handler might need and owns the
// gin.Engine built from them. Analogous to the teacher's Server{sessionMgr,
// llmClient, wsHub} — one struct per service, handler methods hung off it.
type Server struct {
	router *gin.Engine
	log    *slog.Logger

	jwtSecret []byte

	transitions config.TransitionTable

	companies   *database.CompanyRepository
	users       *database.UserRepository
	buyerNeeds  *database.BuyerNeedRepository
	warehouses  *database.WarehouseRepository
	truthCores  *database.TruthCoreRepository
	matches     *database.MatchRepository
	engagements *database.EngagementRepository
	dlaTokens   *database.DLATokenRepository
	marketRates *database.MarketRateCacheRepository
	toggles     *database.ToggleHistoryRepository
	supplierAgr *database.SupplierAgreementRepository

	clearingEngine *clearing.Engine
	activator      *clearing.Activator
	machine        *engagement.Machine
	geocodeClient  *geocode.Client
	orchestrator   *sms.Orchestrator
}

// Dependencies is the full set of wired services Server needs. Built once
// in cmd/server/main.go and handed to NewServer.
type Dependencies struct {
	JWTSecret   []byte
	Transitions config.TransitionTable

	Companies   *database.CompanyRepository
	Users       *database.UserRepository
	BuyerNeeds  *database.BuyerNeedRepository
	Warehouses  *database.WarehouseRepository
	TruthCores  *database.TruthCoreRepository
	Matches     *database.MatchRepository
	Engagements *database.EngagementRepository
	DLATokens   *database.DLATokenRepository
	MarketRates *database.MarketRateCacheRepository
	Toggles     *database.ToggleHistoryRepository
	SupplierAgr *database.SupplierAgreementRepository

	ClearingEngine *clearing.Engine
	Activator      *clearing.Activator
	Machine        *engagement.Machine
	GeocodeClient  *geocode.Client
	Orchestrator   *sms.Orchestrator
}

// NewServer builds a Server and registers its routes. The gin mode
// (gin.ReleaseMode/gin.DebugMode/gin.TestMode) is not a parameter: the
// caller sets it via gin.SetMode before this runs, matching the teacher's
// main.go.
func NewServer(deps Dependencies, log *slog.Logger) *Server {
	s := &Server{
		router:         gin.New(),
		log:            log,
		jwtSecret:      deps.JWTSecret,
		transitions:    deps.Transitions,
		companies:      deps.Companies,
		users:          deps.Users,
		buyerNeeds:     deps.BuyerNeeds,
		warehouses:     deps.Warehouses,
		truthCores:     deps.TruthCores,
		matches:        deps.Matches,
		engagements:    deps.Engagements,
		dlaTokens:      deps.DLATokens,
		marketRates:    deps.MarketRates,
		toggles:        deps.Toggles,
		supplierAgr:    deps.SupplierAgr,
		clearingEngine: deps.ClearingEngine,
		activator:      deps.Activator,
		machine:        deps.Machine,
		geocodeClient:  deps.GeocodeClient,
		orchestrator:   deps.Orchestrator,
	}
	s.router.Use(recoverJSON(), requestLogger(log))
	s.setupRoutes()
	return s
}

// Router exposes the underlying gin.Engine for tests and for http.Server
// wiring in cmd/server/main.go.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.POST("/api/sms/inbound", s.smsInbound)
	s.router.POST("/api/supplier/estimate", s.supplierEstimate)

	dla := s.router.Group("/api/dla/:token")
	{
		dla.POST("/confirm", s.dlaConfirm)
		dla.POST("/rate", s.dlaRate)
		dla.POST("/agree", s.dlaAgree)
		dla.POST("/outcome", s.dlaOutcome)
	}

	authed := s.router.Group("/api", authMiddleware(s.jwtSecret))
	{
		authed.GET("/engagements/:id", s.getEngagement)
		authed.GET("/engagements/:id/timeline", s.getTimeline)
		authed.POST("/engagements/:id/accept", s.acceptEngagement)
		authed.POST("/engagements/:id/deal-ping/accept", s.dealPingAccept)
		authed.POST("/engagements/:id/deal-ping/decline", s.dealPingDecline)
		authed.POST("/engagements/:id/guarantee/sign", s.signGuarantee)
		authed.POST("/engagements/:id/agreement/sign", s.signAgreement)
		authed.POST("/engagements/:id/tour/request", s.requestTour)
		authed.POST("/engagements/:id/tour/confirm", s.confirmTour)
		authed.POST("/engagements/:id/tour/reschedule", s.rescheduleTour)
		authed.POST("/engagements/:id/cancel", s.cancelEngagement)

		authed.POST("/supplier/warehouse/:id/activate", s.activateWarehouse)
		authed.PATCH("/supplier/warehouse/:id/toggle", s.toggleWarehouse)

		authed.POST("/admin/settlement/accept", s.acceptSettlement)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Version: version.Full()})
}

// withTimeout bounds a handler's request context the way the teacher's
// httpClient bounds outbound calls — every handler that touches the
// database or an external dependency gets a hard ceiling.
func withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 30*time.Second)
}
