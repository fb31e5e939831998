package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// smsInbound is the webhook entry point for inbound texts (§4.3), wiring
// whatever carrier delivers the message to the orchestrator's pipeline.
// No bearer auth: carrier webhooks authenticate by shared secret or source
// IP allowlist at the infrastructure layer, outside this package's scope.
func (s *Server) smsInbound(c *gin.Context) {
	var req SMSInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	result, err := s.orchestrator.ProcessInbound(ctx, req.Phone, req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Rejected {
		c.JSON(http.StatusOK, gin.H{"rejected": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": result.ReplyBody})
}
