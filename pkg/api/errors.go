package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wex-clearinghouse/core/pkg/apierr"
)

// errorResponse is the JSON shape every failed request returns (§6 wire
// formats, §7 error taxonomy).
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps err to an HTTP status and the taxonomy code in §7, and
// writes it as the response body. Anything not recognized as one of the
// typed apierr kinds is logged and returned as a 500 — nothing catches and
// hides a programming error or a raw database failure.
func writeError(c *gin.Context, err error) {
	var valErr *apierr.ValidationError
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: valErr.Error(), Code: "validation_error"})
	case errors.Is(err, apierr.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, apierr.ErrAuthorization):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error(), Code: "authorization_error"})
	case errors.Is(err, apierr.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_transition"})
	case errors.Is(err, apierr.ErrGuardFailure):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "guard_failure"})
	case errors.Is(err, apierr.ErrDatabaseConflict):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Code: "database_conflict"})
	case errors.Is(err, apierr.ErrExternalDependencyDegraded):
		// Degrades are absorbed by the caller per §7; surfacing one here
		// means a handler forwarded it instead of using its fallback path.
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error(), Code: "external_dependency_degraded"})
	default:
		slog.Error("unhandled api error", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal_error"})
	}
}

// badRequest writes a plain validation-shaped 400 for request binding
// failures that never reach the service layer.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation_error"})
}
