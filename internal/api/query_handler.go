package api

import (
	"errors"
	"log"
	"net/http"

	"spashta/legal-docs/internal/service"

	"github.com/gin-gonic/gin"
)

type QueryHandler struct {
	queryService service.QueryService
}

func NewQueryHandler(queryService service.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// --- DTOs ---

type queryRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId"`
}

// Ask handles POST /query.
// The tenant scope comes from the verified bearer token when one was sent;
// the body's userId is a fallback for deployments without the account
// service in front.
func (h *QueryHandler) Ask(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Request must contain valid JSON.")
		return
	}

	tenantID := getUserIDFromContext(c)
	if tenantID == "" {
		tenantID = req.UserID
	}

	view, err := h.queryService.Ask(c.Request.Context(), req.Query, tenantID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: Query failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "An internal error occurred while querying the AI service.")
		return
	}

	c.JSON(http.StatusOK, view)
}
