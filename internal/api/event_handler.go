package api

import (
	"errors"
	"log"
	"net/http"

	"spashta/legal-docs/internal/domain"
	"spashta/legal-docs/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	ingestService service.IngestService
}

func NewEventHandler(ingestService service.IngestService) *EventHandler {
	return &EventHandler{ingestService: ingestService}
}

// --- DTOs ---

// storageEventRequest is the object-created notification the storage
// platform POSTs to us. Extra fields in the payload are ignored.
type storageEventRequest struct {
	Bucket     string            `json:"bucket"`
	Name       string            `json:"name"`
	Generation string            `json:"generation"`
	Metadata   map[string]string `json:"metadata"`
}

// ObjectCreated handles POST /events/storage.
// Success and deliberate skips both return 204. A 5xx tells the notification
// platform to redeliver, which is safe because ingestion is idempotent.
func (h *EventHandler) ObjectCreated(c *gin.Context) {
	var req storageEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Request must contain valid JSON.")
		return
	}

	event := domain.StorageEvent{
		Bucket:     req.Bucket,
		ObjectName: req.Name,
		Generation: req.Generation,
		TenantID:   req.Metadata["tenant_id"],
	}

	if err := h.ingestService.HandleObjectCreated(c.Request.Context(), event); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: Ingestion failed for object %q: %v", req.Name, err)
		abortWithError(c, http.StatusInternalServerError, "An internal error occurred while ingesting the document.")
		return
	}

	c.Status(http.StatusNoContent)
}
