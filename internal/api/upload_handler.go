package api

import (
	"errors"
	"log"
	"net/http"

	"spashta/legal-docs/internal/service"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// --- DTOs ---

type uploadHandleRequest struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// IssueUploadHandle handles POST /upload-handle.
// Validation failures are 400s with a message; storage trouble is a generic
// 500, details stay in the log.
func (h *UploadHandler) IssueUploadHandle(c *gin.Context) {
	var req uploadHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Request must contain valid JSON.")
		return
	}

	handle, err := h.uploadService.IssueUploadHandle(c.Request.Context(), service.UploadHandleRequest{
		FileName: req.FileName,
		FileSize: req.FileSize,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("ERROR: Failed to issue upload handle: %v", err)
		abortWithError(c, http.StatusInternalServerError, "An internal error occurred while generating the upload URL.")
		return
	}

	log.Printf("INFO: Issued upload handle for file: %s", handle.FileName)
	c.JSON(http.StatusOK, handle)
}
