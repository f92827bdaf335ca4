package api

import (
	"net/http"

	"spashta/legal-docs/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the three pipeline entry points plus health check onto
// the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	uploadService service.UploadService,
	queryService service.QueryService,
	ingestService service.IngestService,
) {
	uploadHandler := NewUploadHandler(uploadService)
	queryHandler := NewQueryHandler(queryService)
	eventHandler := NewEventHandler(ingestService)

	// Wrong-method requests get an explicit 405 instead of gin's default 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, "Only POST method is allowed.")
	})

	router.Use(CORSMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.POST("/upload-handle", uploadHandler.IssueUploadHandle)
	router.POST("/query", IdentityMiddleware(jwtSecret), queryHandler.Ask)

	// Storage-object-created notifications from the platform.
	router.POST("/events/storage", eventHandler.ObjectCreated)
}
