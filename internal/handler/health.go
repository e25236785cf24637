package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and the deployment's fixed choices.
type HealthHandler struct {
	fareModel    string
	storeBackend string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(fareModel, storeBackend string) *HealthHandler {
	return &HealthHandler{fareModel: fareModel, storeBackend: storeBackend}
}

// Health handles GET /health and GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"fareModel": h.fareModel,
		"store":     h.storeBackend,
	})
}
