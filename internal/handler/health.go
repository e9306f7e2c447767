package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service and whether the resolution index is loaded
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "healthy", "index_ready": false}
	if h.index != nil {
		if snap, err := h.index.Current(); err == nil {
			body["index_ready"] = true
			body["index_generated_at"] = snap.GeneratedAt
		}
	}
	c.JSON(http.StatusOK, body)
}
