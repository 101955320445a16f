package handler

import (
	"net/http"

	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{Message: "Hello world"})
}
