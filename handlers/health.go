package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck returns the health status of the service. It never touches a
// provider client, so it reports 200 even when AWS is unreachable.
//
// @Summary      API health check
// @Tags         health
// @Produce      json
// @Success      200 {object} handlers.HealthResponse
// @Router       /healthcheck! [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "up"})
}
