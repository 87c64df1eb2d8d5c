package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var allowedHeaders = "Content-Type, " +
	"Content-Length, " +
	"Accept-Encoding, " +
	"Cache-Control, " +
	"X-Requested-With, " +
	"accept, origin, " +
	WalletHeader

// CorsMiddleware opens the read API to browser wallets. Only GET and POST
// routes exist, so nothing else is advertised.
func CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Expose-Headers", "X-Skipped-Markets")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// HealthInfo is reported verbatim by the health endpoint
type HealthInfo struct {
	Env       string `json:"environment"`
	Version   string `json:"version"`
	Cluster   string `json:"rpc_endpoint"`
	ProgramID string `json:"program_id"`
}

// HealthCheck returns the health status of the API
// @Summary Health Check
// @Description Check if the API is running and which program it reads
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/healthz [get]
func HealthCheck(info HealthInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "betsolana",
			"info":    info,
		})
	}
}
