package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/anudeep652/bus-booking-system-sub001/internal/config"
)

// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

// GET /api/db-check
func DBCheck(c *gin.Context) {
	db := intconfig.DB
	if db == nil {
		RespondError(c, http.StatusServiceUnavailable, "db not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "db ping failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"db": "ok"})
}
