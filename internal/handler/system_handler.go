package handler

import (
	"context"
	"net/http"
	"time"

	"crowdsight/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const Version = "1.0.0"

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the banner, health and fallback routes
type SystemHandler struct {
	db     Pinger
	logger *logrus.Logger
}

func NewSystemHandler(db Pinger, logger *logrus.Logger) *SystemHandler {
	return &SystemHandler{db: db, logger: logger}
}

func (h *SystemHandler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "CrowdSight API",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
}

func (h *SystemHandler) NotFound(c *gin.Context) {
	utils.AbortWithError(c, http.StatusNotFound, utils.CodeNotFound, "Route "+c.Request.Method+" "+c.Request.URL.Path+" not found")
}
