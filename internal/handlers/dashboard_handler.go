package handler

import (
	"net/http"

	"business-finance-backend/internal/middleware"
	"business-finance-backend/internal/services/analytics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	engine *analytics.Engine
	logger *logrus.Logger
}

func NewDashboardHandler(engine *analytics.Engine, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{engine: engine, logger: logger}
}

// GetAnalytics returns the full dashboard snapshot. A failure in any metric
// fails the whole request; no partial snapshot leaves this handler.
func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	snapshot, err := h.engine.BuildSnapshot(userID(c))
	if err != nil {
		h.logger.WithError(err).Error("dashboard snapshot failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// userID reads the authenticated user set by the auth middleware.
func userID(c *gin.Context) uuid.UUID {
	return middleware.UserID(c)
}
