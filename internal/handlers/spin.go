package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skyllor-miniapp-backend/internal/services"
)

type SpinHandler struct {
	spinEngine *services.SpinEngine
}

func NewSpinHandler(spinEngine *services.SpinEngine) *SpinHandler {
	return &SpinHandler{
		spinEngine: spinEngine,
	}
}

func (h *SpinHandler) GetStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")

	status := h.spinEngine.Status(userID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  status,
	})
}

func (h *SpinHandler) Spin(c *gin.Context) {
	userID := c.GetInt64("user_id")

	outcome, err := h.spinEngine.Spin(c.Request.Context(), userID)
	if err != nil {
		status := h.spinEngine.Status(userID)

		switch {
		case errors.Is(err, services.ErrDailyLimitReached):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Daily Limit Reached",
				"status": status,
			})
		case errors.Is(err, services.ErrCooldownActive):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Cooldown Active",
				"status": status,
			})
		case errors.Is(err, services.ErrSpinInProgress):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Spin already in progress",
				"status": status,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to spin",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Congratulations! You earned 25 Sky!",
		"outcome": outcome,
	})
}
