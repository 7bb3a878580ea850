package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skyllor-miniapp-backend/internal/models"
	"skyllor-miniapp-backend/internal/services"
)

type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
}

func NewWithdrawalHandler(withdrawalService *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	profile, record, err := h.withdrawalService.RequestWithdrawal(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBelowMinimumWithdrawal):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Minimum withdrawal amount is 375 Sky!"})
		case errors.Is(err, models.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance!"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Failed to request withdrawal",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Withdrawal request submitted successfully!",
		"withdrawal": record,
		"balance": gin.H{
			"balance":         profile.Balance,
			"total_withdrawn": profile.TotalWithdrawn,
		},
	})
}

func (h *WithdrawalHandler) GetHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")

	history := h.withdrawalService.History(userID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
	})
}
