package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"skyllor-miniapp-backend/internal/models"
	"skyllor-miniapp-backend/internal/services"
)

type AuthHandler struct {
	redisService *services.RedisService
	jwtService   *services.JWTService
	botToken     string
	devMode      bool
}

func NewAuthHandler(redisService *services.RedisService, jwtService *services.JWTService, botToken string, devMode bool) *AuthHandler {
	return &AuthHandler{
		redisService: redisService,
		jwtService:   jwtService,
		botToken:     botToken,
		devMode:      devMode,
	}
}

// Authenticate validates Telegram WebApp init data and issues a session
// token. Outside production, requests without init data get a randomly
// generated guest identity so the app still works in a plain browser.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	initData := c.Query("initData")

	var tgUser *models.TelegramUser

	if initData == "" {
		if !h.devMode {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "initData required"})
			return
		}
		tgUser = &models.TelegramUser{
			ID:        models.GenerateFallbackUserID(),
			Username:  "User",
			FirstName: "User",
		}
	} else {
		user, err := services.ValidateInitData(initData, h.botToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid init data", "details": err.Error()})
			return
		}
		tgUser = user
	}

	// Referral tracking stub: the incoming start parameter is recorded and
	// logged, but no credit is computed yet.
	if start := c.Query("start"); start != "" {
		if referrerID, err := strconv.ParseInt(start, 10, 64); err == nil && referrerID != tgUser.ID {
			if first, err := h.redisService.RecordReferralStart(tgUser.ID, referrerID); err != nil {
				log.Printf("Failed to record referral start for %d: %v", tgUser.ID, err)
			} else if first {
				log.Printf("User %d referred by %d", tgUser.ID, referrerID)
			}
		}
	}

	profile := h.redisService.GetProfile(tgUser.ID)
	if tgUser.Username != "" {
		profile.Username = tgUser.Username
	}
	if tgUser.FirstName != "" {
		profile.FirstName = tgUser.FirstName
	}
	if err := h.redisService.SaveProfile(profile); err != nil {
		log.Printf("Failed to save profile for user %d: %v", tgUser.ID, err)
	}

	session := &models.UserSession{
		ID:           tgUser.ID,
		SessionID:    models.GenerateSessionID(),
		TelegramUser: tgUser,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}

	if err := h.redisService.StoreUserSession(session, services.TTLUserSession); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	token, err := h.jwtService.GenerateToken(tgUser.ID, session.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  tgUser,
	})
}
