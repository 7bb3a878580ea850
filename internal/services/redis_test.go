package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"skyllor-miniapp-backend/internal/config"
	"skyllor-miniapp-backend/internal/models"
	"skyllor-miniapp-backend/internal/services"

	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) *services.RedisService {
	cfg := &config.Config{
		RedisURL:  "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return redisService
}

func TestProfileStore(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999901)
	redisService.DeleteProfile(userID)

	profile := redisService.GetProfile(userID)
	if profile.UserID != userID {
		t.Errorf("Expected user ID %d, got %d", userID, profile.UserID)
	}
	if profile.Balance != 0 || profile.SpinsToday != 0 || profile.TotalSpins != 0 {
		t.Error("Fresh profile should have zeroed counters")
	}
	if profile.LastResetDate != models.DayKey(time.Now()) {
		t.Errorf("Fresh profile should be stamped with today, got %s", profile.LastResetDate)
	}

	profile.ApplySpin(time.Now())
	if err := redisService.SaveProfile(profile); err != nil {
		t.Fatalf("Failed to save profile: %v", err)
	}

	loaded := redisService.GetProfile(userID)
	if loaded.Balance != 25 || loaded.SpinsToday != 1 || loaded.TotalSpins != 1 {
		t.Errorf("Round-trip mismatch: balance=%d spinsToday=%d totalSpins=%d",
			loaded.Balance, loaded.SpinsToday, loaded.TotalSpins)
	}

	redisService.DeleteProfile(userID)
}

func TestProfileDailyResetOnLoad(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999902)
	redisService.DeleteProfile(userID)

	yesterday := time.Now().AddDate(0, 0, -1)
	profile := models.NewUserProfile(userID, yesterday)
	for i := 0; i < 5; i++ {
		profile.ApplySpin(yesterday)
	}
	profile.LastResetDate = models.DayKey(yesterday)

	if err := redisService.SaveProfile(profile); err != nil {
		t.Fatalf("Failed to save profile: %v", err)
	}

	loaded := redisService.GetProfile(userID)
	if loaded.SpinsToday != 0 {
		t.Errorf("Expected spinsToday reset on load, got %d", loaded.SpinsToday)
	}
	if loaded.SpinCooldown != nil {
		t.Error("Expected cooldown cleared on load")
	}
	if loaded.TotalSpins != 5 || loaded.Balance != 125 {
		t.Errorf("Lifetime counters should survive the reset: %d/%d",
			loaded.TotalSpins, loaded.Balance)
	}

	// The normalized record is written back.
	again := redisService.GetProfile(userID)
	if again.LastResetDate != models.DayKey(time.Now()) {
		t.Errorf("Reset should be persisted, got date %s", again.LastResetDate)
	}

	redisService.DeleteProfile(userID)
}

func TestProfileCorruptDataFallsBackToDefaults(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	ctx := context.Background()
	userID := int64(999906)
	key := fmt.Sprintf("profile:%d", userID)

	if err := client.Set(ctx, key, "{not json at all", 0).Err(); err != nil {
		t.Fatalf("Failed to plant corrupt record: %v", err)
	}

	profile := redisService.GetProfile(userID)
	if profile.UserID != userID {
		t.Errorf("Expected user ID %d, got %d", userID, profile.UserID)
	}
	if profile.Balance != 0 || profile.SpinsToday != 0 || profile.TotalSpins != 0 {
		t.Error("Corrupt record should yield an all-defaults profile")
	}
	if profile.LastResetDate != models.DayKey(time.Now()) {
		t.Errorf("Defaults profile should be stamped with today, got %s", profile.LastResetDate)
	}

	// A record that fails decoding partway through must not leak the
	// fields parsed before the failure.
	if err := client.Set(ctx, key, `{"balance":100,"spins_today":"oops"}`, 0).Err(); err != nil {
		t.Fatalf("Failed to plant mistyped record: %v", err)
	}

	profile = redisService.GetProfile(userID)
	if profile.Balance != 0 {
		t.Errorf("Partially decoded record should be discarded, balance is %d", profile.Balance)
	}

	redisService.DeleteProfile(userID)
}

func TestUserSessions(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999903)
	sessionID := models.GenerateSessionID()

	session := &models.UserSession{
		ID:        userID,
		SessionID: sessionID,
		TelegramUser: &models.TelegramUser{
			ID:        userID,
			Username:  "tester",
			FirstName: "Test",
		},
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}

	if err := redisService.StoreUserSession(session, time.Minute); err != nil {
		t.Fatalf("Failed to store session: %v", err)
	}

	loaded, err := redisService.GetUserSession(userID, sessionID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if loaded.TelegramUser.Username != "tester" {
		t.Errorf("Session user mismatch: %s", loaded.TelegramUser.Username)
	}

	if err := redisService.DeleteUserSession(userID, sessionID); err != nil {
		t.Errorf("Failed to delete session: %v", err)
	}

	if _, err := redisService.GetUserSession(userID, sessionID); err == nil {
		t.Error("Deleted session should not be retrievable")
	}
}

func TestReferralStart(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999904)

	first, err := redisService.RecordReferralStart(userID, 111)
	if err != nil {
		t.Fatalf("Failed to record referral: %v", err)
	}
	if !first {
		t.Error("First referral record should win")
	}

	// A later referrer does not overwrite the first.
	first, err = redisService.RecordReferralStart(userID, 222)
	if err != nil {
		t.Fatalf("Failed to record second referral: %v", err)
	}
	if first {
		t.Error("Second referral record should be ignored")
	}

	referrer, err := redisService.GetReferrer(userID)
	if err != nil {
		t.Fatalf("Failed to get referrer: %v", err)
	}
	if referrer != 111 {
		t.Errorf("Expected referrer 111, got %d", referrer)
	}
}

func TestRateLimit(t *testing.T) {
	redisService := setupTestRedis(t)
	defer redisService.Close()

	userID := int64(999905)
	redisService.ClearRateLimit(userID, "spin")

	for i := 0; i < 3; i++ {
		allowed, err := redisService.CheckRateLimit(userID, "spin", 3, time.Minute)
		if err != nil {
			t.Fatalf("Rate limit check failed: %v", err)
		}
		if !allowed {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	allowed, err := redisService.CheckRateLimit(userID, "spin", 3, time.Minute)
	if err != nil {
		t.Fatalf("Rate limit check failed: %v", err)
	}
	if allowed {
		t.Error("Fourth request should exceed the limit")
	}

	redisService.ClearRateLimit(userID, "spin")
}
