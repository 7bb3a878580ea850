package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"skyllor-miniapp-backend/internal/config"
	"skyllor-miniapp-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	service := &RedisService{
		client: client,
		ctx:    ctx,
	}

	return service, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// GetProfile loads the user's profile blob. It never fails the caller:
// a missing key, unreachable storage, or corrupt data all fall back to an
// all-defaults profile. Stored JSON is decoded over the defaults, so records
// written by older builds keep defaults for fields they predate. Day
// rollover is normalized here and written back.
func (s *RedisService) GetProfile(userID int64) *models.UserProfile {
	now := time.Now()
	profile := models.NewUserProfile(userID, now)

	key := fmt.Sprintf(KeyProfile, userID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return profile
	}
	if err != nil {
		log.Printf("Failed to read profile %d, using defaults: %v", userID, err)
		return profile
	}

	if err := json.Unmarshal([]byte(data), profile); err != nil {
		log.Printf("Corrupt profile %d, using defaults: %v", userID, err)
		return models.NewUserProfile(userID, now)
	}
	profile.UserID = userID

	if profile.ApplyDailyReset(now) {
		if err := s.SaveProfile(profile); err != nil {
			log.Printf("Failed to persist daily reset for %d: %v", userID, err)
		}
	}

	return profile
}

// SaveProfile overwrites the full profile blob. No TTL: the record lives as
// long as the user does.
func (s *RedisService) SaveProfile(profile *models.UserProfile) error {
	key := fmt.Sprintf(KeyProfile, profile.UserID)

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %v", err)
	}

	return s.client.Set(s.ctx, key, data, 0).Err()
}

func (s *RedisService) DeleteProfile(userID int64) error {
	key := fmt.Sprintf(KeyProfile, userID)
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisService) StoreUserSession(session *models.UserSession, expiry time.Duration) error {
	key := fmt.Sprintf(KeyUserSession, session.ID, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, expiry).Err()
}

func (s *RedisService) GetUserSession(userID int64, sessionID string) (*models.UserSession, error) {
	key := fmt.Sprintf(KeyUserSession, userID, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var session models.UserSession
	err = json.Unmarshal([]byte(data), &session)
	if err != nil {
		return nil, err
	}

	session.LastAccessed = time.Now()
	updatedData, _ := json.Marshal(session)
	s.client.Set(s.ctx, key, updatedData, TTLUserSession)

	return &session, nil
}

func (s *RedisService) DeleteUserSession(userID int64, sessionID string) error {
	key := fmt.Sprintf(KeyUserSession, userID, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

// RecordReferralStart remembers who referred a user, first writer wins.
// Nothing credits from it yet; crediting rules are not defined.
func (s *RedisService) RecordReferralStart(userID, referrerID int64) (bool, error) {
	key := fmt.Sprintf(KeyReferredBy, userID)
	return s.client.SetNX(s.ctx, key, referrerID, 0).Result()
}

func (s *RedisService) GetReferrer(userID int64) (int64, error) {
	key := fmt.Sprintf(KeyReferredBy, userID)
	return s.client.Get(s.ctx, key).Int64()
}

func (s *RedisService) CheckRateLimit(userID int64, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) ClearRateLimit(userID int64, action string) error {
	key := fmt.Sprintf(KeyRateLimit, userID, action)
	return s.client.Del(s.ctx, key).Err()
}
