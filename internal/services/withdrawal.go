package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"skyllor-miniapp-backend/internal/models"
)

// WithdrawalService validates and commits withdrawal requests. A withdrawal
// is accepted the moment validation passes; the Telegram notification that
// follows is fire-and-forget and a delivery failure never rolls it back.
type WithdrawalService struct {
	redisService *RedisService
	notifier     *TelegramNotifier
	broadcaster  Broadcaster
}

func NewWithdrawalService(redisService *RedisService, notifier *TelegramNotifier, broadcaster Broadcaster) *WithdrawalService {
	return &WithdrawalService{
		redisService: redisService,
		notifier:     notifier,
		broadcaster:  broadcaster,
	}
}

func (ws *WithdrawalService) RequestWithdrawal(ctx context.Context, userID int64, req *models.WithdrawalRequest) (*models.UserProfile, *models.WithdrawalRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid withdrawal: %v", err)
	}

	profile := ws.redisService.GetProfile(userID)

	record, err := profile.ApplyWithdrawal(req.Amount, req.Method, time.Now())
	if err != nil {
		return nil, nil, err
	}

	if err := ws.redisService.SaveProfile(profile); err != nil {
		log.Printf("Failed to persist withdrawal for user %d: %v", userID, err)
	}

	go func() {
		if err := ws.notifier.SendWithdrawalAlert(profile, record, req.Name, req.Address); err != nil {
			log.Printf("Failed to send withdrawal notification for user %d: %v", userID, err)
		}
	}()

	if ws.broadcaster != nil {
		ws.broadcaster.BroadcastProfile(userID, profile)
	}

	return profile, record, nil
}

func (ws *WithdrawalService) History(userID int64) []models.WithdrawalRecord {
	profile := ws.redisService.GetProfile(userID)
	return profile.WithdrawalHistory
}
