package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"skyllor-miniapp-backend/internal/models"
)

var (
	ErrDailyLimitReached = errors.New("daily spin limit reached")
	ErrCooldownActive    = errors.New("spin cooldown active")
	ErrSpinInProgress    = errors.New("spin already in progress")
)

// SpinEngine owns the spin/cooldown state machine. Eligibility precedence
// and the reward math live on the profile model; the engine adds the
// per-user busy guard, the best-effort ad step, persistence, and push.
type SpinEngine struct {
	redisService *RedisService
	adService    *AdService
	broadcaster  Broadcaster

	mu       sync.Mutex
	spinning map[int64]bool
}

func NewSpinEngine(redisService *RedisService, adService *AdService, broadcaster Broadcaster) *SpinEngine {
	return &SpinEngine{
		redisService: redisService,
		adService:    adService,
		broadcaster:  broadcaster,
		spinning:     make(map[int64]bool),
	}
}

// Status reports the current spin eligibility without mutating anything
// except lazily clearing an elapsed cooldown.
func (se *SpinEngine) Status(userID int64) *models.SpinStatus {
	profile := se.redisService.GetProfile(userID)

	state, remaining := profile.Eligibility(time.Now())
	if se.isSpinning(userID) {
		state = models.SpinStateSpinning
	}

	return &models.SpinStatus{
		State:             state,
		CooldownRemaining: int64(remaining.Seconds()),
		SpinsToday:        profile.SpinsToday,
		SpinsRemaining:    models.DailySpinLimit - profile.SpinsToday,
	}
}

// Spin runs one full spin: eligibility check, ad step, reward application,
// persistence, push. Re-entrant calls for the same user are rejected while
// one is in flight.
func (se *SpinEngine) Spin(ctx context.Context, userID int64) (*models.SpinOutcome, error) {
	if !se.beginSpin(userID) {
		return nil, ErrSpinInProgress
	}
	defer se.endSpin(userID)

	profile := se.redisService.GetProfile(userID)

	now := time.Now()
	state, _ := profile.Eligibility(now)
	switch state {
	case models.SpinStateDailyLimit:
		return nil, ErrDailyLimitReached
	case models.SpinStateCooldown:
		return nil, ErrCooldownActive
	}

	// Ad failure never blocks the reward.
	if err := se.adService.ConfirmRewardedAd(ctx, userID); err != nil {
		log.Printf("Ad failed to load for user %d, spinning anyway: %v", userID, err)
	}

	wheel := models.NewWheelResult()
	reward := profile.ApplySpin(now)

	if err := se.redisService.SaveProfile(profile); err != nil {
		log.Printf("Failed to persist spin for user %d: %v", userID, err)
	}

	state, remaining := profile.Eligibility(now)

	outcome := &models.SpinOutcome{
		Reward:            reward,
		Wheel:             wheel,
		State:             state,
		CooldownRemaining: int64(remaining.Seconds()),
		SpinsToday:        profile.SpinsToday,
		SpinsRemaining:    models.DailySpinLimit - profile.SpinsToday,
		TotalSpins:        profile.TotalSpins,
		Balance:           profile.Balance,
	}

	if se.broadcaster != nil {
		se.broadcaster.BroadcastSpinResult(userID, outcome)
		se.broadcaster.BroadcastProfile(userID, profile)
	}

	return outcome, nil
}

func (se *SpinEngine) beginSpin(userID int64) bool {
	se.mu.Lock()
	defer se.mu.Unlock()

	if se.spinning[userID] {
		return false
	}
	se.spinning[userID] = true
	return true
}

func (se *SpinEngine) endSpin(userID int64) {
	se.mu.Lock()
	defer se.mu.Unlock()
	delete(se.spinning, userID)
}

func (se *SpinEngine) isSpinning(userID int64) bool {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.spinning[userID]
}
