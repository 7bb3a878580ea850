package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"skyllor-miniapp-backend/internal/config"
)

// AdService confirms the pre-spin rewarded-ad view with the ad provider.
// The whole call is best-effort: every error path is the caller's cue to
// proceed with the spin anyway.
type AdService struct {
	endpoint string
	client   *http.Client
}

func NewAdService(cfg *config.Config) *AdService {
	return &AdService{
		endpoint: cfg.AdEndpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (a *AdService) ConfirmRewardedAd(ctx context.Context, userID int64) error {
	if a.endpoint == "" {
		return nil
	}

	url := fmt.Sprintf("%s?user_id=%d", a.endpoint, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build ad request: %v", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("ad confirmation failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ad provider returned status %d", resp.StatusCode)
	}

	return nil
}
