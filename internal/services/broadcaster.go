package services

import "skyllor-miniapp-backend/internal/models"

// Broadcaster pushes state changes to connected clients. The websocket
// handler implements it; services stay free of transport imports.
type Broadcaster interface {
	BroadcastProfile(userID int64, profile *models.UserProfile)
	BroadcastSpinResult(userID int64, outcome *models.SpinOutcome)
}
