package models

import "math/rand"

const wheelSegments = 7

// WheelResult is the animation the client should play. The resting segment
// is cosmetic; the reward does not depend on it.
type WheelResult struct {
	Segment    int     `json:"segment"`
	Rotations  float64 `json:"rotations"`
	DurationMS int     `json:"duration_ms"`
}

func NewWheelResult() WheelResult {
	return WheelResult{
		Segment:    rand.Intn(wheelSegments),
		Rotations:  5 + rand.Float64()*5,
		DurationMS: 3000,
	}
}

type SpinOutcome struct {
	Reward int64       `json:"reward"`
	Wheel  WheelResult `json:"wheel"`

	State             SpinState `json:"state"`
	CooldownRemaining int64     `json:"cooldown_remaining,omitempty"` // seconds

	SpinsToday     int   `json:"spins_today"`
	SpinsRemaining int   `json:"spins_remaining"`
	TotalSpins     int   `json:"total_spins"`
	Balance        int64 `json:"balance"`
}

type SpinStatus struct {
	State             SpinState `json:"state"`
	CooldownRemaining int64     `json:"cooldown_remaining,omitempty"` // seconds
	SpinsToday        int       `json:"spins_today"`
	SpinsRemaining    int       `json:"spins_remaining"`
}
