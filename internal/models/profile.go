package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	SpinReward       = 25
	DailySpinLimit   = 15
	SpinsPerCooldown = 5
	CooldownDuration = time.Hour

	MinWithdrawalAmount = 375
)

var (
	ErrBelowMinimumWithdrawal = errors.New("minimum withdrawal amount is 375 Sky")
	ErrInsufficientBalance    = errors.New("insufficient balance")
)

// SpinState is the spin button's state as seen by the client.
type SpinState string

const (
	SpinStateIdle       SpinState = "idle"
	SpinStateDailyLimit SpinState = "daily_limit_reached"
	SpinStateCooldown   SpinState = "cooldown_active"
	SpinStateSpinning   SpinState = "spinning"
)

type WithdrawalStatus string

// Withdrawals are committed synchronously, so only one status exists.
const WithdrawalStatusPaid WithdrawalStatus = "paid"

type WithdrawalMethod string

const (
	WithdrawalMethodBinance WithdrawalMethod = "binance"
	WithdrawalMethodPayeer  WithdrawalMethod = "payeer"
	WithdrawalMethodUSDT    WithdrawalMethod = "usdt"
)

type WithdrawalRecord struct {
	ID        string           `json:"id" redis:"id"`
	Date      string           `json:"date" redis:"date"`
	Amount    int64            `json:"amount" redis:"amount"`
	Method    WithdrawalMethod `json:"method" redis:"method"`
	Status    WithdrawalStatus `json:"status" redis:"status"`
	CreatedAt int64            `json:"created_at" redis:"created_at"`
}

// UserProfile is the single per-user record everything operates on. It is
// stored as one JSON blob; unknown stored fields are dropped and missing
// ones keep their defaults, so old records survive schema additions.
type UserProfile struct {
	UserID    int64  `json:"user_id" redis:"user_id"`
	Username  string `json:"username" redis:"username"`
	FirstName string `json:"first_name" redis:"first_name"`

	SpinsToday     int   `json:"spins_today" redis:"spins_today"`
	TotalSpins     int   `json:"total_spins" redis:"total_spins"`
	Balance        int64 `json:"balance" redis:"balance"`
	TotalWithdrawn int64 `json:"total_withdrawn" redis:"total_withdrawn"`
	Referrals      int   `json:"referrals" redis:"referrals"`

	SpinCooldown      *time.Time         `json:"spin_cooldown,omitempty" redis:"spin_cooldown"`
	WithdrawalHistory []WithdrawalRecord `json:"withdrawal_history" redis:"withdrawal_history"`
	LastResetDate     string             `json:"last_reset_date" redis:"last_reset_date"`

	CreatedAt int64 `json:"created_at" redis:"created_at"`
	UpdatedAt int64 `json:"updated_at" redis:"updated_at"`
}

// DayKey is the calendar-date string used for daily-reset comparison.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func NewUserProfile(userID int64, now time.Time) *UserProfile {
	return &UserProfile{
		UserID:            userID,
		Username:          "User",
		FirstName:         "User",
		WithdrawalHistory: []WithdrawalRecord{},
		LastResetDate:     DayKey(now),
		CreatedAt:         now.Unix(),
		UpdatedAt:         now.Unix(),
	}
}

// ApplyDailyReset normalizes the profile on day rollover: the daily spin
// count goes back to zero and any cooldown is discarded. Lifetime counters
// are untouched. Returns true if the profile changed.
func (p *UserProfile) ApplyDailyReset(now time.Time) bool {
	today := DayKey(now)
	if p.LastResetDate == today {
		return false
	}

	p.SpinsToday = 0
	p.SpinCooldown = nil
	p.LastResetDate = today
	p.UpdatedAt = now.Unix()
	return true
}

// Eligibility evaluates the spin state machine. Precedence: daily cap, then
// cooldown, then idle. An elapsed cooldown is cleared here rather than
// eagerly when it expires. The second return value is the time left on an
// active cooldown, zero otherwise.
func (p *UserProfile) Eligibility(now time.Time) (SpinState, time.Duration) {
	if p.SpinsToday >= DailySpinLimit {
		return SpinStateDailyLimit, 0
	}

	if p.SpinCooldown != nil {
		if remaining := p.SpinCooldown.Sub(now); remaining > 0 {
			return SpinStateCooldown, remaining
		}
		p.SpinCooldown = nil
	}

	return SpinStateIdle, 0
}

// ApplySpin applies a completed spin's effects and returns the reward
// granted. Callers must have checked Eligibility first; ApplySpin does not
// re-check. Every fifth spin of the day starts a one-hour cooldown unless
// the daily cap was just reached.
func (p *UserProfile) ApplySpin(now time.Time) int64 {
	p.SpinsToday++
	p.TotalSpins++
	p.Balance += SpinReward

	if p.SpinsToday%SpinsPerCooldown == 0 && p.SpinsToday < DailySpinLimit {
		until := now.Add(CooldownDuration)
		p.SpinCooldown = &until
	}

	p.UpdatedAt = now.Unix()
	return SpinReward
}

// ApplyWithdrawal validates a withdrawal against the minimum-amount and
// balance rules and, if valid, debits the balance and appends a history
// record. A rejected withdrawal mutates nothing.
func (p *UserProfile) ApplyWithdrawal(amount int64, method WithdrawalMethod, now time.Time) (*WithdrawalRecord, error) {
	if amount < MinWithdrawalAmount {
		return nil, ErrBelowMinimumWithdrawal
	}
	if amount > p.Balance {
		return nil, ErrInsufficientBalance
	}

	record := WithdrawalRecord{
		ID:        GenerateWithdrawalID(),
		Date:      now.Format("01/02/2006"),
		Amount:    amount,
		Method:    method,
		Status:    WithdrawalStatusPaid,
		CreatedAt: now.Unix(),
	}

	p.Balance -= amount
	p.TotalWithdrawn += amount
	p.WithdrawalHistory = append(p.WithdrawalHistory, record)
	p.UpdatedAt = now.Unix()

	return &record, nil
}

// EarnedFromSpins is the derived lifetime-earnings figure quoted in
// withdrawal notifications.
func (p *UserProfile) EarnedFromSpins() int64 {
	return int64(p.TotalSpins) * 10
}

// ReferralLink is the deep link the user shares to refer others.
func (p *UserProfile) ReferralLink(botUsername string) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", botUsername, p.UserID)
}
