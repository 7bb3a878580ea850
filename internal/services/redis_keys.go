package services

import "time"

const (
	KeyProfile     = "profile:%d"
	KeyUserSession = "user:%d:session:%s"
	KeyReferredBy  = "referral:%d:referred_by"
	KeyRateLimit   = "ratelimit:%d:%s"

	TTLUserSession = 24 * time.Hour

	DefaultRateLimitSpins       = 20 // Max 20 spin attempts per minute
	DefaultRateLimitWithdrawals = 5  // Max 5 withdrawal requests per minute
)
