package models

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateWithdrawalID() string {
	return fmt.Sprintf("wd_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateSessionID() string {
	return uuid.New().String()
}

// GenerateFallbackUserID produces a random user id for sessions that arrive
// without Telegram init data, such as the app opened outside Telegram.
func GenerateFallbackUserID() int64 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano() % 1000000
	}
	return int64(binary.BigEndian.Uint32(b[:]) % 1000000)
}
