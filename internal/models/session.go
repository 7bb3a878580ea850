package models

import "time"

// TelegramUser mirrors the `user` field of Telegram WebApp init data.
type TelegramUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type UserSession struct {
	ID           int64         `json:"id" redis:"id"`
	SessionID    string        `json:"session_id" redis:"session_id"`
	TelegramUser *TelegramUser `json:"telegram_user" redis:"telegram_user"`
	CreatedAt    time.Time     `json:"created_at" redis:"created_at"`
	LastAccessed time.Time     `json:"last_accessed" redis:"last_accessed"`
}
