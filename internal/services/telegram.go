package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"skyllor-miniapp-backend/internal/config"
	"skyllor-miniapp-backend/internal/models"
)

// TelegramNotifier delivers withdrawal notifications to the operators' chat
// via the Bot API. Delivery is best-effort: the caller decides what to do
// with a failure, and nothing here retries.
type TelegramNotifier struct {
	APIBase string

	botToken string
	chatID   string
	client   *http.Client
}

func NewTelegramNotifier(cfg *config.Config) *TelegramNotifier {
	return &TelegramNotifier{
		APIBase:  "https://api.telegram.org",
		botToken: cfg.BotToken,
		chatID:   cfg.WithdrawalChatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

func (n *TelegramNotifier) SendWithdrawalAlert(profile *models.UserProfile, record *models.WithdrawalRecord, name, address string) error {
	if n.botToken == "" || n.chatID == "" {
		return fmt.Errorf("telegram notifier not configured")
	}

	text := fmt.Sprintf(`🔔 New Withdrawal Request

👤 Name: %s
🆔 User ID: %d
💰 Amount: %d Sky
💳 Method: %s
📍 Address: %s
🎯 Earned from Spin: %d Sky
👥 Earned from Referrals: 0 Sky

⏰ Date: %s`,
		name,
		profile.UserID,
		record.Amount,
		record.Method,
		address,
		profile.EarnedFromSpins(),
		time.Now().Format("1/2/2006, 3:04:05 PM"))

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %v", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.APIBase, n.botToken)

	resp, err := n.client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send to Telegram: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// ValidateInitData checks a Telegram WebApp initData string against the bot
// token per the WebApp auth algorithm and returns the embedded user.
func ValidateInitData(initData, botToken string) (*models.TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("malformed init data: %v", err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, fmt.Errorf("init data has no hash")
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(gotHash), []byte(wantHash)) {
		return nil, fmt.Errorf("init data hash mismatch")
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, fmt.Errorf("init data has no user")
	}

	var user models.TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("failed to parse init data user: %v", err)
	}

	return &user, nil
}
