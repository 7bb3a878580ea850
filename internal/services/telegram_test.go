package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"skyllor-miniapp-backend/internal/services"
)

func signInitData(values url.Values, botToken string) string {
	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidateInitData(t *testing.T) {
	botToken := "12345:test-bot-token"

	values := url.Values{}
	values.Set("auth_date", "1756500000")
	values.Set("query_id", "AAE1")
	values.Set("user", `{"id":987654,"username":"tester","first_name":"Test"}`)
	values.Set("hash", signInitData(values, botToken))

	user, err := services.ValidateInitData(values.Encode(), botToken)
	if err != nil {
		t.Fatalf("Valid init data rejected: %v", err)
	}

	if user.ID != 987654 {
		t.Errorf("Expected user ID 987654, got %d", user.ID)
	}
	if user.Username != "tester" {
		t.Errorf("Expected username tester, got %s", user.Username)
	}
}

func TestValidateInitDataRejectsTampering(t *testing.T) {
	botToken := "12345:test-bot-token"

	values := url.Values{}
	values.Set("auth_date", "1756500000")
	values.Set("user", `{"id":987654,"username":"tester","first_name":"Test"}`)
	values.Set("hash", signInitData(values, botToken))

	// Swap in a different user after signing.
	values.Set("user", `{"id":111,"username":"attacker","first_name":"X"}`)

	if _, err := services.ValidateInitData(values.Encode(), botToken); err == nil {
		t.Error("Tampered init data should be rejected")
	}
}

func TestValidateInitDataRejectsWrongToken(t *testing.T) {
	values := url.Values{}
	values.Set("auth_date", "1756500000")
	values.Set("user", `{"id":987654,"username":"tester","first_name":"Test"}`)
	values.Set("hash", signInitData(values, "12345:test-bot-token"))

	if _, err := services.ValidateInitData(values.Encode(), "99999:other-token"); err == nil {
		t.Error("Init data signed with another token should be rejected")
	}
}

func TestValidateInitDataRequiresHash(t *testing.T) {
	if _, err := services.ValidateInitData("auth_date=1&user=%7B%7D", "token"); err == nil {
		t.Error("Init data without a hash should be rejected")
	}
}
