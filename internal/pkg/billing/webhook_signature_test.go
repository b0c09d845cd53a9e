package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func signStandardWebhook(secret []byte, webhookID, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(webhookID + "." + timestamp + "."))
	mac.Write(payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyPolarWebhookSignature(t *testing.T) {
	rawSecret := []byte("polar-test-secret-material")
	secret := "whsec_" + base64.StdEncoding.EncodeToString(rawSecret)
	payload := []byte(`{"type":"subscription.active","data":{"id":"sub_1"}}`)
	webhookID := "msg_2abc"
	timestamp := "1756300000"

	valid := signStandardWebhook(rawSecret, webhookID, timestamp, payload)

	tests := []struct {
		name      string
		payload   []byte
		webhookID string
		timestamp string
		signature string
		secret    string
		want      bool
	}{
		{"valid signature", payload, webhookID, timestamp, valid, secret, true},
		{"multiple entries, one valid", payload, webhookID, timestamp, "v1,Zm9v " + valid, secret, true},
		{"tampered payload", []byte(`{"type":"subscription.revoked"}`), webhookID, timestamp, valid, secret, false},
		{"wrong webhook id", payload, "msg_other", timestamp, valid, secret, false},
		{"wrong timestamp", payload, webhookID, "1756399999", valid, secret, false},
		{"unknown version", payload, webhookID, timestamp, "v2," + valid[3:], secret, false},
		{"garbage signature", payload, webhookID, timestamp, "v1,not-base64!!", secret, false},
		{"empty signature header", payload, webhookID, timestamp, "", secret, false},
		{"empty secret", payload, webhookID, timestamp, valid, "", false},
	}

	for _, tt := range tests {
		got := VerifyPolarWebhookSignature(tt.payload, tt.webhookID, tt.timestamp, tt.signature, tt.secret)
		if got != tt.want {
			t.Fatalf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestVerifyPolarWebhookSignature_RawSecretFallback(t *testing.T) {
	// Secrets that are not valid base64 after the prefix are used as raw bytes.
	rawSecret := "plain secret with spaces!"
	payload := []byte(`{"type":"subscription.updated"}`)
	valid := signStandardWebhook([]byte(rawSecret), "msg_1", "1756300001", payload)

	if !VerifyPolarWebhookSignature(payload, "msg_1", "1756300001", valid, rawSecret) {
		t.Fatalf("expected raw secret fallback to verify")
	}
}
