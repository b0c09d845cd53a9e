package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// VerifyPolarWebhookSignature checks a Polar webhook delivery against the
// shared secret. Polar follows the Standard Webhooks scheme: the signed
// content is "<webhook-id>.<webhook-timestamp>.<payload>", the signature
// header carries space-separated "v1,<base64 hmac-sha256>" entries, and the
// secret is base64 with a "whsec_" prefix.
func VerifyPolarWebhookSignature(payload []byte, webhookID, timestamp, signatureHeader, webhookSecret string) bool {
	id := strings.TrimSpace(webhookID)
	ts := strings.TrimSpace(timestamp)
	sigHeader := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if id == "" || ts == "" || sigHeader == "" || secret == "" {
		return false
	}

	key := decodeWebhookSecret(secret)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id + "." + ts + "."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, entry := range strings.Fields(sigHeader) {
		version, sig, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return true
		}
	}
	return false
}

// decodeWebhookSecret strips the "whsec_" prefix and base64-decodes the
// remainder. Secrets that do not decode are used as raw bytes so locally
// generated plain-text secrets still work in dev.
func decodeWebhookSecret(secret string) []byte {
	trimmed := strings.TrimPrefix(secret, "whsec_")
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
		return decoded
	}
	return []byte(trimmed)
}
