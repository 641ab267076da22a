package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// SignatureHeader is the header Paystack signs webhook deliveries with.
const SignatureHeader = "x-paystack-signature"

var ErrBadSignature = errors.New("paystack: webhook signature mismatch")

// Signature computes the HMAC-SHA512 hex digest Paystack uses for webhooks.
func Signature(secret string, body []byte) string {
	m := hmac.New(sha512.New, []byte(secret))
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}

// VerifySignature checks the signature header against the exact raw request
// bytes. The body must be the bytes as received, never a re-serialization:
// any re-encode can differ byte-for-byte from what the provider signed.
func VerifySignature(secret string, body []byte, header string) bool {
	if header == "" {
		return false
	}
	want := Signature(secret, body)
	return hmac.Equal([]byte(want), []byte(header))
}

// ParseWebhook verifies the signature and decodes the event payload.
func ParseWebhook(secret string, body []byte, header string) (WebhookEvent, error) {
	if !VerifySignature(secret, body, header) {
		return WebhookEvent{}, ErrBadSignature
	}
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return WebhookEvent{}, err
	}
	if ev.Event == "" {
		return WebhookEvent{}, errors.New("paystack: missing event field")
	}
	return ev, nil
}
