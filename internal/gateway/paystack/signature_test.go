package paystack

import (
	"errors"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"CHIP-IN_1_abc"}}`)
	sig := Signature(secret, body)

	if !VerifySignature(secret, body, sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(secret, body, "") {
		t.Error("empty header accepted")
	}
	if VerifySignature(secret, body, sig+"00") {
		t.Error("tampered header accepted")
	}
	if VerifySignature("sk_other_secret", body, sig) {
		t.Error("signature for a different secret accepted")
	}

	// The signature covers exact bytes; a single-byte change must fail.
	mutated := append([]byte(nil), body...)
	mutated[0] = ' '
	if VerifySignature(secret, mutated, sig) {
		t.Error("signature accepted for mutated body")
	}
}

func TestParseWebhook(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"CHIP-IN_1_abc","status":"success","amount":515000,"metadata":{"payment_type":"chipin","event_id":"ev_1"}}}`)

	ev, err := ParseWebhook(secret, body, Signature(secret, body))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if ev.Event != "charge.success" {
		t.Errorf("event = %q", ev.Event)
	}
	if ev.Data.Reference != "CHIP-IN_1_abc" {
		t.Errorf("reference = %q", ev.Data.Reference)
	}
	if ev.Data.Amount != 515000 {
		t.Errorf("amount = %d", ev.Data.Amount)
	}
	if ev.Data.PaymentType() != "chipin" {
		t.Errorf("payment type = %q", ev.Data.PaymentType())
	}
}

func TestParseWebhookBadSignature(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{}}`)
	_, err := ParseWebhook("sk_test_secret", body, "deadbeef")
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestParseWebhookToleratesOddMetadata(t *testing.T) {
	secret := "sk_test_secret"

	// Legacy transactions can carry metadata as an empty string or null.
	for _, raw := range []string{`""`, `null`, `"free text"`} {
		body := []byte(`{"event":"charge.success","data":{"reference":"r1","metadata":` + raw + `}}`)
		ev, err := ParseWebhook(secret, body, Signature(secret, body))
		if err != nil {
			t.Errorf("metadata %s: %v", raw, err)
			continue
		}
		if ev.Data.PaymentType() != "" {
			t.Errorf("metadata %s: payment type = %q, want empty", raw, ev.Data.PaymentType())
		}
	}
}
