package paystack

import (
	"encoding/json"
	"time"
)

// Every Paystack response is wrapped in the same envelope; Data is decoded
// per endpoint after the envelope status has been checked.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type transactionData struct {
	Reference       string     `json:"reference"`
	Status          string     `json:"status"`
	Amount          int64      `json:"amount"`
	Currency        string     `json:"currency"`
	GatewayResponse string     `json:"gateway_response"`
	PaidAt          *time.Time `json:"paid_at"`
	Metadata        metadata   `json:"metadata"`
}

// metadata arrives as an object on normal transactions but can be an empty
// string or null on legacy ones, so it needs a tolerant decoder.
type metadata struct {
	PaymentType string `json:"payment_type"`
	EventID     string `json:"event_id"`
	UserID      string `json:"user_id"`
}

func (m *metadata) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		return nil
	}
	type alias metadata
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		// a string or other shape we don't understand; treat as absent
		return nil
	}
	*m = metadata(a)
	return nil
}

type settlementData struct {
	ID          int64      `json:"id"`
	Status      string     `json:"status"`
	TotalAmount int64      `json:"total_amount"`
	SettledDate *time.Time `json:"settlement_date"`
}

type settlementTxnData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

type resolveData struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

type recipientData struct {
	RecipientCode string `json:"recipient_code"`
}

// WebhookEvent is the push payload Paystack delivers to the webhook endpoint.
type WebhookEvent struct {
	Event string          `json:"event"`
	Data  WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	Reference       string   `json:"reference"`
	Status          string   `json:"status"`
	Amount          int64    `json:"amount"`
	GatewayResponse string   `json:"gateway_response"`
	Metadata        metadata `json:"metadata"`
}

// PaymentType exposes the metadata payment type carried on the event.
func (d WebhookEventData) PaymentType() string { return d.Metadata.PaymentType }
