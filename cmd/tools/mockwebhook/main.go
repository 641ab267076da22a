package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/chesterOps/meetro/internal/gateway/paystack"
)

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		ID              int64          `json:"id"`
		Reference       string         `json:"reference"`
		Amount          int64          `json:"amount"`
		Currency        string         `json:"currency"`
		Status          string         `json:"status"`
		GatewayResponse string         `json:"gateway_response"`
		Metadata        map[string]any `json:"metadata"`
	} `json:"data"`
}

func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/paystack", "Webhook URL")
	secret := flag.String("secret", os.Getenv("PAYSTACK_SECRET_KEY"), "Paystack secret key")
	event := flag.String("event", "charge.success", "Event type")
	reference := flag.String("reference", "", "Payment reference (required)")
	amount := flag.Int64("amount", 515000, "Amount in kobo (amount + fee)")
	paymentType := flag.String("payment-type", "chipin", "payment_type metadata field")
	eventID := flag.String("event-id", "", "event_id metadata field")
	dryRun := flag.Bool("dry-run", false, "Only print signature header, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and PAYSTACK_SECRET_KEY not set\n")
		os.Exit(1)
	}
	if *reference == "" {
		fmt.Fprintf(os.Stderr, "Error: -reference is required\n")
		os.Exit(1)
	}

	// Build payload
	payload := webhookPayload{Event: *event}
	payload.Data.ID = 1
	payload.Data.Reference = *reference
	payload.Data.Amount = *amount
	payload.Data.Currency = "NGN"
	payload.Data.Status = "success"
	payload.Data.GatewayResponse = "Successful"
	payload.Data.Metadata = map[string]any{
		"payment_type": *paymentType,
		"event_id":     *eventID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	sig := paystack.Signature(*secret, body)

	fmt.Printf("%s: %s\n", paystack.SignatureHeader, sig)
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	// Send webhook
	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest("POST", *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(paystack.SignatureHeader, sig)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
