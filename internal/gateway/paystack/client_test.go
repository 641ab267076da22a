package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chesterOps/meetro/internal/config"
	"github.com/chesterOps/meetro/internal/gateway"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.PaystackConfig{
		SecretKey: "sk_test_secret",
		BaseURL:   srv.URL,
		Timeout:   5 * time.Second,
	})
}

func TestInitializeTransaction(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc123","access_code":"abc123","reference":"CHIP-IN_1_abc"}}`))
	})

	res, err := c.InitializeTransaction(context.Background(), gateway.InitializeInput{
		Email:            "guest@example.com",
		AmountMinorUnits: 515000,
		Reference:        "CHIP-IN_1_abc",
		CallbackURL:      "https://meetro.test/payments/callback",
		Metadata:         map[string]any{"payment_type": "chipin"},
	})
	if err != nil {
		t.Fatalf("InitializeTransaction: %v", err)
	}

	if res.AuthorizationURL != "https://checkout.paystack.com/abc123" {
		t.Errorf("authorization url = %q", res.AuthorizationURL)
	}
	if gotAuth != "Bearer sk_test_secret" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotBody["amount"] != float64(515000) {
		t.Errorf("amount sent = %v, want 515000", gotBody["amount"])
	}
	if gotBody["reference"] != "CHIP-IN_1_abc" {
		t.Errorf("reference sent = %v", gotBody["reference"])
	}
}

func TestVerifyTransaction(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/CHIP-IN_1_abc" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"reference":"CHIP-IN_1_abc","status":"success","amount":515000,"currency":"NGN","gateway_response":"Successful","metadata":{"payment_type":"chipin","event_id":"ev_1","user_id":"u_1"}}}`))
	})

	tx, err := c.VerifyTransaction(context.Background(), "CHIP-IN_1_abc")
	if err != nil {
		t.Fatalf("VerifyTransaction: %v", err)
	}
	if !tx.Succeeded() {
		t.Errorf("Succeeded() = false for status %q", tx.Status)
	}
	if tx.Amount != 515000 {
		t.Errorf("amount = %d", tx.Amount)
	}
	if tx.Metadata.PaymentType != "chipin" || tx.Metadata.EventID != "ev_1" {
		t.Errorf("metadata = %+v", tx.Metadata)
	}
}

func TestVerifyTransactionFailedCharge(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"reference":"CHIP-IN_1_abc","status":"abandoned","amount":515000,"currency":"NGN","metadata":""}}`))
	})

	tx, err := c.VerifyTransaction(context.Background(), "CHIP-IN_1_abc")
	if err != nil {
		t.Fatalf("VerifyTransaction: %v", err)
	}
	if tx.Succeeded() {
		t.Error("abandoned charge reported as succeeded")
	}
}

func TestCallSurfacesProviderError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	})

	_, err := c.VerifyTransaction(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error")
	}
	ge, ok := gateway.AsError(err)
	if !ok {
		t.Fatalf("err = %T, want *gateway.Error", err)
	}
	if ge.PublicMsg != "Transaction reference not found" {
		t.Errorf("public message = %q", ge.PublicMsg)
	}
}

func TestCallRejectsFalseEnvelopeOn200(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	})

	_, err := c.VerifyTransaction(context.Background(), "ref")
	if err == nil {
		t.Fatal("false envelope accepted")
	}
}

func TestListSettlements(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/settlement" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("status") != "success" {
			t.Errorf("status query = %q", q.Get("status"))
		}
		if q.Get("page") != "2" || q.Get("perPage") != "50" {
			t.Errorf("pagination query = page %s perPage %s", q.Get("page"), q.Get("perPage"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Settlements retrieved","data":[{"id":101,"status":"success","total_amount":900000},{"id":102,"status":"success","total_amount":120000}]}`))
	})

	list, err := c.ListSettlements(context.Background(), gateway.SettlementQuery{
		From:    time.Now().Add(-24 * time.Hour),
		Status:  "success",
		Page:    2,
		PerPage: 50,
	})
	if err != nil {
		t.Fatalf("ListSettlements: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("settlements = %d, want 2", len(list))
	}
	if list[0].ID != 101 || list[0].TotalAmount != 900000 {
		t.Errorf("settlement[0] = %+v", list[0])
	}
}

func TestListSettlementTransactions(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/settlement/101/transactions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Transactions retrieved","data":[{"reference":"CHIP-IN_1_abc","amount":515000,"status":"success"}]}`))
	})

	txns, err := c.ListSettlementTransactions(context.Background(), 101, 1, 100)
	if err != nil {
		t.Fatalf("ListSettlementTransactions: %v", err)
	}
	if len(txns) != 1 || txns[0].Reference != "CHIP-IN_1_abc" {
		t.Errorf("transactions = %+v", txns)
	}
}

func TestResolveBankAccount(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bank/resolve" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Account number resolved","data":{"account_number":"0001234567","account_name":"ADA OBI"}}`))
	})

	acct, err := c.ResolveBankAccount(context.Background(), "0001234567", "058")
	if err != nil {
		t.Fatalf("ResolveBankAccount: %v", err)
	}
	if acct.AccountName != "ADA OBI" {
		t.Errorf("account name = %q", acct.AccountName)
	}
}

func TestCreateTransferRecipient(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["type"] != "nuban" {
			t.Errorf("recipient type = %v, want nuban", body["type"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Transfer recipient created successfully","data":{"recipient_code":"RCP_abc123"}}`))
	})

	code, err := c.CreateTransferRecipient(context.Background(), gateway.RecipientInput{
		Name:          "ADA OBI",
		AccountNumber: "0001234567",
		BankCode:      "058",
		Currency:      "NGN",
	})
	if err != nil {
		t.Fatalf("CreateTransferRecipient: %v", err)
	}
	if code != "RCP_abc123" {
		t.Errorf("recipient code = %q", code)
	}
}
