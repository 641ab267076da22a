package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chesterOps/meetro/internal/config"
	"github.com/chesterOps/meetro/internal/gateway"
)

const gatewayName = "paystack"

type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

func NewClient(cfg config.PaystackConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		secret:  cfg.SecretKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return gatewayName }

// Secret exposes the webhook signing secret (same key signs API calls).
func (c *Client) Secret() string { return c.secret }

func (c *Client) InitializeTransaction(ctx context.Context, in gateway.InitializeInput) (gateway.InitializeResult, error) {
	body := map[string]any{
		"email":        in.Email,
		"amount":       in.AmountMinorUnits,
		"reference":    in.Reference,
		"callback_url": in.CallbackURL,
		"metadata":     in.Metadata,
	}

	var data initializeData
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return gateway.InitializeResult{}, err
	}
	return gateway.InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
	}, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (gateway.VerifiedTransaction, error) {
	var data transactionData
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return gateway.VerifiedTransaction{}, err
	}
	return gateway.VerifiedTransaction{
		Reference:       data.Reference,
		Status:          data.Status,
		Amount:          data.Amount,
		Currency:        data.Currency,
		GatewayResponse: data.GatewayResponse,
		PaidAt:          data.PaidAt,
		Metadata: gateway.TransactionMetadata{
			PaymentType: data.Metadata.PaymentType,
			EventID:     data.Metadata.EventID,
			UserID:      data.Metadata.UserID,
		},
	}, nil
}

func (c *Client) ListSettlements(ctx context.Context, q gateway.SettlementQuery) ([]gateway.Settlement, error) {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if !q.From.IsZero() {
		v.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("perPage", strconv.Itoa(q.PerPage))

	var data []settlementData
	if err := c.call(ctx, http.MethodGet, "/settlement?"+v.Encode(), nil, &data); err != nil {
		return nil, err
	}

	out := make([]gateway.Settlement, len(data))
	for i, s := range data {
		out[i] = gateway.Settlement{
			ID:          s.ID,
			Status:      s.Status,
			TotalAmount: s.TotalAmount,
			SettledAt:   s.SettledDate,
		}
	}
	return out, nil
}

func (c *Client) ListSettlementTransactions(ctx context.Context, settlementID int64, page, perPage int) ([]gateway.SettlementTransaction, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("perPage", strconv.Itoa(perPage))
	path := fmt.Sprintf("/settlement/%d/transactions?%s", settlementID, v.Encode())

	var data []settlementTxnData
	if err := c.call(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}

	out := make([]gateway.SettlementTransaction, len(data))
	for i, t := range data {
		out[i] = gateway.SettlementTransaction{
			Reference: t.Reference,
			Amount:    t.Amount,
			Status:    t.Status,
		}
	}
	return out, nil
}

func (c *Client) ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (gateway.ResolvedAccount, error) {
	v := url.Values{}
	v.Set("account_number", accountNumber)
	v.Set("bank_code", bankCode)

	var data resolveData
	if err := c.call(ctx, http.MethodGet, "/bank/resolve?"+v.Encode(), nil, &data); err != nil {
		return gateway.ResolvedAccount{}, err
	}
	return gateway.ResolvedAccount{
		AccountNumber: data.AccountNumber,
		AccountName:   data.AccountName,
	}, nil
}

func (c *Client) CreateTransferRecipient(ctx context.Context, in gateway.RecipientInput) (string, error) {
	body := map[string]any{
		"type":           "nuban",
		"name":           in.Name,
		"account_number": in.AccountNumber,
		"bank_code":      in.BankCode,
		"currency":       in.Currency,
	}

	var data recipientData
	if err := c.call(ctx, http.MethodPost, "/transferrecipient", body, &data); err != nil {
		return "", err
	}
	return data.RecipientCode, nil
}

// call performs one authenticated request and decodes the envelope. A false
// envelope status or a non-2xx response becomes a *gateway.Error carrying the
// provider's message.
func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &gateway.Error{Op: path, Err: err}
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return &gateway.Error{Op: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &gateway.Error{Op: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &gateway.Error{Op: path, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &gateway.Error{Op: path, Err: fmt.Errorf("decode envelope (http %d): %w", resp.StatusCode, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return &gateway.Error{
			Op:        path,
			PublicMsg: env.Message,
			Err:       fmt.Errorf("paystack responded %d: %s", resp.StatusCode, env.Message),
		}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &gateway.Error{Op: path, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}
