package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error wraps any failure coming back from the payment provider. PublicMsg
// carries the provider's own message when one was returned.
type Error struct {
	Op        string
	PublicMsg string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, e.PublicMsg)
}

func (e *Error) Unwrap() error { return e.Err }

func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

type InitializeInput struct {
	Email            string
	AmountMinorUnits int64
	Reference        string
	CallbackURL      string
	Metadata         map[string]any
}

type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
}

// VerifiedTransaction is the provider's authoritative view of a transaction.
// Amount is in the provider's minor currency unit (kobo for NGN).
type VerifiedTransaction struct {
	Reference       string
	Status          string // "success", "failed", "abandoned", ...
	Amount          int64
	Currency        string
	GatewayResponse string
	PaidAt          *time.Time
	Metadata        TransactionMetadata
}

func (t VerifiedTransaction) Succeeded() bool { return t.Status == "success" }

type TransactionMetadata struct {
	PaymentType string
	EventID     string
	UserID      string
}

type Settlement struct {
	ID          int64
	Status      string
	TotalAmount int64
	SettledAt   *time.Time
}

type SettlementTransaction struct {
	Reference string
	Amount    int64
	Status    string
}

type SettlementQuery struct {
	From    time.Time
	Status  string
	Page    int
	PerPage int
}

type ResolvedAccount struct {
	AccountNumber string
	AccountName   string
}

type RecipientInput struct {
	Name          string
	AccountNumber string
	BankCode      string
	Currency      string
}

// Gateway is the outbound contract to the payment provider. All calls are
// blocking HTTP with a fixed request timeout; failures come back as *Error.
type Gateway interface {
	Name() string
	InitializeTransaction(ctx context.Context, in InitializeInput) (InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (VerifiedTransaction, error)
	ListSettlements(ctx context.Context, q SettlementQuery) ([]Settlement, error)
	ListSettlementTransactions(ctx context.Context, settlementID int64, page, perPage int) ([]SettlementTransaction, error)
	ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (ResolvedAccount, error)
	CreateTransferRecipient(ctx context.Context, in RecipientInput) (string, error)
}
