package payments

import (
	"context"
	"log/slog"

	"github.com/chesterOps/meetro/internal/gateway"
	"github.com/chesterOps/meetro/internal/modules/donations"
	"github.com/chesterOps/meetro/internal/modules/email"
	"github.com/chesterOps/meetro/internal/shared/money"
)

// ChipInReceipt is the formatted view returned to the client that polls
// verify-payment after the checkout redirect.
type ChipInReceipt struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Fee       float64 `json:"fee"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`

	Event struct {
		Title      string  `json:"title"`
		Slug       string  `json:"slug"`
		CoverImage *string `json:"cover_image,omitempty"`
	} `json:"event"`

	Host struct {
		Name string `json:"name"`
	} `json:"host"`
}

type ChipInFlow struct {
	donations *donations.Service
	sender    email.Sender // nil disables receipt mail
	guestAddr func(ctx context.Context, userID string) (addr, name string, err error)
	logger    *slog.Logger
}

type GuestLookup func(ctx context.Context, userID string) (addr, name string, err error)

func NewChipInFlow(svc *donations.Service, sender email.Sender, guests GuestLookup) *ChipInFlow {
	return &ChipInFlow{
		donations: svc,
		sender:    sender,
		guestAddr: guests,
		logger:    slog.Default(),
	}
}

func (f *ChipInFlow) SetLogger(l *slog.Logger) { f.logger = l }

func (f *ChipInFlow) Type() string { return "chipin" }

func (f *ChipInFlow) Complete(ctx context.Context, tx gateway.VerifiedTransaction) (any, error) {
	d, transitioned, err := f.donations.CompleteFromExternalEvent(ctx, tx.Reference, tx.Amount, tx.GatewayResponse)
	if err != nil {
		return nil, err
	}

	if transitioned {
		f.sendReceipt(ctx, d)
	}

	return formatReceipt(d), nil
}

// sendReceipt is best-effort: a mail failure never fails the completion.
func (f *ChipInFlow) sendReceipt(ctx context.Context, d donations.Donation) {
	if f.sender == nil || f.guestAddr == nil {
		return
	}

	addr, name, err := f.guestAddr(ctx, d.UserID)
	if err != nil || addr == "" {
		f.logger.WarnContext(ctx, "chip-in receipt skipped, no guest address", "user_id", d.UserID, "err", err)
		return
	}

	in := email.ChipInReceiptInput{
		To:        addr,
		ToName:    name,
		Reference: deref(d.PaymentReference),
		Amount:    money.Format(d.Currency, d.Amount),
		Fee:       money.Format(d.Currency, d.Fee),
	}
	if d.Event != nil {
		in.EventName = d.Event.Title
		if d.Event.Host != nil {
			in.HostName = d.Event.Host.Name
		}
	}

	if err := email.SendChipInReceipt(ctx, f.sender, in); err != nil {
		f.logger.ErrorContext(ctx, "chip-in receipt send failed", "reference", in.Reference, "err", err)
	}
}

func formatReceipt(d donations.Donation) ChipInReceipt {
	out := ChipInReceipt{
		Reference: deref(d.PaymentReference),
		Amount:    d.Amount,
		Fee:       d.Fee,
		Currency:  d.Currency,
		Status:    d.Status,
	}
	if d.Event != nil {
		out.Event.Title = d.Event.Title
		out.Event.Slug = d.Event.Slug
		out.Event.CoverImage = d.Event.CoverImage
		if d.Event.Host != nil {
			out.Host.Name = d.Event.Host.Name
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
