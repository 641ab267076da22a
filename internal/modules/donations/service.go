package donations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chesterOps/meetro/internal/gateway"
	"github.com/chesterOps/meetro/internal/modules/events"
)

// Service owns the donation lifecycle: pending on initiation, completed by
// exactly one of the two external completion signals, payout fields evolved
// later by the reconciliation job.
type Service struct {
	repo        *Repo
	events      *events.Repo
	gateway     gateway.Gateway
	fees        FeeCalculator
	frontendURL string
	logger      *slog.Logger
}

func NewService(repo *Repo, eventsRepo *events.Repo, gw gateway.Gateway, fees FeeCalculator, frontendURL string) *Service {
	return &Service{
		repo:        repo,
		events:      eventsRepo,
		gateway:     gw,
		fees:        fees,
		frontendURL: frontendURL,
		logger:      slog.Default(),
	}
}

func (s *Service) SetLogger(l *slog.Logger) { s.logger = l }

type InitiateChipInInput struct {
	EventID string
	UserID  string
	Email   string
	Amount  float64
}

type InitiateChipInResult struct {
	Donation         Donation
	AuthorizationURL string
	Reference        string
}

// InitiateChipIn creates a pending donation with a freshly minted reference
// and starts the gateway transaction. The fee is computed exactly once, here,
// and never recomputed.
func (s *Service) InitiateChipIn(ctx context.Context, in InitiateChipInInput) (InitiateChipInResult, error) {
	if in.Amount <= 0 {
		return InitiateChipInResult{}, ErrInvalidAmount
	}

	ev, err := s.events.GetByID(ctx, in.EventID)
	if err != nil {
		return InitiateChipInResult{}, err
	}
	if !ev.AcceptsChipIns() {
		return InitiateChipInResult{}, ErrChipInClosed
	}

	fee := s.fees.Calculate(in.Amount)
	reference := newReference()
	now := time.Now()

	d := Donation{
		ID:               uuid.NewString(),
		EventID:          ev.ID,
		UserID:           in.UserID,
		PaymentReference: &reference,
		Amount:           in.Amount,
		Fee:              fee,
		Currency:         Currency,
		Status:           StatusPending,
		PayoutStatus:     PayoutPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, &d); err != nil {
		return InitiateChipInResult{}, err
	}

	res, err := s.gateway.InitializeTransaction(ctx, gateway.InitializeInput{
		Email:            in.Email,
		AmountMinorUnits: MinorUnits(in.Amount + fee),
		Reference:        reference,
		CallbackURL:      strings.TrimRight(s.frontendURL, "/") + "/payments/callback",
		Metadata: map[string]any{
			"payment_type": "chipin",
			"event_id":     ev.ID,
			"user_id":      in.UserID,
		},
	})
	if err != nil {
		// The gateway never saw a payable transaction; park the record.
		if merr := s.repo.MarkFailed(ctx, reference, "initialize failed"); merr != nil {
			s.logger.ErrorContext(ctx, "failed to mark donation failed after initialize error",
				"reference", reference, "err", merr)
		}
		return InitiateChipInResult{}, err
	}

	s.logger.InfoContext(ctx, "chip-in initiated",
		"reference", reference, "event_id", ev.ID, "amount", in.Amount, "fee", fee)

	return InitiateChipInResult{
		Donation:         d,
		AuthorizationURL: res.AuthorizationURL,
		Reference:        reference,
	}, nil
}

// CompleteFromExternalEvent is the single idempotent completion primitive both
// the webhook and the verify-payment path converge on. Correctness does not
// depend on which caller arrives first, or whether they arrive concurrently.
// The bool reports whether this call performed the transition; a redelivery or
// race loser gets the completed record and false.
func (s *Service) CompleteFromExternalEvent(ctx context.Context, reference string, verifiedAmount int64, gatewayResponse string) (Donation, bool, error) {
	d, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return Donation{}, false, err
	}

	// Already completed: redelivered webhook or the race loser. No-op.
	if d.Completed() {
		d, err = s.repo.FindByReferenceWithEvent(ctx, reference)
		return d, false, err
	}

	expected := MinorUnits(d.Amount + d.Fee)
	if verifiedAmount != expected {
		s.logger.WarnContext(ctx, "chip-in amount mismatch",
			"reference", reference, "verified", verifiedAmount, "expected", expected)
		return Donation{}, false, ErrAmountMismatch
	}

	rows, err := s.repo.Complete(ctx, reference, CompletionMeta{
		TransactionID:   reference,
		Gateway:         s.gateway.Name(),
		GatewayResponse: gatewayResponse,
	})
	if err != nil {
		return Donation{}, false, err
	}
	if rows == 0 {
		// Lost the race to the other entry point; the donation is completed
		// either way, so fall through and return the current record.
		s.logger.InfoContext(ctx, "chip-in completion raced, already applied", "reference", reference)
	} else {
		s.logger.InfoContext(ctx, "chip-in completed", "reference", reference, "amount", d.Amount)
	}

	d, err = s.repo.FindByReferenceWithEvent(ctx, reference)
	return d, rows > 0, err
}

// GetByReference returns the donation with event and host populated.
func (s *Service) GetByReference(ctx context.Context, reference string) (Donation, error) {
	return s.repo.FindByReferenceWithEvent(ctx, reference)
}

func newReference() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return fmt.Sprintf("CHIP-IN_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
