package donations

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, d *Donation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *Repo) FindByReference(ctx context.Context, reference string) (Donation, error) {
	var d Donation
	err := r.db.WithContext(ctx).First(&d, "payment_reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Donation{}, ErrNotFound
	}
	return d, err
}

// FindByReferenceWithEvent loads the donation together with its event and the
// event's host, enough for receipt formatting.
func (r *Repo) FindByReferenceWithEvent(ctx context.Context, reference string) (Donation, error) {
	var d Donation
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Event.Host").
		First(&d, "payment_reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Donation{}, ErrNotFound
	}
	return d, err
}

type CompletionMeta struct {
	TransactionID   string
	Gateway         string
	GatewayResponse string
}

// Complete flips a donation to completed in a single conditional write. The
// guard on status closes the race between the webhook and the verify path:
// whichever caller loses sees zero rows affected and must treat that as the
// idempotent no-op case, not an error.
func (r *Repo) Complete(ctx context.Context, reference string, meta CompletionMeta) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Donation{}).
		Where("payment_reference = ? AND status = ?", reference, StatusPending).
		Updates(map[string]any{
			"status":           StatusCompleted,
			"transaction_id":   meta.TransactionID,
			"gateway":          meta.Gateway,
			"gateway_response": meta.GatewayResponse,
			"updated_at":       time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *Repo) MarkFailed(ctx context.Context, reference string, reason string) error {
	return r.db.WithContext(ctx).Model(&Donation{}).
		Where("payment_reference = ? AND status = ?", reference, StatusPending).
		Updates(map[string]any{
			"status":           StatusFailed,
			"gateway_response": reason,
			"updated_at":       time.Now(),
		}).Error
}

// FindSettleable returns the donations in the reference set that a settlement
// may mark payout-eligible. The filter is deliberately narrow: only donations
// already confirmed completed, never pending ones, and never ones already
// marked, which makes reconciliation a no-op under re-runs.
func (r *Repo) FindSettleable(ctx context.Context, references []string, gatewayName string) ([]Donation, error) {
	if len(references) == 0 {
		return nil, nil
	}
	var out []Donation
	err := r.db.WithContext(ctx).
		Where("payment_reference IN ?", references).
		Where("gateway = ?", gatewayName).
		Where("status = ?", StatusCompleted).
		Where("is_payout_eligible = ?", false).
		Where("payout_status = ?", PayoutPending).
		Find(&out).Error
	return out, err
}

// MarkPayoutEligible is a single batched write per page of matches.
func (r *Repo) MarkPayoutEligible(ctx context.Context, ids []string, settledAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&Donation{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"is_payout_eligible": true,
			"settled_at":         settledAt,
			"updated_at":         time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *Repo) ListByEvent(ctx context.Context, eventID string) ([]Donation, error) {
	var out []Donation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&out, "event_id = ?", eventID).Error
	return out, err
}
