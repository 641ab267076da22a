package donations

import (
	"time"

	"github.com/chesterOps/meetro/internal/modules/events"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
	StatusFailed    = "failed"
)

const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
	PayoutFailed  = "failed"
)

const Currency = "NGN"

// refundWindow: a completed donation may only be refunded this long after it
// was created.
const refundWindow = 30 * 24 * time.Hour

type Donation struct {
	ID      string `gorm:"type:char(36);primaryKey"`
	EventID string `gorm:"type:char(36);not null;index:ix_donations_event_id"`
	UserID  string `gorm:"type:char(36);not null;index:ix_donations_user_id"`

	// Assigned when the gateway transaction is initialized; unique once set.
	PaymentReference *string `gorm:"type:varchar(64);uniqueIndex:ux_donations_payment_reference"`

	Amount   float64 `gorm:"type:decimal(12,2);not null"`
	Fee      float64 `gorm:"type:decimal(12,2);not null"`
	Currency string  `gorm:"type:char(3);not null;default:'NGN'"`

	Status       string `gorm:"type:varchar(16);not null;default:'pending'"`
	PayoutStatus string `gorm:"type:varchar(16);not null;default:'pending'"`

	IsPayoutEligible bool       `gorm:"not null;default:false"`
	SettledAt        *time.Time `gorm:"precision:3"`

	// Gateway metadata, written once by the completion transition.
	TransactionID   *string `gorm:"type:varchar(64)"`
	Gateway         *string `gorm:"type:varchar(32)"`
	GatewayResponse *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"precision:3;not null"`
	UpdatedAt time.Time `gorm:"precision:3;not null"`

	Event *events.Event `gorm:"foreignKey:EventID"`
}

func (Donation) TableName() string { return "donations" }

func (d Donation) Completed() bool { return d.Status == StatusCompleted }

// RefundEligible reports whether a refund may still be issued. This is a
// read-side predicate; it does not drive any transition here.
func (d Donation) RefundEligible(now time.Time) bool {
	return d.Status == StatusCompleted && now.Sub(d.CreatedAt) <= refundWindow
}
