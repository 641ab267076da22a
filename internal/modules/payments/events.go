package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GatewayEvent is an audit record of every webhook accepted past signature
// verification, raw payload included.
type GatewayEvent struct {
	ID        string         `gorm:"type:char(36);primaryKey"`
	Gateway   string         `gorm:"type:varchar(32);not null"`
	EventType string         `gorm:"type:varchar(64);not null"`
	Reference string         `gorm:"type:varchar(64);not null;index:ix_gateway_events_reference"`
	Payload   datatypes.JSON `gorm:"type:json;not null"`

	ReceivedAt   time.Time  `gorm:"precision:3;not null"`
	ProcessedAt  *time.Time `gorm:"precision:3"`
	ProcessError *string    `gorm:"type:varchar(255)"`
}

func (GatewayEvent) TableName() string { return "gateway_events" }

type EventLog struct {
	db *gorm.DB
}

func NewEventLog(db *gorm.DB) *EventLog {
	return &EventLog{db: db}
}

func (l *EventLog) Record(ctx context.Context, gatewayName, eventType, reference string, payload []byte) (GatewayEvent, error) {
	ev := GatewayEvent{
		ID:         uuid.NewString(),
		Gateway:    gatewayName,
		EventType:  eventType,
		Reference:  reference,
		Payload:    datatypes.JSON(payload),
		ReceivedAt: time.Now(),
	}
	if err := l.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return GatewayEvent{}, err
	}
	return ev, nil
}

func (l *EventLog) MarkProcessed(ctx context.Context, id string) error {
	now := time.Now()
	return l.db.WithContext(ctx).Model(&GatewayEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{"processed_at": &now, "process_error": nil}).Error
}

func (l *EventLog) MarkFailed(ctx context.Context, id string, msg string) error {
	return l.db.WithContext(ctx).Model(&GatewayEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{"process_error": truncate(msg, 250)}).Error
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
