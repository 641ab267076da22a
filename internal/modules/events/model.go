package events

import (
	"time"

	"github.com/chesterOps/meetro/internal/modules/users"
)

type Event struct {
	ID          string  `gorm:"type:char(36);primaryKey"`
	HostID      string  `gorm:"type:char(36);not null;index:ix_events_host_id"`
	Title       string  `gorm:"type:varchar(255);not null"`
	Slug        string  `gorm:"type:varchar(255);not null;uniqueIndex:ux_events_slug"`
	Description string  `gorm:"type:text"`
	CoverImage  *string `gorm:"type:varchar(512)"`

	StartsAt *time.Time `gorm:"precision:3"`
	EndsAt   *time.Time `gorm:"precision:3"`

	IsPrivate bool `gorm:"not null;default:false"`

	// Chip-in settings; only private events can collect chip-ins.
	ChipInEnabled bool    `gorm:"not null;default:false"`
	ChipInTarget  float64 `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedAt time.Time `gorm:"precision:3;not null"`
	UpdatedAt time.Time `gorm:"precision:3;not null"`

	Host *users.User `gorm:"foreignKey:HostID"`
}

func (Event) TableName() string { return "events" }

// AcceptsChipIns reports whether a guest may chip in toward this event.
func (e Event) AcceptsChipIns() bool {
	return e.IsPrivate && e.ChipInEnabled
}
