package users

import "time"

type User struct {
	ID           string  `gorm:"type:char(36);primaryKey"`
	Name         string  `gorm:"type:varchar(120);not null"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash []byte  `gorm:"type:varbinary(60);not null"`
	AvatarURL    *string `gorm:"type:varchar(512)"`

	// Payout account (set up once the host wants to receive disbursements)
	BankCode      *string `gorm:"type:varchar(16)"`
	AccountNumber *string `gorm:"type:varchar(32)"`
	AccountName   *string `gorm:"type:varchar(255)"`
	RecipientCode *string `gorm:"type:varchar(64)"`

	CreatedAt time.Time `gorm:"precision:3;not null"`
	UpdatedAt time.Time `gorm:"precision:3;not null"`
}

func (User) TableName() string { return "users" }
