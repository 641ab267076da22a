package users

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/chesterOps/meetro/internal/gateway"
)

// PayoutService wires a host's bank account to a gateway transfer recipient
// so settled funds can later be disbursed to them.
type PayoutService struct {
	db      *gorm.DB
	gateway gateway.Gateway
}

func NewPayoutService(db *gorm.DB, gw gateway.Gateway) *PayoutService {
	return &PayoutService{db: db, gateway: gw}
}

type PayoutAccountInput struct {
	UserID        string
	AccountNumber string
	BankCode      string
}

type PayoutAccount struct {
	AccountNumber string
	AccountName   string
	BankCode      string
	RecipientCode string
}

// SetPayoutAccount resolves the account with the gateway (name lookup doubles
// as validation), creates a transfer recipient, and stores both on the user.
func (s *PayoutService) SetPayoutAccount(ctx context.Context, in PayoutAccountInput) (PayoutAccount, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", in.UserID).Error; err != nil {
		return PayoutAccount{}, err
	}

	resolved, err := s.gateway.ResolveBankAccount(ctx, in.AccountNumber, in.BankCode)
	if err != nil {
		return PayoutAccount{}, err
	}

	code, err := s.gateway.CreateTransferRecipient(ctx, gateway.RecipientInput{
		Name:          resolved.AccountName,
		AccountNumber: in.AccountNumber,
		BankCode:      in.BankCode,
		Currency:      "NGN",
	})
	if err != nil {
		return PayoutAccount{}, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"bank_code":      in.BankCode,
			"account_number": in.AccountNumber,
			"account_name":   resolved.AccountName,
			"recipient_code": code,
			"updated_at":     now,
		}).Error
	if err != nil {
		return PayoutAccount{}, err
	}

	return PayoutAccount{
		AccountNumber: in.AccountNumber,
		AccountName:   resolved.AccountName,
		BankCode:      in.BankCode,
		RecipientCode: code,
	}, nil
}

// ResolveAccount is a pass-through lookup used by the payout setup form.
func (s *PayoutService) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (gateway.ResolvedAccount, error) {
	return s.gateway.ResolveBankAccount(ctx, accountNumber, bankCode)
}
