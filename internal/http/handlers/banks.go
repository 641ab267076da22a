package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chesterOps/meetro/internal/http/middleware"
	"github.com/chesterOps/meetro/internal/http/validation"
	"github.com/chesterOps/meetro/internal/modules/users"
	"github.com/chesterOps/meetro/internal/shared/apperr"
)

type PayoutHandler struct {
	Logger  *slog.Logger
	Payouts *users.PayoutService
}

func NewPayoutHandler(logger *slog.Logger, payouts *users.PayoutService) *PayoutHandler {
	return &PayoutHandler{Logger: logger, Payouts: payouts}
}

// GET /api/banks/resolve?account_number=...&bank_code=...
func (h *PayoutHandler) ResolveAccount(c *gin.Context) {
	accountNumber := c.Query("account_number")
	bankCode := c.Query("bank_code")
	if accountNumber == "" || bankCode == "" {
		middleware.Fail(c, apperr.InvalidErr("account_number and bank_code are required", nil))
		return
	}

	resolved, err := h.Payouts.ResolveAccount(c.Request.Context(), accountNumber, bankCode)
	if err != nil {
		failMapped(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_number": resolved.AccountNumber,
		"account_name":   resolved.AccountName,
	})
}

type payoutAccountInput struct {
	AccountNumber string `json:"account_number" binding:"required,len=10,numeric"`
	BankCode      string `json:"bank_code" binding:"required,min=3,max=10"`
}

// POST /api/me/payout-account
func (h *PayoutHandler) SetPayoutAccount(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("authentication required"))
		return
	}

	var in payoutAccountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Invalid payout account data.", errs))
		return
	}

	acct, err := h.Payouts.SetPayoutAccount(c.Request.Context(), users.PayoutAccountInput{
		UserID:        u.ID,
		AccountNumber: in.AccountNumber,
		BankCode:      in.BankCode,
	})
	if err != nil {
		failMapped(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_number": acct.AccountNumber,
		"account_name":   acct.AccountName,
		"bank_code":      acct.BankCode,
	})
}
