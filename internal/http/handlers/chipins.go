package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chesterOps/meetro/internal/gateway"
	"github.com/chesterOps/meetro/internal/http/middleware"
	"github.com/chesterOps/meetro/internal/http/validation"
	"github.com/chesterOps/meetro/internal/modules/donations"
	"github.com/chesterOps/meetro/internal/modules/events"
	"github.com/chesterOps/meetro/internal/modules/payments"
	"github.com/chesterOps/meetro/internal/shared/apperr"
)

type ChipInHandler struct {
	Logger    *slog.Logger
	Donations *donations.Service
	Events    *events.Repo
	Gateway   gateway.Gateway
	Flows     *payments.Registry
}

func NewChipInHandler(logger *slog.Logger, svc *donations.Service, eventsRepo *events.Repo, gw gateway.Gateway, flows *payments.Registry) *ChipInHandler {
	return &ChipInHandler{Logger: logger, Donations: svc, Events: eventsRepo, Gateway: gw, Flows: flows}
}

type chipInInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	// Email is required for guests without a session; the gateway checkout
	// needs an address to attach the charge to.
	Email string `json:"email" binding:"omitempty,email"`
}

// POST /api/events/:slug/chipins
func (h *ChipInHandler) Create(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var in chipInInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Invalid chip-in request.", errs))
		return
	}

	email := u.Email
	if email == "" {
		email = in.Email
	}
	if email == "" {
		middleware.Fail(c, apperr.InvalidErr("Invalid chip-in request.", map[string]string{
			"email": "An email address is required.",
		}))
		return
	}

	ev, err := h.Events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		failMapped(c, err)
		return
	}

	res, err := h.Donations.InitiateChipIn(c.Request.Context(), donations.InitiateChipInInput{
		EventID: ev.ID,
		UserID:  u.ID,
		Email:   email,
		Amount:  in.Amount,
	})
	if err != nil {
		failMapped(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reference":         res.Reference,
		"authorization_url": res.AuthorizationURL,
		"amount":            res.Donation.Amount,
		"fee":               res.Donation.Fee,
		"currency":          res.Donation.Currency,
	})
}

// GET /api/payments/verify?reference=...
//
// Called by the client after the gateway checkout redirect. Converges on the
// same completion primitive as the webhook; if the webhook won the race this
// just returns the already-completed record.
func (h *ChipInHandler) Verify(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		middleware.Fail(c, apperr.InvalidErr("reference is required", nil))
		return
	}

	tx, err := h.Gateway.VerifyTransaction(c.Request.Context(), reference)
	if err != nil {
		failMapped(c, err)
		return
	}
	if !tx.Succeeded() {
		middleware.Fail(c, apperr.InvalidErr("Payment was not successful.", nil))
		return
	}

	receipt, err := h.Flows.Complete(c.Request.Context(), tx)
	if err != nil {
		failMapped(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": receipt})
}
