package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/chesterOps/meetro/internal/gateway"
	"github.com/chesterOps/meetro/internal/http/middleware"
	"github.com/chesterOps/meetro/internal/modules/donations"
	"github.com/chesterOps/meetro/internal/modules/events"
	"github.com/chesterOps/meetro/internal/modules/payments"
	"github.com/chesterOps/meetro/internal/modules/users"
	"github.com/chesterOps/meetro/internal/shared/apperr"
)

// failMapped pushes a domain error through the error-handler middleware with
// the right apperr kind. Unrecognized errors fall back to a generic 500.
func failMapped(c *gin.Context, err error) {
	middleware.Fail(c, mapDomainError(err))
}

func mapDomainError(err error) error {
	switch {
	case errors.Is(err, donations.ErrNotFound):
		return apperr.NotFoundErr("Donation not found.")
	case errors.Is(err, donations.ErrAmountMismatch):
		return apperr.InvalidErr("Paid amount does not match the expected amount.", nil)
	case errors.Is(err, donations.ErrInvalidAmount):
		return apperr.InvalidErr("Amount must be greater than zero.", nil)
	case errors.Is(err, donations.ErrChipInClosed):
		return apperr.InvalidErr("This event does not accept chip-ins.", nil)
	case errors.Is(err, events.ErrNotFound):
		return apperr.NotFoundErr("Event not found.")
	case errors.Is(err, users.ErrNotFound):
		return apperr.NotFoundErr("User not found.")
	case errors.Is(err, users.ErrEmailTaken):
		return apperr.ConflictErr("This email is already registered.")
	case errors.Is(err, users.ErrInvalidCredentials):
		return apperr.UnauthorizedErr("Invalid email or password.")
	case errors.Is(err, payments.ErrUnknownPaymentType):
		return apperr.InvalidErr("Unsupported payment type.", nil)
	}

	if ge, ok := gateway.AsError(err); ok {
		return apperr.GatewayErr(ge.PublicMsg, err)
	}
	return apperr.Wrap(err)
}
