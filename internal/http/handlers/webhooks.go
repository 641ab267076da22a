package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chesterOps/meetro/internal/gateway"
	"github.com/chesterOps/meetro/internal/gateway/paystack"
	"github.com/chesterOps/meetro/internal/http/middleware"
	"github.com/chesterOps/meetro/internal/modules/donations"
	"github.com/chesterOps/meetro/internal/modules/payments"
)

type WebhookHandler struct {
	Logger  *slog.Logger
	Gateway gateway.Gateway
	Secret  string
	Flows   *payments.Registry
	Events  *payments.EventLog
}

func NewWebhookHandler(logger *slog.Logger, gw gateway.Gateway, secret string, flows *payments.Registry, events *payments.EventLog) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Gateway: gw, Secret: secret, Flows: flows, Events: events}
}

// POST /webhooks/paystack
//
// Signature and business-validation failures answer 400 so the gateway stops
// redelivering; anything that fails after the payload was accepted answers
// 500 so the gateway retries with backoff.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	// The signature covers the exact bytes as received; never a re-encode.
	ev, err := paystack.ParseWebhook(h.Secret, body, c.GetHeader(paystack.SignatureHeader))
	if err != nil {
		// No detail about why: signature failures stay opaque.
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid signature or payload"})
		return
	}

	if ev.Event != "charge.success" {
		h.Logger.Info("webhook event ignored", "event", ev.Event,
			"request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unsupported event"})
		return
	}

	ctx := c.Request.Context()

	logged, err := h.Events.Record(ctx, h.Gateway.Name(), ev.Event, ev.Data.Reference, body)
	if err != nil {
		h.Logger.Error("webhook audit record failed", "reference", ev.Data.Reference, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}

	// Never trust the webhook body's amount or status; re-verify with the
	// gateway before acting.
	tx, err := h.Gateway.VerifyTransaction(ctx, ev.Data.Reference)
	if err != nil {
		h.Logger.Error("webhook verify failed", "reference", ev.Data.Reference, "err", err)
		_ = h.Events.MarkFailed(ctx, logged.ID, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}
	if !tx.Succeeded() {
		_ = h.Events.MarkFailed(ctx, logged.ID, "transaction not successful on verify")
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "transaction not successful"})
		return
	}

	if _, err := h.Flows.Complete(ctx, tx); err != nil {
		_ = h.Events.MarkFailed(ctx, logged.ID, err.Error())

		if isWebhookRejection(err) {
			h.Logger.Warn("webhook rejected", "reference", tx.Reference, "err", err)
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "rejected"})
			return
		}

		// 500 => gateway retries
		h.Logger.Error("webhook apply failed", "reference", tx.Reference, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}

	if err := h.Events.MarkProcessed(ctx, logged.ID); err != nil {
		h.Logger.Error("webhook audit update failed", "reference", tx.Reference, "err", err)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// isWebhookRejection separates terminal business-validation failures (do not
// redeliver) from transient processing failures (please redeliver).
func isWebhookRejection(err error) bool {
	return errors.Is(err, payments.ErrUnknownPaymentType) ||
		errors.Is(err, donations.ErrNotFound) ||
		errors.Is(err, donations.ErrAmountMismatch)
}
