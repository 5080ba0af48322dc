package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/constants"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// PaymentConfirmer is implemented by *services.PaymentService.
type PaymentConfirmer interface {
	ConfirmExternalPayment(ctx context.Context, c dtos.PaymentConfirmation) (*dtos.PaymentStatusResponse, error)
}

type StripeWebhookController struct {
	secret    string
	confirmer PaymentConfirmer
}

func NewStripeWebhookController(secret string, confirmer PaymentConfirmer) *StripeWebhookController {
	return &StripeWebhookController{secret: secret, confirmer: confirmer}
}

// WebhookHandler -> POST /api/v1/payments/stripe/webhook
func (c *StripeWebhookController) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing Stripe-Signature header", nil)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to read webhook body", nil, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, c.secret)
	if err != nil {
		utils.Logger.WithError(err).Error("Stripe webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			utils.Logger.WithError(err).Error("Could not parse payment intent in payment_intent.succeeded")
			break
		}
		if err := c.handlePaymentIntentSucceeded(r.Context(), &pi); err != nil {
			// Validation and lookup failures will not improve on redelivery.
			var appErr *utils.AppError
			if errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError {
				utils.Logger.WithError(err).Warnf("Ignoring payment intent %s", pi.ID)
				break
			}
			utils.Logger.WithError(err).Errorf("Failed to confirm payment intent %s", pi.ID)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		utils.Logger.Infof("Unhandled Stripe event type received: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

func (c *StripeWebhookController) handlePaymentIntentSucceeded(ctx context.Context, pi *stripe.PaymentIntent) error {
	tenantID, err := uuid.Parse(pi.Metadata[constants.StripeMetadataTenantID])
	if err != nil {
		return utils.NewValidationError("Payment intent has no valid tenant_id metadata.")
	}
	conf := dtos.PaymentConfirmation{
		TenantID:  tenantID,
		Amount:    decimal.New(pi.AmountReceived, -2),
		Reference: pi.ID,
		PayerName: pi.Metadata[constants.StripeMetadataPayerName],
	}
	if raw := pi.Metadata[constants.StripeMetadataBillingMonthID]; raw != "" {
		bmID, err := uuid.Parse(raw)
		if err != nil {
			return utils.NewValidationError("Payment intent has an invalid billing_month_id.")
		}
		conf.BillingMonthID = &bmID
	}
	if pi.Created > 0 {
		conf.OccurredAt = time.Unix(pi.Created, 0).UTC()
	}

	resp, err := c.confirmer.ConfirmExternalPayment(ctx, conf)
	if err != nil {
		return err
	}
	utils.Logger.WithFields(logrus.Fields{
		"payment_intent": pi.ID,
		"payment_id":     resp.Payment.ID,
		"duplicate":      resp.Duplicate,
	}).Info("Processed payment_intent.succeeded")
	return nil
}
