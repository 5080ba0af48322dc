package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
)

var statusMessages = map[models.PaymentStatusType]string{
	models.PaymentStatusPaid:     "Your payment has been approved by the admin ✅",
	models.PaymentStatusPartial:  "Your payment has been recorded as partial. Please pay the remaining amount using the link below.",
	models.PaymentStatusRejected: "Your payment has been rejected by the manager. Please try again using the payment link below or contact support.",
	models.PaymentStatusPending:  "Your payment is waiting for admin approval. Kindly be patient.",
	models.PaymentStatusUnpaid:   "Payment is due for this billing period. Use the payment link below to pay now.",
}

// ResolvePaymentStatus maps a payment status and the tenant's rent to what
// the tenant sees. Unknown statuses get no message and no link.
func ResolvePaymentStatus(status models.PaymentStatusType, rentAmount, paidAmount decimal.Decimal) dtos.StatusView {
	view := dtos.StatusView{Status: status}

	if msg, ok := statusMessages[status]; ok {
		view.Message = &msg
	}

	switch status {
	case models.PaymentStatusUnpaid, models.PaymentStatusRejected:
		view.ShowPaymentLink = true
	case models.PaymentStatusPartial:
		view.ShowPaymentLink = true
		remaining := RemainingBalance(rentAmount, paidAmount)
		view.Remaining = &remaining
	}
	return view
}

// RemainingBalance is max(rent - paid, 0).
func RemainingBalance(rentAmount, paidAmount decimal.Decimal) decimal.Decimal {
	remaining := rentAmount.Sub(paidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PaymentLinkFor falls back to the in-app payment page when the billing
// month has no external link.
func PaymentLinkFor(bm *models.BillingMonth) string {
	if bm == nil {
		return ""
	}
	if bm.PaymentLink != nil && *bm.PaymentLink != "" {
		return *bm.PaymentLink
	}
	return fmt.Sprintf("/payment?billing=%s", bm.ID)
}

// ResolveForMonth resolves the status of a tenant's latest payment in a
// billing month. A nil payment means unpaid.
func ResolveForMonth(bm *models.BillingMonth, payment *models.Payment, rentAmount decimal.Decimal) dtos.StatusView {
	status := models.PaymentStatusUnpaid
	paid := decimal.Zero
	if payment != nil {
		status = payment.Status
		paid = payment.Amount
	}
	view := ResolvePaymentStatus(status, rentAmount, paid)
	if view.ShowPaymentLink {
		view.PaymentLink = PaymentLinkFor(bm)
	}
	return view
}
