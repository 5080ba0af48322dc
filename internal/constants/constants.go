package constants

import "time"

const (
	// InvoiceNotificationTemplate takes the month name and year.
	InvoiceNotificationTemplate = "Kindly, download your invoice for the month of %s %d here."

	PaymentApprovedNotification = "Your payment of KES %s for %s has been approved. Your receipt %s is ready."
	PaymentPartialNotification  = "Your payment of KES %s for %s was recorded as partial. KES %s remains outstanding."
	PaymentRejectedNotification = "Your payment for %s was rejected. Please pay again or contact the office."

	UnpaidReminderTemplate = "Friendly reminder: rent for %s is still unpaid. Please pay via the tenant portal."

	ReminderLogLimit = 50

	// Stripe payment intent metadata keys set by the checkout integration.
	StripeMetadataTenantID       = "tenant_id"
	StripeMetadataBillingMonthID = "billing_month_id"
	StripeMetadataPayerName      = "full_name"

	ManualReferencePrefix = "MANUAL-"
	InvoiceNumberPrefix   = "INV"
	ReceiptNumberPrefix   = "RCP"

	// Day of month after which unpaid rent triggers the daily reminder.
	RentDueDay = 5
)

const (
	// Shortly after midnight UTC on the 1st.
	BillingMonthCronSpec = "10 0 1 * *"
	// Daily at 06:00 UTC (09:00 in Nairobi).
	UnpaidReminderCronSpec = "0 6 * * *"

	CronJobTimeout     = 5 * time.Minute
	ShutdownTimeout    = 15 * time.Second
	EventBusBufferSize = 1024
)
