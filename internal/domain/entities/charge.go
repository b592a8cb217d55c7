package entities

import (
	"fmt"
	"time"
)

// GatewayStatus is the provider's own charge-status vocabulary, read-only
// from this system's perspective.

type GatewayStatus string

const (
	GatewayStatusPending             GatewayStatus = "PENDING"
	GatewayStatusReceived            GatewayStatus = "RECEIVED"
	GatewayStatusConfirmed           GatewayStatus = "CONFIRMED"
	GatewayStatusOverdue             GatewayStatus = "OVERDUE"
	GatewayStatusDeleted             GatewayStatus = "DELETED"
	GatewayStatusReceivedInCash      GatewayStatus = "RECEIVED_IN_CASH"
	GatewayStatusConfirmedByCustomer GatewayStatus = "CONFIRMED_BY_CUSTOMER"
)

// TargetOrderStatus maps a provider status to the order status it implies.
// Unmapped provider statuses are a no-op (ok=false).
func (s GatewayStatus) TargetOrderStatus() (OrderStatus, bool) {
	switch s {
	case GatewayStatusReceived, GatewayStatusReceivedInCash:
		return OrderStatusPaid, true
	case GatewayStatusConfirmed, GatewayStatusConfirmedByCustomer:
		return OrderStatusConfirmed, true
	case GatewayStatusOverdue:
		return OrderStatusExpired, true
	case GatewayStatusDeleted:
		return OrderStatusCanceled, true
	default:
		return "", false
	}
}

// webhookEvents maps provider push-event names to charge statuses. Events
// missing here are acknowledged and ignored; the provider retries forever on
// non-200 answers, so "unknown" can never be an error.
var webhookEvents = map[string]GatewayStatus{
	"PAYMENT_RECEIVED":              GatewayStatusReceived,
	"PAYMENT_RECEIVED_IN_CASH":      GatewayStatusReceivedInCash,
	"PAYMENT_CONFIRMED":             GatewayStatusConfirmed,
	"PAYMENT_CONFIRMED_BY_CUSTOMER": GatewayStatusConfirmedByCustomer,
	"PAYMENT_OVERDUE":               GatewayStatusOverdue,
	"PAYMENT_DELETED":               GatewayStatusDeleted,
}

func GatewayStatusFromWebhookEvent(event string) (GatewayStatus, bool) {
	s, ok := webhookEvents[event]
	return s, ok
}

// Charge is the gateway-side payment intent created for one order. Value is
// in the gateway's native decimal unit (BRL), not centavos.
type Charge struct {
	ID                string        `json:"id"`
	Status            GatewayStatus `json:"status"`
	Value             float64       `json:"value"`
	ExternalReference string        `json:"external_reference"`
	BillingType       string        `json:"billing_type"`
	DueDate           string        `json:"due_date,omitempty"`
}

// Payer is the identity submitted to the gateway as the paying customer.
type Payer struct {
	Name  string
	TaxID string
	Email string
	Phone string
}

// CreateChargeInput is the lifecycle manager's request to the gateway client.
type CreateChargeInput struct {
	PayerID           string
	Method            PaymentMethod
	ValueCents        int64
	Description       string
	ExternalReference string
	DueDate           time.Time
}

// PixPayload is the copy-and-paste code plus QR image for a PIX charge.
type PixPayload struct {
	Code      string `json:"code"`
	QRImage   string `json:"qr_image"`
	ExpiresAt string `json:"expires_at"`
}

// GatewayError is an HTTP-level rejection from the provider. Transport
// failures (timeout, reset) are plain errors, not GatewayErrors; callers use
// that distinction to decide whether a charge may exist on the other side.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the provider-side failure is transient (5xx).
func (e *GatewayError) Retryable() bool { return e.StatusCode >= 500 }
