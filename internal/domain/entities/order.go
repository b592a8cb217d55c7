package entities

import "time"

// OrderStatus is the payment-lifecycle state of a Pedido.
//
// Transitions only move forward: once an order is paid (or confirmed) no
// later gateway event may regress it. The lifecycle usecase is the only
// writer of this field.

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDENTE"
	OrderStatusAwaitingPayment OrderStatus = "AGUARDANDO_PAGAMENTO"
	OrderStatusPaid            OrderStatus = "PAGO"
	OrderStatusConfirmed       OrderStatus = "CONFIRMADO"
	OrderStatusCanceled        OrderStatus = "CANCELADO"
	OrderStatusExpired         OrderStatus = "EXPIRADO"
)

// IsPendingPayment reports whether the order is still waiting on gateway-side
// resolution (the only states reconciliation cares about).
func (s OrderStatus) IsPendingPayment() bool {
	return s == OrderStatusPending || s == OrderStatusAwaitingPayment
}

// IsSettled reports whether the order already reached a paid state.
func (s OrderStatus) IsSettled() bool {
	return s == OrderStatusPaid || s == OrderStatusConfirmed
}

// CanTransitionTo encodes the legal transition graph.
//
// Paid orders may still be upgraded to confirmed (the gateway reports
// RECEIVED before CONFIRMED on card charges); nothing else leaves a settled
// or terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch target {
	case OrderStatusPaid, OrderStatusExpired, OrderStatusCanceled:
		return s.IsPendingPayment()
	case OrderStatusConfirmed:
		return s.IsPendingPayment() || s == OrderStatusPaid
	case OrderStatusAwaitingPayment:
		return s == OrderStatusPending
	default:
		return false
	}
}

type OrderCategory string

const (
	OrderCategoryPedagogical  OrderCategory = "PEDAGOGICO"
	OrderCategoryConventional OrderCategory = "CONVENCIONAL"
)

type PaymentMethod string

const (
	PaymentMethodPix  PaymentMethod = "pix"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodNone PaymentMethod = ""
)

// ResponsibleParty is the adult who pays for a pedagogical order.
type ResponsibleParty struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderItem is one passenger/student seat. Items are created together with
// the order and never mutated afterwards.
type OrderItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is the Pedido tracked through its payment lifecycle.
//
// Monetary amounts are centavos (int64); conversion to the gateway's decimal
// representation happens at the gateway-client boundary only.
//
// GatewayChargeID is set at most once: one charge per order, never reissued
// silently. NextCheckAt drives the automatic reconciliation cadence and is
// ignored by the forced (admin) entry points.
type Order struct {
	ID               string            `json:"id"`
	Category         OrderCategory     `json:"category"`
	Status           OrderStatus       `json:"status"`
	Quantity         int               `json:"quantity"`
	UnitPriceCents   int64             `json:"unit_price_cents"`
	TotalPriceCents  int64             `json:"total_price_cents"`
	PaymentMethod    PaymentMethod     `json:"payment_method"`
	GatewayChargeID  string            `json:"gateway_charge_id,omitempty"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
	ConfirmedAt      *time.Time        `json:"confirmed_at,omitempty"`
	NextCheckAt      *time.Time        `json:"next_check_at,omitempty"`
	ResponsibleParty *ResponsibleParty `json:"responsible_party,omitempty"`
	Items            []OrderItem       `json:"items,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
