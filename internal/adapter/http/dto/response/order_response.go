package response

import (
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"
)

type OrderResponse struct {
	ID              string     `json:"id"`
	Category        string     `json:"category"`
	Status          string     `json:"status"`
	Quantity        int        `json:"quantity"`
	UnitPriceCents  int64      `json:"unit_price_cents"`
	TotalPriceCents int64      `json:"total_price_cents"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	GatewayChargeID string     `json:"gateway_charge_id,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		Category:        string(o.Category),
		Status:          string(o.Status),
		Quantity:        o.Quantity,
		UnitPriceCents:  o.UnitPriceCents,
		TotalPriceCents: o.TotalPriceCents,
		PaymentMethod:   string(o.PaymentMethod),
		GatewayChargeID: o.GatewayChargeID,
		PaidAt:          o.PaidAt,
		ConfirmedAt:     o.ConfirmedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

type PixResponse struct {
	Code      string `json:"code"`
	QRImage   string `json:"qr_image"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// CheckoutResponse is the order plus, for unpaid PIX charges, the payload the
// customer pays with.
type CheckoutResponse struct {
	Order OrderResponse `json:"order"`
	Pix   *PixResponse  `json:"pix,omitempty"`
}

func FromCheckoutResult(r usecase.CheckoutResult) CheckoutResponse {
	out := CheckoutResponse{Order: FromOrder(r.Order)}
	if r.Pix != nil {
		out.Pix = &PixResponse{
			Code:      r.Pix.Code,
			QRImage:   r.Pix.QRImage,
			ExpiresAt: r.Pix.ExpiresAt,
		}
	}
	return out
}
