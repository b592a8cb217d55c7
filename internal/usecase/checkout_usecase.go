package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var ErrInvalidCheckout = errors.New("invalid checkout request")

// CheckoutInput is the order the customer is placing. Quantity always equals
// the number of passenger records.
type CheckoutInput struct {
	Category         entities.OrderCategory
	UnitPriceCents   int64
	Method           entities.PaymentMethod
	ResponsibleParty *entities.ResponsibleParty
	Items            []CheckoutItemInput
}

type CheckoutItemInput struct {
	Name  string
	TaxID string
	Email string
	Phone string
}

// CheckoutResult carries the created order and, for PIX charges that are
// still unpaid, the QR payload the customer pays with.
type CheckoutResult struct {
	Order entities.Order
	Pix   *entities.PixPayload
}

type ICheckoutUseCase interface {
	PlaceOrder(ctx context.Context, in CheckoutInput) (CheckoutResult, error)
	GetOrder(ctx context.Context, orderID string) (entities.Order, error)
}

type CheckoutUseCase struct {
	repo      interfaces.IOrderRepository
	gateway   interfaces.IPaymentGateway
	lifecycle IOrderLifecycleUseCase
	now       func() time.Time
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(repo interfaces.IOrderRepository, gateway interfaces.IPaymentGateway, lifecycle IOrderLifecycleUseCase) *CheckoutUseCase {
	return &CheckoutUseCase{repo: repo, gateway: gateway, lifecycle: lifecycle, now: time.Now}
}

// PlaceOrder persists the order with its immutable passenger records and
// drives charge creation. The order is created PENDENTE first so that a
// gateway failure leaves a retryable order behind rather than nothing.
func (u *CheckoutUseCase) PlaceOrder(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if err := validateCheckout(in); err != nil {
		return CheckoutResult{}, err
	}

	now := u.now().UTC()
	order := entities.Order{
		ID:               uuid.NewString(),
		Category:         in.Category,
		Status:           entities.OrderStatusPending,
		Quantity:         len(in.Items),
		UnitPriceCents:   in.UnitPriceCents,
		TotalPriceCents:  in.UnitPriceCents * int64(len(in.Items)),
		PaymentMethod:    entities.PaymentMethodNone,
		ResponsibleParty: in.ResponsibleParty,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, it := range in.Items {
		order.Items = append(order.Items, entities.OrderItem{
			ID:    uuid.NewString(),
			Name:  it.Name,
			TaxID: it.TaxID,
			Email: it.Email,
			Phone: it.Phone,
		})
	}

	created, err := u.repo.Create(ctx, order)
	if err != nil {
		return CheckoutResult{}, err
	}
	log.Printf("[checkout][usecase] order created order_id=%s category=%s total_cents=%d", created.ID, created.Category, created.TotalPriceCents)

	charged, err := u.lifecycle.CreateCharge(ctx, created.ID, in.Method)
	if err != nil {
		return CheckoutResult{}, err
	}

	res := CheckoutResult{Order: charged}
	if in.Method == entities.PaymentMethodPix && charged.GatewayChargeID != "" && !charged.Status.IsSettled() {
		pix, err := u.gateway.GetPixPayload(ctx, charged.GatewayChargeID)
		if err != nil {
			// The charge exists; the client can fetch the payload again by
			// polling the order. Don't fail the checkout over it.
			log.Printf("[checkout][usecase] pix payload fetch failed order_id=%s charge_id=%s err=%v", charged.ID, charged.GatewayChargeID, err)
		} else {
			res.Pix = &pix
		}
	}
	return res, nil
}

// GetOrder fetches one order for the status-polling route.
func (u *CheckoutUseCase) GetOrder(ctx context.Context, orderID string) (entities.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	order, err := u.repo.GetByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if order.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	return order, nil
}

func validateCheckout(in CheckoutInput) error {
	if in.Category != entities.OrderCategoryPedagogical && in.Category != entities.OrderCategoryConventional {
		return ErrInvalidCheckout
	}
	if in.Method != entities.PaymentMethodPix && in.Method != entities.PaymentMethodCard {
		return ErrInvalidCheckout
	}
	if len(in.Items) == 0 || in.UnitPriceCents <= 0 {
		return ErrInvalidCheckout
	}
	if in.Category == entities.OrderCategoryPedagogical && in.ResponsibleParty == nil {
		return ErrInvalidCheckout
	}
	return nil
}
