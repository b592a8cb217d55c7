package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase/interfaces"
)

var (
	ErrInvalidOrderID            = errors.New("invalid order id")
	ErrOrderNotFound             = errors.New("order not found")
	ErrGatewayUnavailable        = errors.New("payment gateway unavailable")
	ErrAmountBelowGatewayMinimum = errors.New("amount below gateway minimum for card payments")
	ErrUnsupportedPaymentMethod  = errors.New("unsupported payment method")
	ErrConcurrentUpdateLost      = errors.New("concurrent update lost")
)

const chargeDueDays = 3

// GatewayEventPayment is the charge fragment of a webhook delivery.
type GatewayEventPayment struct {
	ID                string
	ExternalReference string
	Value             float64
}

// IOrderLifecycleUseCase drives an order through its payment lifecycle.
//
// ApplyGatewayStatus is the single idempotent entry point shared by the
// webhook handler and the reconciliation sweep; everything it writes goes
// through a conditional update scoped to one order row.

type IOrderLifecycleUseCase interface {
	CreateCharge(ctx context.Context, orderID string, method entities.PaymentMethod) (entities.Order, error)
	ApplyGatewayStatus(ctx context.Context, orderID string, status entities.GatewayStatus) (bool, error)
	HandleGatewayEvent(ctx context.Context, event string, payment GatewayEventPayment) (bool, error)
}

type OrderLifecycleUseCase struct {
	repo     interfaces.IOrderRepository
	gateway  interfaces.IPaymentGateway
	notifier interfaces.INotifier

	minCardCents    int64
	firstCheckDelay time.Duration
	now             func() time.Time
}

var _ IOrderLifecycleUseCase = (*OrderLifecycleUseCase)(nil)

func NewOrderLifecycleUseCase(repo interfaces.IOrderRepository, gateway interfaces.IPaymentGateway, notifier interfaces.INotifier, cfg config.OrdersConfig) *OrderLifecycleUseCase {
	return &OrderLifecycleUseCase{
		repo:            repo,
		gateway:         gateway,
		notifier:        notifier,
		minCardCents:    cfg.MinCardAmountCents,
		firstCheckDelay: cfg.FirstCheckDelay,
		now:             time.Now,
	}
}

// CreateCharge creates the gateway charge for a pending order and moves it to
// AGUARDANDO_PAGAMENTO.
//
// A charge may already exist on the provider side even when this order has no
// recorded charge id (a previous attempt whose response was lost), so the
// gateway is always asked for charges referencing this order before a new one
// is created. A charge is never issued twice for the same order.
func (u *OrderLifecycleUseCase) CreateCharge(ctx context.Context, orderID string, method entities.PaymentMethod) (entities.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	log.Printf("[pedido][usecase] create-charge start order_id=%s method=%s", orderID, method)

	order, err := u.repo.GetByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if order.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	if order.GatewayChargeID != "" {
		log.Printf("[pedido][usecase] order already has charge order_id=%s charge_id=%s status=%s", order.ID, order.GatewayChargeID, order.Status)
		return order, nil
	}
	if order.Status != entities.OrderStatusPending {
		return entities.Order{}, fmt.Errorf("order %s is %s, expected %s", order.ID, order.Status, entities.OrderStatusPending)
	}

	switch method {
	case entities.PaymentMethodPix:
	case entities.PaymentMethodCard:
		if order.TotalPriceCents < u.minCardCents {
			log.Printf("[pedido][usecase] card amount below minimum order_id=%s total_cents=%d min_cents=%d", order.ID, order.TotalPriceCents, u.minCardCents)
			return entities.Order{}, ErrAmountBelowGatewayMinimum
		}
	default:
		return entities.Order{}, ErrUnsupportedPaymentMethod
	}

	payer, err := ResolvePayer(order)
	if err != nil {
		log.Printf("[pedido][usecase] payer resolution failed order_id=%s err=%v", order.ID, err)
		return entities.Order{}, err
	}

	adopted, adoptedOrder, err := u.adoptExistingCharge(ctx, order)
	if err != nil {
		log.Printf("[pedido][usecase] existing-charge lookup failed order_id=%s err=%v", order.ID, err)
		return entities.Order{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if adopted {
		return adoptedOrder, nil
	}

	payerID, err := u.gateway.UpsertPayer(ctx, payer)
	if err != nil {
		var gwErr *entities.GatewayError
		if errors.As(err, &gwErr) && !gwErr.Retryable() {
			log.Printf("[pedido][usecase] gateway rejected payer order_id=%s err=%v", order.ID, err)
			return entities.Order{}, fmt.Errorf("%w: %v", ErrPayerDataInvalid, err)
		}
		return entities.Order{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	charge, err := u.gateway.CreateCharge(ctx, entities.CreateChargeInput{
		PayerID:           payerID,
		Method:            method,
		ValueCents:        order.TotalPriceCents,
		Description:       fmt.Sprintf("Pedido %s", order.ID),
		ExternalReference: order.ID,
		DueDate:           u.now().AddDate(0, 0, chargeDueDays),
	})
	if err != nil {
		var gwErr *entities.GatewayError
		if errors.As(err, &gwErr) && !gwErr.Retryable() {
			log.Printf("[pedido][usecase] gateway rejected charge order_id=%s err=%v", order.ID, err)
			return entities.Order{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		// The request may have been processed even though the call failed.
		// Check before reporting a failure to a customer who may have been
		// charged.
		log.Printf("[pedido][usecase] charge creation failed, checking for existing charge order_id=%s err=%v", order.ID, err)
		adopted, adoptedOrder, aerr := u.adoptExistingCharge(ctx, order)
		if aerr == nil && adopted {
			return adoptedOrder, nil
		}
		return entities.Order{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	log.Printf("[pedido][usecase] charge created order_id=%s charge_id=%s gateway_status=%s", order.ID, charge.ID, charge.Status)

	return u.attachCharge(ctx, order, charge, method)
}

// adoptExistingCharge looks up charges referencing the order on the gateway
// and, when one exists, records it instead of issuing a new charge. Returns
// the refreshed order when adoption happened.
func (u *OrderLifecycleUseCase) adoptExistingCharge(ctx context.Context, order entities.Order) (bool, entities.Order, error) {
	charges, err := u.gateway.ListChargesByReference(ctx, order.ID)
	if err != nil {
		return false, entities.Order{}, err
	}

	var picked *entities.Charge
	for i := range charges {
		c := charges[i]
		if c.Status == entities.GatewayStatusDeleted {
			continue
		}
		if picked == nil {
			picked = &c
			continue
		}
		// Prefer a settled charge over a pending one.
		if target, ok := c.Status.TargetOrderStatus(); ok && target.IsSettled() {
			picked = &c
		}
	}
	if picked == nil {
		return false, entities.Order{}, nil
	}

	log.Printf("[pedido][usecase] adopting existing charge order_id=%s charge_id=%s gateway_status=%s", order.ID, picked.ID, picked.Status)
	updated, err := u.attachCharge(ctx, order, *picked, methodFromBillingType(picked.BillingType))
	if err != nil {
		return false, entities.Order{}, err
	}
	return true, updated, nil
}

// attachCharge persists the charge id (set-once) and applies the charge's
// current status when the gateway already resolved it.
func (u *OrderLifecycleUseCase) attachCharge(ctx context.Context, order entities.Order, charge entities.Charge, method entities.PaymentMethod) (entities.Order, error) {
	nextCheck := u.now().Add(u.firstCheckDelay)
	updated, err := u.repo.SetChargeCreated(ctx, order.ID, charge.ID, method, nextCheck)
	if err != nil {
		return entities.Order{}, err
	}
	if updated.ID == "" {
		// Another writer attached a charge first; the stored one wins.
		log.Printf("[pedido][usecase] charge already attached by another writer order_id=%s", order.ID)
		updated, err = u.repo.GetByID(ctx, order.ID)
		if err != nil {
			return entities.Order{}, err
		}
	}

	if _, ok := charge.Status.TargetOrderStatus(); ok {
		if _, err := u.ApplyGatewayStatus(ctx, order.ID, charge.Status); err != nil {
			return entities.Order{}, err
		}
		return u.repo.GetByID(ctx, order.ID)
	}
	return updated, nil
}

// ApplyGatewayStatus idempotently advances the order according to what the
// gateway reports. Equivalent-or-earlier statuses are a no-op; at most one
// confirmation notification is ever sent per order.
//
// The read-compute-conditional-write sequence is retried exactly once on a
// lost race and then dropped: the competing writer already applied an
// equal-or-further transition.
func (u *OrderLifecycleUseCase) ApplyGatewayStatus(ctx context.Context, orderID string, status entities.GatewayStatus) (bool, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return false, ErrInvalidOrderID
	}

	target, ok := status.TargetOrderStatus()
	if !ok {
		log.Printf("[pedido][usecase] gateway status %q has no transition, ignoring order_id=%s", status, orderID)
		return false, nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		order, err := u.repo.GetByID(ctx, orderID)
		if err != nil {
			return false, err
		}
		if order.ID == "" {
			return false, ErrOrderNotFound
		}
		if !order.Status.CanTransitionTo(target) {
			log.Printf("[pedido][usecase] no-op transition order_id=%s status=%s gateway_status=%s", order.ID, order.Status, status)
			return false, nil
		}

		paidAt, confirmedAt := u.transitionTimestamps(order, target)
		updated, err := u.repo.UpdateStatusFrom(ctx, order.ID, order.Status, target, paidAt, confirmedAt)
		if err != nil {
			return false, err
		}
		if updated.ID == "" {
			log.Printf("[pedido][usecase] conditional update lost order_id=%s attempt=%d err=%v", order.ID, attempt+1, ErrConcurrentUpdateLost)
			continue
		}

		log.Printf("[pedido][usecase] transition applied order_id=%s from=%s to=%s gateway_status=%s", order.ID, order.Status, target, status)
		if target.IsSettled() && !order.Status.IsSettled() && u.notifier != nil {
			u.notifier.NotifyPaymentConfirmed(updated)
		}
		return true, nil
	}

	// Benign: whoever won the race applied an equal-or-further transition.
	log.Printf("[pedido][usecase] giving up after retry order_id=%s gateway_status=%s", orderID, status)
	return false, nil
}

func (u *OrderLifecycleUseCase) transitionTimestamps(order entities.Order, target entities.OrderStatus) (paidAt, confirmedAt *time.Time) {
	now := u.now().UTC()
	switch target {
	case entities.OrderStatusPaid:
		if order.PaidAt == nil {
			paidAt = &now
		}
	case entities.OrderStatusConfirmed:
		if order.PaidAt == nil {
			paidAt = &now
		}
		if order.ConfirmedAt == nil {
			confirmedAt = &now
		}
	}
	return paidAt, confirmedAt
}

// HandleGatewayEvent maps a webhook delivery onto ApplyGatewayStatus.
//
// The payload is unauthenticated, so its monetary value is never acted upon:
// the order's own total is authoritative and a mismatch is only logged.
func (u *OrderLifecycleUseCase) HandleGatewayEvent(ctx context.Context, event string, payment GatewayEventPayment) (bool, error) {
	status, ok := entities.GatewayStatusFromWebhookEvent(event)
	if !ok {
		log.Printf("[webhook][usecase] unmapped event %q, ignoring", event)
		return false, nil
	}

	ref := strings.TrimSpace(payment.ExternalReference)
	if ref == "" {
		return false, ErrInvalidOrderID
	}

	order, err := u.repo.GetByID(ctx, ref)
	if err != nil {
		return false, err
	}
	if order.ID == "" {
		return false, ErrOrderNotFound
	}

	if payment.Value > 0 {
		reported := int64(math.Round(payment.Value * 100))
		if reported != order.TotalPriceCents {
			log.Printf("[webhook][usecase] value mismatch order_id=%s reported_cents=%d expected_cents=%d", order.ID, reported, order.TotalPriceCents)
		}
	}
	if order.GatewayChargeID != "" && payment.ID != "" && payment.ID != order.GatewayChargeID {
		log.Printf("[webhook][usecase] charge mismatch order_id=%s event_charge=%s stored_charge=%s, ignoring", order.ID, payment.ID, order.GatewayChargeID)
		return false, nil
	}

	return u.ApplyGatewayStatus(ctx, order.ID, status)
}

func methodFromBillingType(billingType string) entities.PaymentMethod {
	switch strings.ToUpper(billingType) {
	case "PIX":
		return entities.PaymentMethodPix
	case "CREDIT_CARD":
		return entities.PaymentMethodCard
	default:
		return entities.PaymentMethodNone
	}
}
