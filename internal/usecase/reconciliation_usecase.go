package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/config"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase/interfaces"
)

// ReconcileResult counts one reconciliation pass.
type ReconcileResult struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// IReconciliationUseCase pulls ground-truth charge status from the gateway
// for orders stuck in pending states, correcting for missed or delayed
// webhook delivery.
//
// ReconcileOrder and ReconcileAll are the forced entry points and bypass the
// cadence. SweepDue honors next_check_at and is what the background
// scheduler calls.

type IReconciliationUseCase interface {
	ReconcileOrder(ctx context.Context, orderID string) (ReconcileResult, error)
	ReconcileAll(ctx context.Context) (ReconcileResult, error)
	SweepDue(ctx context.Context) (ReconcileResult, error)
}

type ReconciliationUseCase struct {
	repo      interfaces.IOrderRepository
	gateway   interfaces.IPaymentGateway
	lifecycle IOrderLifecycleUseCase

	concurrency     int
	recheckInterval time.Duration
	now             func() time.Time
}

var _ IReconciliationUseCase = (*ReconciliationUseCase)(nil)

func NewReconciliationUseCase(repo interfaces.IOrderRepository, gateway interfaces.IPaymentGateway, lifecycle IOrderLifecycleUseCase, cfg config.OrdersConfig) *ReconciliationUseCase {
	concurrency := cfg.SweepConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &ReconciliationUseCase{
		repo:            repo,
		gateway:         gateway,
		lifecycle:       lifecycle,
		concurrency:     concurrency,
		recheckInterval: cfg.RecheckInterval,
		now:             time.Now,
	}
}

// ReconcileOrder queries the gateway for one order's charge and applies the
// result immediately, regardless of the automatic cadence.
func (u *ReconciliationUseCase) ReconcileOrder(ctx context.Context, orderID string) (ReconcileResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ReconcileResult{}, ErrInvalidOrderID
	}

	order, err := u.repo.GetByID(ctx, orderID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if order.ID == "" {
		return ReconcileResult{}, ErrOrderNotFound
	}
	if !order.Status.IsPendingPayment() || order.GatewayChargeID == "" {
		log.Printf("[reconcile][usecase] nothing to reconcile order_id=%s status=%s charge_id=%q", order.ID, order.Status, order.GatewayChargeID)
		return ReconcileResult{}, nil
	}

	updated, err := u.checkOrder(ctx, order)
	if err != nil {
		return ReconcileResult{Total: 1}, err
	}
	res := ReconcileResult{Total: 1}
	if updated {
		res.Updated = 1
	}
	return res, nil
}

// ReconcileAll sweeps every pending order that has a charge, querying the
// gateway with bounded concurrency. Per-order failures are logged and
// skipped, never aborting the sweep.
func (u *ReconciliationUseCase) ReconcileAll(ctx context.Context) (ReconcileResult, error) {
	orders, err := u.repo.ListAwaitingPayment(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}
	log.Printf("[reconcile][usecase] bulk sweep start total=%d", len(orders))
	return u.reconcileBatch(ctx, orders), nil
}

// SweepDue is ReconcileAll restricted to orders whose next_check_at has
// elapsed; it is the automatic background pass.
func (u *ReconciliationUseCase) SweepDue(ctx context.Context) (ReconcileResult, error) {
	orders, err := u.repo.ListAwaitingPayment(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}

	now := u.now()
	due := orders[:0]
	for _, o := range orders {
		if o.NextCheckAt != nil && !o.NextCheckAt.After(now) {
			due = append(due, o)
		}
	}
	if len(due) == 0 {
		return ReconcileResult{}, nil
	}
	log.Printf("[reconcile][usecase] due sweep start total=%d", len(due))
	return u.reconcileBatch(ctx, due), nil
}

func (u *ReconciliationUseCase) reconcileBatch(ctx context.Context, orders []entities.Order) ReconcileResult {
	var updated atomic.Int64
	sem := make(chan struct{}, u.concurrency)
	var wg sync.WaitGroup

	for _, o := range orders {
		wg.Add(1)
		sem <- struct{}{}
		go func(order entities.Order) {
			defer wg.Done()
			defer func() { <-sem }()

			ok, err := u.checkOrder(ctx, order)
			if err != nil {
				log.Printf("[reconcile][usecase] check failed order_id=%s charge_id=%s err=%v", order.ID, order.GatewayChargeID, err)
				return
			}
			if ok {
				updated.Add(1)
			}
		}(o)
	}
	wg.Wait()

	res := ReconcileResult{Updated: int(updated.Load()), Total: len(orders)}
	log.Printf("[reconcile][usecase] sweep done updated=%d total=%d", res.Updated, res.Total)
	return res
}

func (u *ReconciliationUseCase) checkOrder(ctx context.Context, order entities.Order) (bool, error) {
	charge, err := u.gateway.GetCharge(ctx, order.GatewayChargeID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	applied, err := u.lifecycle.ApplyGatewayStatus(ctx, order.ID, charge.Status)
	if err != nil {
		return false, err
	}

	if err := u.repo.SetNextCheckAt(ctx, order.ID, u.now().Add(u.recheckInterval)); err != nil {
		log.Printf("[reconcile][usecase] failed scheduling next check order_id=%s err=%v", order.ID, err)
	}
	return applied, nil
}
