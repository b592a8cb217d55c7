package interfaces

import (
	"context"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
)

// IOrderRepository abstracts DynamoDB persistence for Order.
//
// Conditional semantics:
//   - Create fails when the id already exists.
//   - SetChargeCreated only succeeds while the order is PENDENTE and has no
//     charge id yet (gatewayChargeId is written at most once, ever).
//   - UpdateStatusFrom only succeeds while the stored status equals `from`;
//     on a lost race it returns a zero Order and a nil error, mirroring how
//     conditional-check failures are reported across this codebase.
//
// GetByID returns a zero Order (ID == "") when the id is unknown.
type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	SetChargeCreated(ctx context.Context, id, chargeID string, method entities.PaymentMethod, nextCheckAt time.Time) (entities.Order, error)
	UpdateStatusFrom(ctx context.Context, id string, from, to entities.OrderStatus, paidAt, confirmedAt *time.Time) (entities.Order, error)
	SetNextCheckAt(ctx context.Context, id string, at time.Time) error
	ListAwaitingPayment(ctx context.Context) ([]entities.Order, error)
}
