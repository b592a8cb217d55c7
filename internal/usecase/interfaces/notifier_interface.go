package interfaces

import "github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"

// INotifier delivers the paid-confirmation message. Implementations are
// fire-and-forget: the call enqueues and returns immediately, and failures
// are logged by the implementation, never retried by callers. The lifecycle
// manager guarantees at most one call per order.
type INotifier interface {
	NotifyPaymentConfirmed(o entities.Order)
}
