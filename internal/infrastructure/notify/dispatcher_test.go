package notify

import (
	"context"
	"testing"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
)

type recordingSender struct {
	delivered chan entities.Order
}

func (s *recordingSender) Send(_ context.Context, o entities.Order) error {
	s.delivered <- o
	return nil
}

func TestDispatcher_DeliversInBackground(t *testing.T) {
	sender := &recordingSender{delivered: make(chan entities.Order, 1)}
	d := NewDispatcher(sender, 4)
	d.Start()
	defer d.Stop()

	d.NotifyPaymentConfirmed(entities.Order{ID: "ord-1", Status: entities.OrderStatusPaid})

	select {
	case got := <-sender.delivered:
		if got.ID != "ord-1" {
			t.Fatalf("unexpected order delivered: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("notification was not delivered")
	}
}

func TestDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	// Worker not started, so the queue never drains.
	d := NewDispatcher(&recordingSender{delivered: make(chan entities.Order, 1)}, 1)

	done := make(chan struct{})
	go func() {
		d.NotifyPaymentConfirmed(entities.Order{ID: "ord-1"})
		d.NotifyPaymentConfirmed(entities.Order{ID: "ord-2"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("enqueue blocked on a full queue")
	}
}

func TestDispatcher_StopIsIdempotent(t *testing.T) {
	d := NewDispatcher(&recordingSender{delivered: make(chan entities.Order, 1)}, 1)
	d.Start()
	d.Stop()
	d.Stop()
}
