package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/domain/entities"
	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase/interfaces"
)

// Sender performs the actual delivery of one confirmation message.
type Sender interface {
	Send(ctx context.Context, o entities.Order) error
}

const sendTimeout = 15 * time.Second

// Dispatcher is the fire-and-forget side of the notifier: enqueueing never
// blocks the caller, delivery happens on a single worker goroutine, and
// failures are logged without retry. A slow or broken sender therefore never
// holds up an order-state transition or a webhook response.

type Dispatcher struct {
	sender   Sender
	queue    chan entities.Order
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var _ interfaces.INotifier = (*Dispatcher)(nil)

func NewDispatcher(sender Sender, queueSize int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		sender: sender,
		queue:  make(chan entities.Order, queueSize),
		stop:   make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops accepting deliveries and waits for the in-flight one. Queued
// but undelivered notifications are dropped and logged.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
	d.wg.Wait()

	for {
		select {
		case o := <-d.queue:
			log.Printf("[notify][dispatcher] dropped on shutdown order_id=%s", o.ID)
		default:
			return
		}
	}
}

func (d *Dispatcher) NotifyPaymentConfirmed(o entities.Order) {
	select {
	case d.queue <- o:
	default:
		log.Printf("[notify][dispatcher] queue full, dropping notification order_id=%s", o.ID)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stop:
			return
		case o := <-d.queue:
			d.deliver(o)
		}
	}
}

func (d *Dispatcher) deliver(o entities.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, o); err != nil {
		log.Printf("[notify][dispatcher] delivery failed order_id=%s err=%v", o.ID, err)
		return
	}
	log.Printf("[notify][dispatcher] confirmation sent order_id=%s", o.ID)
}
