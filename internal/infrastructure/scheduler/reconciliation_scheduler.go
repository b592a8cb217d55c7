package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"
)

// ReconciliationScheduler ticks at a fixed interval and sweeps orders whose
// next check is due. Ticks never overlap: a sweep that outlasts the interval
// simply delays the next one.
type ReconciliationScheduler struct {
	reconciler usecase.IReconciliationUseCase
	interval   time.Duration

	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

func NewReconciliationScheduler(reconciler usecase.IReconciliationUseCase, interval time.Duration) *ReconciliationScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReconciliationScheduler{
		reconciler: reconciler,
		interval:   interval,
		done:       make(chan struct{}),
	}
}

func (s *ReconciliationScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
	log.Printf("[scheduler][reconciliation] started interval=%s", s.interval)
}

func (s *ReconciliationScheduler) Stop() {
	s.stopOnce.Do(func() {
		// Without a prior Start there is no run goroutine to wait on.
		if s.cancel == nil {
			close(s.done)
			return
		}
		s.cancel()
		<-s.done
		log.Printf("[scheduler][reconciliation] stopped")
	})
}

func (s *ReconciliationScheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReconciliationScheduler) sweep(ctx context.Context) {
	res, err := s.reconciler.SweepDue(ctx)
	if err != nil {
		log.Printf("[scheduler][reconciliation] sweep failed err=%v", err)
		return
	}
	if res.Total > 0 {
		log.Printf("[scheduler][reconciliation] sweep done checked=%d updated=%d", res.Total, res.Updated)
	}
}
