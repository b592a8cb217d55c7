package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"
)

type countingReconciler struct {
	sweeps atomic.Int64
}

func (c *countingReconciler) ReconcileOrder(context.Context, string) (usecase.ReconcileResult, error) {
	return usecase.ReconcileResult{}, nil
}

func (c *countingReconciler) ReconcileAll(context.Context) (usecase.ReconcileResult, error) {
	return usecase.ReconcileResult{}, nil
}

func (c *countingReconciler) SweepDue(context.Context) (usecase.ReconcileResult, error) {
	c.sweeps.Add(1)
	return usecase.ReconcileResult{Updated: 0, Total: 1}, nil
}

func TestReconciliationScheduler_SweepsOnInterval(t *testing.T) {
	rec := &countingReconciler{}
	s := NewReconciliationScheduler(rec, 10*time.Millisecond)

	s.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if rec.sweeps.Load() == 0 {
		t.Fatalf("expected at least one sweep")
	}

	after := rec.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	if rec.sweeps.Load() != after {
		t.Fatalf("scheduler kept sweeping after Stop")
	}
}

func TestReconciliationScheduler_StopIsIdempotent(t *testing.T) {
	s := NewReconciliationScheduler(&countingReconciler{}, 10*time.Millisecond)
	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestReconciliationScheduler_StopWithoutStartReturns(t *testing.T) {
	s := NewReconciliationScheduler(&countingReconciler{}, 10*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("Stop blocked without a running scheduler")
	}
}
