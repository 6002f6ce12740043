package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pet-grooming-manager/internal/platform/logger"
)

type countingExpirer struct {
	calls atomic.Int64
	n     int64
	err   error
}

func (c *countingExpirer) ExpireOverdue(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return c.n, c.err
}

func TestRunOnce_ReturnsCount(t *testing.T) {
	exp := &countingExpirer{n: 3}
	w := NewExpirySweeper(exp, time.Minute, logger.Nop())

	n, err := w.RunOnce(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("expected 3 expired, got %d (%v)", n, err)
	}
}

func TestRunOnce_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	w := NewExpirySweeper(&countingExpirer{err: boom}, time.Minute, nil)

	if _, err := w.RunOnce(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestRun_SweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	exp := &countingExpirer{}
	w := NewExpirySweeper(exp, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for exp.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 sweeps, got %d", exp.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
