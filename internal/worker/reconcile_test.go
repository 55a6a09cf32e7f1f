package worker

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

type countingReconciler struct {
	calls atomic.Int32
	err   error
}

func (r *countingReconciler) Reconcile(context.Context) (int, error) {
	r.calls.Add(1)
	return 1, r.err
}

func TestReconcileWorker_RunsUntilCancelled(t *testing.T) {
	t.Parallel()

	rec := &countingReconciler{}
	w := NewReconcileWorker(rec, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return rec.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestReconcileWorker_LogsErrorsAndKeepsGoing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := &countingReconciler{err: errors.New("db down")}
	w := NewReconcileWorker(rec, time.Hour, logging.NewWithWriter(&buf, "info"))

	w.tick(context.Background())
	w.tick(context.Background())

	assert.Equal(t, int32(2), rec.calls.Load())
	assert.Contains(t, buf.String(), "reconcile_error")
	assert.Contains(t, buf.String(), "db down")
}
