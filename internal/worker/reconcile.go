package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// ReconcileWorker periodically settles payments that were left PENDING after
// the browser never came back to verify them.
type ReconcileWorker struct {
	svc      Reconciler
	interval time.Duration
	log      *slog.Logger
}

func NewReconcileWorker(svc Reconciler, interval time.Duration, log *slog.Logger) *ReconcileWorker {
	if log == nil {
		log = slog.Default()
	}
	return &ReconcileWorker{svc: svc, interval: interval, log: log.With("worker", "reconcile")}
}

// Run blocks until ctx is cancelled.
func (w *ReconcileWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("worker_started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker_stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReconcileWorker) tick(ctx context.Context) {
	ctx = logging.IntoContext(ctx, w.log)
	n, err := w.svc.Reconcile(ctx)
	if err != nil {
		w.log.Error("reconcile_error", "resolved", n, "error", err)
		return
	}
	if n > 0 {
		w.log.Info("reconcile_success", "resolved", n)
	}
}
