package worker

import (
	"context"
	"time"

	"pet-grooming-manager/internal/platform/logger"
)

// Expirer marca como expirados los paquetes vencidos de todas las empresas.
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// ExpirySweeper corre el barrido de vencimientos cada interval.
type ExpirySweeper struct {
	expirer  Expirer
	interval time.Duration
	log      logger.Logger
}

func NewExpirySweeper(expirer Expirer, interval time.Duration, log logger.Logger) *ExpirySweeper {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{
		expirer:  expirer,
		interval: interval,
		log:      log.With(map[string]any{"worker": "expiry_sweeper"}),
	}
}

// RunOnce ejecuta un barrido. Los errores se loguean y se devuelven.
func (w *ExpirySweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := w.expirer.ExpireOverdue(ctx)
	if err != nil {
		w.log.Error("expiry sweep failed", map[string]any{"err": err})
		return 0, err
	}
	if n > 0 {
		w.log.Info("packages expired", map[string]any{"count": n})
	} else {
		w.log.Debug("expiry sweep found nothing", nil)
	}
	return n, nil
}

// Run barre al arrancar y luego en cada tick hasta que ctx se cancele.
func (w *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("expiry sweeper started", map[string]any{"interval": w.interval.String()})
	_, _ = w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("expiry sweeper stopped", nil)
			return
		case <-ticker.C:
			_, _ = w.RunOnce(ctx)
		}
	}
}
