package workers

import (
	"context"
	"time"

	"quadramall/apienvelope/internal/logging"
)

// StatsRefresher recomputes and caches the catalog stats snapshot.
type StatsRefresher interface {
	RefreshStats(ctx context.Context) error
}

// StatsWarmer keeps the stats cache filled so /products/stats rarely hits the database.
type StatsWarmer struct {
	svc      StatsRefresher
	interval time.Duration
}

func NewStatsWarmer(svc StatsRefresher, interval time.Duration) *StatsWarmer {
	return &StatsWarmer{svc: svc, interval: interval}
}

// Start refreshes once immediately, then on every tick until ctx is done.
func (w *StatsWarmer) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Stats warmer stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatsWarmer) refresh(ctx context.Context) {
	if err := w.svc.RefreshStats(ctx); err != nil && ctx.Err() == nil {
		logging.Warn("Stats warmer: refresh failed", "error", err.Error())
	}
}
