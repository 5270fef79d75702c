package workers

import (
	"context"
	"log"
	"time"

	"content-rewards-system/services"
)

// RunRefreshLoop drives the engine maintenance sweep on a fixed ticker.
// It runs one sweep immediately, then keeps going until the context is
// cancelled. Deployments that prefer the cron scheduler skip this loop.
func RunRefreshLoop(ctx context.Context, integrator *services.RewardIntegrator, interval time.Duration) {
	log.Printf("🔄 Refresh worker started (every %s)", interval)

	integrator.RefreshAll(time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🔄 Refresh worker stopped")
			return
		case t := <-ticker.C:
			integrator.RefreshAll(t)
		}
	}
}
