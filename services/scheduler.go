package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartMaintenanceScheduler runs the periodic engine sweep (event windows,
// expired quests and challenges) on the given interval. Returns the
// scheduler so the caller can shut it down.
func StartMaintenanceScheduler(integrator *RewardIntegrator, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			integrator.RefreshAll(time.Now())
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Printf("⏰ Maintenance scheduler started (every %s)", interval)
	return sched, nil
}
