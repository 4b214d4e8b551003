// workers/checkout_sweeper.go
package workers

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// CheckoutSweeper is the part of the payment simulator the sweeper needs.
type CheckoutSweeper interface {
	Sweep(retention time.Duration) int
}

// StartCheckoutSweeper forgets finished checkouts older than retention on
// every tick. The returned scheduler must be shut down by the caller.
func StartCheckoutSweeper(target CheckoutSweeper, interval, retention time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create sweeper scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := target.Sweep(retention); n > 0 {
				log.Printf("🧹 [Sweeper] Removed %d finished checkouts", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule checkout sweep: %w", err)
	}

	sched.Start()
	log.Printf("✅ [Sweeper] Checkout sweeper running every %s (retention %s)", interval, retention)
	return sched, nil
}
