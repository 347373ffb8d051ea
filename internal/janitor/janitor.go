// Package janitor removes marketplace listings whose packages have expired.
package janitor

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/propsignal/leadmarket/internal/logger"
	"github.com/propsignal/leadmarket/internal/store"
)

// Janitor sweeps the store on a cron schedule, dropping listings whose
// lead package is past its expiry or missing.
type Janitor struct {
	cron  *cron.Cron
	store *store.Store
	log   *logger.Logger
	now   func() time.Time
}

func New(st *store.Store, log *logger.Logger) *Janitor {
	return &Janitor{
		cron:  cron.New(),
		store: st,
		log:   log,
		now:   time.Now,
	}
}

// Start registers the sweep on the given cron schedule and starts the
// scheduler. Schedule syntax is standard cron plus the @every form.
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info("janitor started", map[string]interface{}{
		"schedule": schedule,
	})
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info("janitor stopped", nil)
}

// Sweep removes expired listings once. Exposed so operators and tests can
// trigger it outside the schedule.
func (j *Janitor) Sweep() {
	removed := j.store.PurgeExpiredListings(j.now())
	if removed > 0 {
		j.log.Info("purged expired listings", map[string]interface{}{
			"removed": removed,
		})
	}
}
