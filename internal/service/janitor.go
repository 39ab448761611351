// Package service hosts background maintenance for the relay. The only job
// today is the ban janitor: lapsed timed bans are harmless (expiry is checked
// at read time) but accumulate forever unless purged.
package service

import (
	"time"

	"github.com/robfig/cron/v3"

	"tg-relay/internal/logger"
	"tg-relay/internal/storage"
)

// Janitor periodically purges lapsed timed bans. Disabled when the schedule
// is empty, which keeps the original retain-forever behavior.
type Janitor struct {
	bans     *storage.BanRepository
	schedule string
	cron     *cron.Cron
}

// NewJanitor creates a janitor with a cron schedule expression ("" = off).
func NewJanitor(bans *storage.BanRepository, schedule string) *Janitor {
	return &Janitor{bans: bans, schedule: schedule}
}

// Start registers and starts the cron job. No-op when disabled.
func (j *Janitor) Start() error {
	if j.schedule == "" {
		logger.Infof("Ban janitor disabled, lapsed ban rows are retained")
		return nil
	}

	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}
	j.cron.Start()
	logger.Infof("Ban janitor started with schedule %q", j.schedule)
	return nil
}

// Stop halts the cron scheduler, waiting for a running purge to finish.
func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

func (j *Janitor) run() {
	purged, err := j.bans.PurgeLapsed(time.Now())
	if err != nil {
		logger.Warningf("Ban janitor purge failed: %v", err)
		return
	}
	if purged > 0 {
		logger.Infof("Ban janitor purged %d lapsed ban(s)", purged)
	}
}
