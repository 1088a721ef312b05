package backup

import (
	"context"
	"time"

	"github.com/juju/clock"
)

// Trigger times for the automatic cadences. Both are evaluated on the
// same hourly wakeup.
const (
	dailyHour  = 2
	weeklyHour = 3
	weeklyDay  = time.Friday

	tickInterval = time.Hour
)

// Scheduler drives the automatic backup cadences. It wakes hourly on
// its injected clock, fires the daily snapshot at most once per
// calendar date and the weekly snapshot at most once per ISO week, and
// keeps running through any iteration failure.
type Scheduler struct {
	service *Service
	clock   clock.Clock

	lastDailyDate string // YYYY-MM-DD of the last daily trigger
	lastWeek      int    // ISO week number of the last weekly trigger
}

// NewScheduler returns a scheduler over the given service.
func NewScheduler(service *Service, clk clock.Clock) *Scheduler {
	return &Scheduler{service: service, clock: clk, lastWeek: -1}
}

// Run blocks until the context is cancelled. Each iteration evaluates
// the triggers and then sleeps for the fixed interval regardless of
// outcome.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(tickInterval):
		}
	}
}

// tick evaluates both cadences against the current wall clock. A panic
// inside a snapshot is contained so the loop survives to the next hour.
func (s *Scheduler) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("scheduler iteration panicked: %v", r)
		}
	}()

	now := s.clock.Now()
	date := now.Format("2006-01-02")
	if now.Hour() == dailyHour && s.lastDailyDate != date {
		if _, err := s.service.Run(ctx, "daily", "Auto Backup System"); err != nil {
			logger.Errorf("daily backup failed: %v", err)
		} else {
			logger.Infof("daily backup created at %s", now.Format(time.RFC3339))
		}
		s.lastDailyDate = date
	}

	_, week := now.ISOWeek()
	if now.Weekday() == weeklyDay && now.Hour() == weeklyHour && s.lastWeek != week {
		if _, err := s.service.Run(ctx, "weekly", "Auto Backup System"); err != nil {
			logger.Errorf("weekly backup failed: %v", err)
		} else {
			logger.Infof("weekly backup created at %s", now.Format(time.RFC3339))
		}
		s.service.PruneLocal(LocalRetention)
		s.lastWeek = week
	}
}
