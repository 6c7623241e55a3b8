// Package scheduler runs a job at fixed wall-clock slots in a configured timezone.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/village-blogger/internal/logging"
)

// Slot is a time of day at which the job runs.
type Slot struct {
	Hour   int
	Minute int
}

// Weekday and weekend posting slots
var (
	WeekdaySlots = []Slot{{Hour: 6}, {Hour: 12}, {Hour: 18}}
	WeekendSlots = []Slot{{Hour: 10}}
)

// Job is one scheduled run. It is called synchronously, so runs never overlap.
type Job func(ctx context.Context)

// Options configures a Scheduler.
type Options struct {
	Location *time.Location                         // defaults to time.Local
	Now      func() time.Time                       // defaults to time.Now
	After    func(d time.Duration) <-chan time.Time // defaults to time.After
}

// Scheduler fires a job at every slot.
type Scheduler struct {
	loc    *time.Location
	now    func() time.Time
	after  func(d time.Duration) <-chan time.Time
	logger logging.Logger
}

// New creates a Scheduler.
func New(opts Options, logger logging.Logger) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.After == nil {
		opts.After = time.After
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{loc: opts.Location, now: opts.Now, after: opts.After, logger: logger}
}

// SlotsFor returns the slots of the given weekday.
func SlotsFor(day time.Weekday) []Slot {
	if day == time.Saturday || day == time.Sunday {
		return WeekendSlots
	}
	return WeekdaySlots
}

// Next returns the first slot strictly after the given time, in the scheduler's timezone.
func (s *Scheduler) Next(after time.Time) time.Time {
	local := after.In(s.loc)
	y, m, d := local.Date()
	for i := 0; i < 8; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, s.loc)
		for _, slot := range SlotsFor(day.Weekday()) {
			at := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, s.loc)
			if at.After(local) {
				return at
			}
		}
	}
	// unreachable: every day has at least one slot
	panic(fmt.Sprintf("scheduler: no slot after %s", local))
}

// Run waits for each slot and runs job until ctx is cancelled. A panicking job is logged and
// the loop continues with the next slot.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	for {
		next := s.Next(s.now())
		wait := next.Sub(s.now())
		if wait < 0 {
			wait = 0
		}
		s.logger.WithFields(logging.Fields{
			"next": next.Format(time.RFC3339),
			"in":   wait.Round(time.Second).String(),
		}).Info("Waiting for next posting slot")

		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return ctx.Err()
		case <-s.after(wait):
		}

		s.runJob(ctx, job, next)
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job, slot time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("slot", slot.Format(time.RFC3339)).Errorf("Scheduled job panicked: %v", r)
		}
	}()
	job(ctx)
}
