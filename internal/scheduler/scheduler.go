// Package scheduler runs jobs once a day at a fixed UTC wall-clock time.
package scheduler

import (
	"alcyxob/fitcoach/internal/logger"
	"context"
	"fmt"
	"sync"
	"time"
)

type job struct {
	name   string
	hour   int
	minute int
	run    func(ctx context.Context) error
}

type Scheduler struct {
	jobs []job
	log  logger.Logger
	now  func() time.Time
	wg   sync.WaitGroup
}

func New(log logger.Logger) *Scheduler {
	return &Scheduler{log: log, now: time.Now}
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q, want HH:MM: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// NextRun returns the first instant strictly after now at hour:minute UTC.
func NextRun(now time.Time, hour, minute int) time.Time {
	u := now.UTC()
	next := time.Date(u.Year(), u.Month(), u.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(u) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// AddDaily registers run to fire every day at the "HH:MM" UTC time.
func (s *Scheduler) AddDaily(name, at string, run func(ctx context.Context) error) error {
	hour, minute, err := ParseClock(at)
	if err != nil {
		return err
	}
	s.jobs = append(s.jobs, job{name: name, hour: hour, minute: minute, run: run})
	return nil
}

// Start launches one goroutine per job. They exit when ctx is cancelled;
// Wait blocks until they have.
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()
	log := s.log.WithFields(map[string]interface{}{"job": j.name})

	for {
		now := s.now()
		next := NextRun(now, j.hour, j.minute)
		log.Infof("next run at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("scheduler stopped")
			return
		case <-timer.C:
		}

		started := time.Now()
		if err := j.run(ctx); err != nil {
			log.Errorf("run failed: %v", err)
			continue
		}
		log.Infof("run finished in %s", time.Since(started).Round(time.Millisecond))
	}
}
