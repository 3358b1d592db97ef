// Package schedule drives periodic execution of the monitor's fetch
// and report jobs.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"parlwatch/internal/logger"
)

var schedLog = logger.New("schedule")

// Job is a callback invoked on schedule. Errors are logged, not fatal;
// the schedule keeps running.
type Job func(ctx context.Context) error

// Scheduler runs a fetch job at a fixed interval plus a daily and a
// weekly job at configured wall-clock times. All jobs run on the
// scheduler's goroutines; Run blocks until the context is cancelled.
type Scheduler struct {
	fetchInterval time.Duration
	dailyHour     int
	dailyMinute   int
	weeklyDay     time.Weekday

	Fetch  Job
	Daily  Job
	Weekly Job
}

// New creates a Scheduler. dailyAt uses "HH:MM"; weeklyDay is
// 0 (Sunday) through 6.
func New(fetchIntervalHours int, dailyAt string, weeklyDay int) (*Scheduler, error) {
	if fetchIntervalHours <= 0 {
		return nil, fmt.Errorf("fetch interval must be positive, got %d hours", fetchIntervalHours)
	}
	if weeklyDay < 0 || weeklyDay > 6 {
		return nil, fmt.Errorf("weekly day must be 0-6, got %d", weeklyDay)
	}
	hour, minute, err := parseClock(dailyAt)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		fetchInterval: time.Duration(fetchIntervalHours) * time.Hour,
		dailyHour:     hour,
		dailyMinute:   minute,
		weeklyDay:     time.Weekday(weeklyDay),
	}, nil
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// NextDaily returns the next daily-report fire time strictly after now.
func (s *Scheduler) NextDaily(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.dailyHour, s.dailyMinute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// NextWeekly returns the next weekly-report fire time strictly after
// now: the configured weekday at the daily report time.
func (s *Scheduler) NextWeekly(now time.Time) time.Time {
	next := s.NextDaily(now)
	for next.Weekday() != s.weeklyDay {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run executes the schedules until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup

	if s.Fetch != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(s.fetchInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					s.invoke(ctx, "fetch", s.Fetch)
				}
			}
		}()
	}
	if s.Daily != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runAt(ctx, "daily report", s.NextDaily, s.Daily)
		}()
	}
	if s.Weekly != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runAt(ctx, "weekly report", s.NextWeekly, s.Weekly)
		}()
	}

	schedLog.Info("scheduler running",
		"fetch_every", s.fetchInterval,
		"daily_at", fmt.Sprintf("%02d:%02d", s.dailyHour, s.dailyMinute),
		"weekly_day", s.weeklyDay)
	wg.Wait()
}

// runAt sleeps until the next fire time, runs the job, and repeats.
func (s *Scheduler) runAt(ctx context.Context, name string, next func(time.Time) time.Time, job Job) {
	for {
		wait := time.Until(next(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.invoke(ctx, name, job)
		}
	}
}

func (s *Scheduler) invoke(ctx context.Context, name string, job Job) {
	schedLog.Info("running scheduled job", "job", name)
	if err := job(ctx); err != nil {
		schedLog.Error("scheduled job failed", "job", name, "err", err)
	}
}
