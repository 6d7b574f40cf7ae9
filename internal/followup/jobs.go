package followup

import (
	"context"
	"time"
)

// ReminderJob runs follow-up reminders daily, aligned to 09:00 local
// time so leads are not messaged in the middle of the night.
type ReminderJob struct {
	Processor *Processor
}

func (j ReminderJob) Name() string            { return "follow_up_reminders" }
func (j ReminderJob) Schedule() time.Duration { return 24 * time.Hour }

func (j ReminderJob) FirstRunAt(now time.Time) time.Time {
	return nextWallClock(now, 9, 0)
}

func (j ReminderJob) Run(ctx context.Context) error {
	return j.Processor.RunFollowUpReminders(ctx)
}

// WeeklySummaryJob reports to the administrator every Monday at 08:00.
type WeeklySummaryJob struct {
	Processor *Processor
}

func (j WeeklySummaryJob) Name() string            { return "weekly_summary" }
func (j WeeklySummaryJob) Schedule() time.Duration { return 7 * 24 * time.Hour }

func (j WeeklySummaryJob) FirstRunAt(now time.Time) time.Time {
	candidate := nextWallClock(now, 8, 0)
	for candidate.Weekday() != time.Monday {
		candidate = candidate.Add(24 * time.Hour)
	}
	return candidate
}

func (j WeeklySummaryJob) Run(ctx context.Context) error {
	return j.Processor.RunWeeklySummary(ctx)
}

// ScheduledDispatchJob flushes due scheduled messages every minute.
type ScheduledDispatchJob struct {
	Processor *Processor
}

func (j ScheduledDispatchJob) Name() string            { return "scheduled_dispatch" }
func (j ScheduledDispatchJob) Schedule() time.Duration { return time.Minute }

func (j ScheduledDispatchJob) Run(ctx context.Context) error {
	return j.Processor.RunScheduledDispatch(ctx)
}

// nextWallClock returns the next occurrence of hour:minute strictly
// after now, in now's location.
func nextWallClock(now time.Time, hour, minute int) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.Add(24 * time.Hour)
	}
	return candidate
}
