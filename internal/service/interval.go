package service

import (
	"time"

	"croncommander/internal/domain"

	"github.com/robfig/cron/v3"
)

// DefaultIntervals are the recurrence names every scheduler ships with
var DefaultIntervals = map[string]time.Duration{
	"hourly":     time.Hour,
	"twicedaily": 12 * time.Hour,
	"daily":      24 * time.Hour,
	"weekly":     7 * 24 * time.Hour,
}

// IntervalRegistry resolves recurrence names to repeat intervals
type IntervalRegistry struct {
	schedules map[string]cron.ConstantDelaySchedule
}

// NewIntervalRegistry merges extra intervals over DefaultIntervals. Entries
// shorter than a second are ignored.
func NewIntervalRegistry(extra map[string]time.Duration) *IntervalRegistry {
	r := &IntervalRegistry{schedules: make(map[string]cron.ConstantDelaySchedule)}
	for name, d := range DefaultIntervals {
		r.schedules[name] = cron.Every(d)
	}
	for name, d := range extra {
		if d < time.Second {
			continue
		}
		r.schedules[name] = cron.Every(d)
	}
	return r
}

// FollowingRun returns the occurrence after job's due time, if its recurrence is known
func (r *IntervalRegistry) FollowingRun(job domain.ScheduledJob) (time.Time, bool) {
	if !job.IsRecurring() {
		return time.Time{}, false
	}
	schedule, ok := r.schedules[job.Recurrence]
	if !ok {
		return time.Time{}, false
	}
	return schedule.Next(time.Unix(job.DueTime, 0)), true
}
