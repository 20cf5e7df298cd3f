package domain

import "sort"

// ScheduledJob is one entry of the external scheduler's table.
// A hook may appear at several due times; (HookID, DueTime) is unique.
type ScheduledJob struct {
	HookID     string `json:"hook" dynamodbav:"hook_id"`
	DueTime    int64  `json:"timestamp" dynamodbav:"due_time"`
	Recurrence string `json:"recurrence,omitempty" dynamodbav:"recurrence,omitempty"`
}

// IsRecurring reports whether the job repeats. Every toggle decision hangs off this.
func (j ScheduledJob) IsRecurring() bool {
	return j.Recurrence != ""
}

// ScheduleSlot groups the jobs that share a due time
type ScheduleSlot struct {
	DueTime int64          `json:"timestamp"`
	Jobs    []ScheduledJob `json:"jobs"`
}

// ScheduleSnapshot is a point-in-time read of the scheduler table, ordered by due time
type ScheduleSnapshot struct {
	Slots []ScheduleSlot `json:"slots"`
}

// NewScheduleSnapshot orders jobs by due time. Jobs sharing a due time keep the
// order in which they were passed in.
func NewScheduleSnapshot(jobs []ScheduledJob) *ScheduleSnapshot {
	sorted := make([]ScheduledJob, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueTime < sorted[j].DueTime
	})

	snapshot := &ScheduleSnapshot{Slots: make([]ScheduleSlot, 0)}
	for _, job := range sorted {
		n := len(snapshot.Slots)
		if n == 0 || snapshot.Slots[n-1].DueTime != job.DueTime {
			snapshot.Slots = append(snapshot.Slots, ScheduleSlot{DueTime: job.DueTime})
			n++
		}
		snapshot.Slots[n-1].Jobs = append(snapshot.Slots[n-1].Jobs, job)
	}

	return snapshot
}

// IsEmpty reports whether the snapshot holds no jobs
func (s *ScheduleSnapshot) IsEmpty() bool {
	return s == nil || s.Len() == 0
}

// Len returns the number of jobs across all slots
func (s *ScheduleSnapshot) Len() int {
	if s == nil {
		return 0
	}
	count := 0
	for _, slot := range s.Slots {
		count += len(slot.Jobs)
	}
	return count
}

// Jobs flattens the snapshot in display order
func (s *ScheduleSnapshot) Jobs() []ScheduledJob {
	if s == nil {
		return nil
	}
	jobs := make([]ScheduledJob, 0, s.Len())
	for _, slot := range s.Slots {
		jobs = append(jobs, slot.Jobs...)
	}
	return jobs
}

// Find looks up the job at (hookID, dueTime)
func (s *ScheduleSnapshot) Find(hookID string, dueTime int64) (ScheduledJob, bool) {
	if s == nil {
		return ScheduledJob{}, false
	}
	for _, slot := range s.Slots {
		if slot.DueTime != dueTime {
			continue
		}
		for _, job := range slot.Jobs {
			if job.HookID == hookID {
				return job, true
			}
		}
	}
	return ScheduledJob{}, false
}
