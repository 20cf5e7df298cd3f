package gateway

import (
	"context"
	"time"

	"croncommander/internal/domain"
)

// Gateway is read/write access to the external scheduler's job table.
// No atomicity is promised across calls.
type Gateway interface {
	// ListAll returns the full table, empty if there are no jobs
	ListAll(ctx context.Context) (*domain.ScheduleSnapshot, error)

	// FindJob returns domain.ErrJobNotFound when nothing is scheduled at (hookID, dueTime)
	FindJob(ctx context.Context, hookID string, dueTime int64) (*domain.ScheduledJob, error)

	// ClearRecurring removes every occurrence of hookID, not only the one the caller saw
	ClearRecurring(ctx context.Context, hookID string) error

	// ScheduleOnce arms a single one-time occurrence of hookID at now+delay
	ScheduleOnce(ctx context.Context, hookID string, delay time.Duration) error
}

// Clock returns the current time; gateways take one so tests can pin ScheduleOnce
type Clock func() time.Time
