package service

import (
	"context"
	"sync"
	"time"

	"croncommander/internal/domain"
	"croncommander/internal/gateway/memory"
	"croncommander/internal/logger"
)

const testNow = int64(1700000000)

func fixedClock() time.Time { return time.Unix(testNow, 0) }

// recordingGateway wraps the memory gateway and remembers every call
type recordingGateway struct {
	*memory.Gateway

	mu      sync.Mutex
	calls   []string
	listErr error
}

func newRecordingGateway(jobs ...domain.ScheduledJob) *recordingGateway {
	return &recordingGateway{Gateway: memory.NewGateway(fixedClock, logger.NewNopLogger(), jobs...)}
}

func (g *recordingGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *recordingGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *recordingGateway) ListAll(ctx context.Context) (*domain.ScheduleSnapshot, error) {
	g.record("ListAll")
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.Gateway.ListAll(ctx)
}

func (g *recordingGateway) FindJob(ctx context.Context, hookID string, dueTime int64) (*domain.ScheduledJob, error) {
	g.record("FindJob")
	return g.Gateway.FindJob(ctx, hookID, dueTime)
}

func (g *recordingGateway) ClearRecurring(ctx context.Context, hookID string) error {
	g.record("ClearRecurring")
	return g.Gateway.ClearRecurring(ctx, hookID)
}

func (g *recordingGateway) ScheduleOnce(ctx context.Context, hookID string, delay time.Duration) error {
	g.record("ScheduleOnce")
	return g.Gateway.ScheduleOnce(ctx, hookID, delay)
}
