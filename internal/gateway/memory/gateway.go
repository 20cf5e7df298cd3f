package memory

import (
	"context"
	"sync"
	"time"

	"croncommander/internal/domain"
	gateway "croncommander/internal/gateway/iface"
	"croncommander/internal/logger"
)

// Gateway keeps the scheduler table in process memory
type Gateway struct {
	mu     sync.Mutex
	jobs   []domain.ScheduledJob
	now    gateway.Clock
	logger logger.Logger
}

// NewGateway creates an in-memory gateway seeded with jobs
func NewGateway(now gateway.Clock, log logger.Logger, jobs ...domain.ScheduledJob) *Gateway {
	if now == nil {
		now = time.Now
	}
	g := &Gateway{
		now:    now,
		logger: log.With(logger.String("component", "memory_gateway")),
	}
	for _, job := range jobs {
		g.put(job)
	}
	return g
}

// Put adds or replaces the job at (HookID, DueTime)
func (g *Gateway) Put(job domain.ScheduledJob) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.put(job)
}

func (g *Gateway) put(job domain.ScheduledJob) {
	for i, existing := range g.jobs {
		if existing.HookID == job.HookID && existing.DueTime == job.DueTime {
			g.jobs[i] = job
			return
		}
	}
	g.jobs = append(g.jobs, job)
}

func (g *Gateway) ListAll(ctx context.Context) (*domain.ScheduleSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return domain.NewScheduleSnapshot(g.jobs), nil
}

func (g *Gateway) FindJob(ctx context.Context, hookID string, dueTime int64) (*domain.ScheduledJob, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, job := range g.jobs {
		if job.HookID == hookID && job.DueTime == dueTime {
			found := job
			return &found, nil
		}
	}
	return nil, domain.ErrJobNotFound
}

func (g *Gateway) ClearRecurring(ctx context.Context, hookID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	kept := g.jobs[:0]
	removed := 0
	for _, job := range g.jobs {
		if job.HookID == hookID {
			removed++
			continue
		}
		kept = append(kept, job)
	}
	g.jobs = kept

	g.logger.Info("cleared hook",
		logger.String("hook", hookID),
		logger.Int("removed", removed))

	return nil
}

func (g *Gateway) ScheduleOnce(ctx context.Context, hookID string, delay time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	dueTime := g.now().Add(delay).Unix()
	g.put(domain.ScheduledJob{HookID: hookID, DueTime: dueTime})

	g.logger.Info("scheduled single event",
		logger.String("hook", hookID),
		logger.Int64("due_time", dueTime))

	return nil
}
