package zk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strconv"
	"time"

	coordinator "croncommander/internal/coordinator/iface"
	"croncommander/internal/domain"
	gateway "croncommander/internal/gateway/iface"
	"croncommander/internal/logger"
)

// DefaultRoot is the znode under which the scheduler keeps its table
const DefaultRoot = "/cron"

type eventData struct {
	Recurrence string `json:"recurrence,omitempty"`
}

// Gateway reads the scheduler table from ZooKeeper.
// Each occurrence is a znode <root>/<due>/<escaped hook> holding JSON eventData.
type Gateway struct {
	coord  coordinator.Coordinator
	root   string
	now    gateway.Clock
	logger logger.Logger
}

// NewGateway creates a ZooKeeper-backed gateway
func NewGateway(coord coordinator.Coordinator, root string, now gateway.Clock, log logger.Logger) *Gateway {
	if root == "" {
		root = DefaultRoot
	}
	if now == nil {
		now = time.Now
	}
	return &Gateway{
		coord:  coord,
		root:   root,
		now:    now,
		logger: log.With(logger.String("component", "zk_gateway")),
	}
}

func (g *Gateway) ListAll(ctx context.Context) (*domain.ScheduleSnapshot, error) {
	dueTimes, err := g.dueTimes()
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.ScheduledJob, 0)
	for _, dueTime := range dueTimes {
		hooks, err := g.coord.Children(g.slotPath(dueTime))
		if errors.Is(err, coordinator.ErrNodeNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}
		sort.Strings(hooks)

		for _, escaped := range hooks {
			hookID, err := url.PathUnescape(escaped)
			if err != nil {
				g.logger.Warn("skipping malformed hook node", logger.String("node", escaped))
				continue
			}

			job, err := g.readJob(hookID, dueTime)
			if errors.Is(err, domain.ErrJobNotFound) {
				// removed between listing and reading
				continue
			}
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, *job)
		}
	}

	return domain.NewScheduleSnapshot(jobs), nil
}

func (g *Gateway) FindJob(ctx context.Context, hookID string, dueTime int64) (*domain.ScheduledJob, error) {
	if hookID == "" {
		return nil, domain.ErrJobNotFound
	}
	return g.readJob(hookID, dueTime)
}

func (g *Gateway) ClearRecurring(ctx context.Context, hookID string) error {
	if hookID == "" {
		return nil
	}

	dueTimes, err := g.dueTimes()
	if err != nil {
		return err
	}

	removed := 0
	for _, dueTime := range dueTimes {
		if _, err := g.coord.GetNode(g.jobPath(hookID, dueTime)); err != nil {
			if errors.Is(err, coordinator.ErrNodeNotFound) {
				continue
			}
			return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}

		if err := g.coord.DeleteNode(g.jobPath(hookID, dueTime)); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}
		removed++

		remaining, err := g.coord.Children(g.slotPath(dueTime))
		if err == nil && len(remaining) == 0 {
			if err := g.coord.DeleteNode(g.slotPath(dueTime)); err != nil {
				g.logger.Warn("failed to prune empty slot",
					logger.Int64("due_time", dueTime),
					logger.Error(err))
			}
		}
	}

	g.logger.Info("cleared hook",
		logger.String("hook", hookID),
		logger.Int("removed", removed))

	return nil
}

func (g *Gateway) ScheduleOnce(ctx context.Context, hookID string, delay time.Duration) error {
	if hookID == "" {
		return domain.ErrInvalidInput
	}

	dueTime := g.now().Add(delay).Unix()

	data, err := json.Marshal(eventData{})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := g.coord.CreateNode(g.jobPath(hookID, dueTime), data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	g.logger.Info("scheduled single event",
		logger.String("hook", hookID),
		logger.Int64("due_time", dueTime))

	return nil
}

func (g *Gateway) readJob(hookID string, dueTime int64) (*domain.ScheduledJob, error) {
	raw, err := g.coord.GetNode(g.jobPath(hookID, dueTime))
	if errors.Is(err, coordinator.ErrNodeNotFound) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	var data eventData
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to decode event %s@%d: %w", hookID, dueTime, err)
		}
	}

	return &domain.ScheduledJob{
		HookID:     hookID,
		DueTime:    dueTime,
		Recurrence: data.Recurrence,
	}, nil
}

// dueTimes lists the slot nodes under root in ascending order
func (g *Gateway) dueTimes() ([]int64, error) {
	children, err := g.coord.Children(g.root)
	if errors.Is(err, coordinator.ErrNodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	dueTimes := make([]int64, 0, len(children))
	for _, child := range children {
		dueTime, err := strconv.ParseInt(child, 10, 64)
		if err != nil {
			continue
		}
		dueTimes = append(dueTimes, dueTime)
	}
	sort.Slice(dueTimes, func(i, j int) bool { return dueTimes[i] < dueTimes[j] })

	return dueTimes, nil
}

func (g *Gateway) slotPath(dueTime int64) string {
	return path.Join(g.root, strconv.FormatInt(dueTime, 10))
}

func (g *Gateway) jobPath(hookID string, dueTime int64) string {
	return g.slotPath(dueTime) + "/" + escapeHook(hookID)
}

// escapeHook maps a hook to a single znode name. "." and ".." are not valid
// znode names, so their dots are percent-encoded.
func escapeHook(hookID string) string {
	switch hookID {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(hookID)
}
