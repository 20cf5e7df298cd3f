package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	cache "croncommander/internal/cache/iface"
	"croncommander/internal/domain"
	gateway "croncommander/internal/gateway/iface"
	"croncommander/internal/logger"
)

const (
	// KEYS[1] due zset, KEYS[2] recurrence hash, ARGV[1] hook
	luaClearHook = `
		local members = redis.call('ZRANGE', KEYS[1], 0, -1)
		local removed = 0
		for _, m in ipairs(members) do
			local sep = string.find(m, '|', 1, true)
			if sep and string.sub(m, sep + 1) == ARGV[1] then
				redis.call('ZREM', KEYS[1], m)
				redis.call('HDEL', KEYS[2], m)
				removed = removed + 1
			end
		end
		return removed
	`

	// KEYS[1] due zset, KEYS[2] recurrence hash, ARGV[1] due time, ARGV[2] member
	luaScheduleSingle = `
		redis.call('ZADD', KEYS[1], ARGV[1], ARGV[2])
		redis.call('HDEL', KEYS[2], ARGV[2])
		return 1
	`
)

// Gateway reads the scheduler table from Redis.
//
// Layout: sorted set <prefix>:due scored by due time with members "<due>|<hook>",
// and hash <prefix>:recurrence mapping the same members to their recurrence.
// Members without a recurrence entry are one-time jobs.
type Gateway struct {
	cache  cache.Cache
	prefix string
	now    gateway.Clock
	logger logger.Logger
}

// NewGateway creates a Redis-backed gateway
func NewGateway(c cache.Cache, prefix string, now gateway.Clock, log logger.Logger) *Gateway {
	if prefix == "" {
		prefix = "cron"
	}
	if now == nil {
		now = time.Now
	}
	return &Gateway{
		cache:  c,
		prefix: prefix,
		now:    now,
		logger: log.With(logger.String("component", "redis_gateway")),
	}
}

func (g *Gateway) ListAll(ctx context.Context) (*domain.ScheduleSnapshot, error) {
	members, err := g.cache.ZRangeWithScores(ctx, g.dueKey())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	recurrences, err := g.cache.HGetAll(ctx, g.recurrenceKey())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	jobs := make([]domain.ScheduledJob, 0, len(members))
	for _, m := range members {
		dueTime, hookID, ok := parseMember(m.Member)
		if !ok {
			g.logger.Warn("skipping malformed schedule member",
				logger.String("member", m.Member))
			continue
		}
		jobs = append(jobs, domain.ScheduledJob{
			HookID:     hookID,
			DueTime:    dueTime,
			Recurrence: recurrences[m.Member],
		})
	}

	g.logger.Debug("schedule listed", logger.Int("count", len(jobs)))

	return domain.NewScheduleSnapshot(jobs), nil
}

func (g *Gateway) FindJob(ctx context.Context, hookID string, dueTime int64) (*domain.ScheduledJob, error) {
	member := formatMember(dueTime, hookID)

	if _, err := g.cache.ZScore(ctx, g.dueKey(), member); err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	recurrence, err := g.cache.HGet(ctx, g.recurrenceKey(), member)
	if err != nil && !errors.Is(err, cache.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	return &domain.ScheduledJob{
		HookID:     hookID,
		DueTime:    dueTime,
		Recurrence: recurrence,
	}, nil
}

func (g *Gateway) ClearRecurring(ctx context.Context, hookID string) error {
	result, err := g.cache.Eval(ctx, luaClearHook, []string{g.dueKey(), g.recurrenceKey()}, hookID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	removed, _ := result.(int64)
	g.logger.Info("cleared hook",
		logger.String("hook", hookID),
		logger.Int64("removed", removed))

	return nil
}

func (g *Gateway) ScheduleOnce(ctx context.Context, hookID string, delay time.Duration) error {
	dueTime := g.now().Add(delay).Unix()
	member := formatMember(dueTime, hookID)

	if _, err := g.cache.Eval(ctx, luaScheduleSingle, []string{g.dueKey(), g.recurrenceKey()}, dueTime, member); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	g.logger.Info("scheduled single event",
		logger.String("hook", hookID),
		logger.Int64("due_time", dueTime))

	return nil
}

func (g *Gateway) dueKey() string {
	return g.prefix + ":due"
}

func (g *Gateway) recurrenceKey() string {
	return g.prefix + ":recurrence"
}

func formatMember(dueTime int64, hookID string) string {
	return strconv.FormatInt(dueTime, 10) + "|" + hookID
}

func parseMember(member string) (int64, string, bool) {
	due, hook, found := strings.Cut(member, "|")
	if !found || hook == "" {
		return 0, "", false
	}
	dueTime, err := strconv.ParseInt(due, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return dueTime, hook, true
}
