package service

import (
	"context"
	"fmt"
	"time"

	"croncommander/internal/domain"
	gateway "croncommander/internal/gateway/iface"
	"croncommander/internal/logger"
)

// DefaultReArmDelay is how far out a (re)started job is armed
const DefaultReArmDelay = 60 * time.Second

// ToggleController stops recurring jobs and re-arms one-time ones
type ToggleController struct {
	gateway    gateway.Gateway
	reArmDelay time.Duration
	logger     logger.Logger
}

// NewToggleController creates a toggle controller; a non-positive delay falls back to DefaultReArmDelay
func NewToggleController(gw gateway.Gateway, reArmDelay time.Duration, log logger.Logger) *ToggleController {
	if reArmDelay <= 0 {
		reArmDelay = DefaultReArmDelay
	}
	return &ToggleController{
		gateway:    gw,
		reArmDelay: reArmDelay,
		logger:     log.With(logger.String("component", "toggle_controller")),
	}
}

// Toggle flips the job at (hookID, dueTime).
//
// Stopping is not the inverse of starting: a recurring job loses every
// occurrence of its hook, while a one-time job gets one new run ReArmDelay
// from now. Toggling a just-stopped job therefore reports ErrJobNotFound.
func (c *ToggleController) Toggle(ctx context.Context, hookID string, dueTime int64) (domain.ToggleResult, error) {
	job, err := c.gateway.FindJob(ctx, hookID, dueTime)
	if err != nil {
		return "", err
	}

	if job.IsRecurring() {
		if err := c.gateway.ClearRecurring(ctx, hookID); err != nil {
			return "", fmt.Errorf("failed to clear hook %s: %w", hookID, err)
		}

		c.logger.Info("recurring hook stopped",
			logger.String("hook", hookID),
			logger.String("recurrence", job.Recurrence))

		return domain.ToggleStopped, nil
	}

	if err := c.gateway.ScheduleOnce(ctx, hookID, c.reArmDelay); err != nil {
		return "", fmt.Errorf("failed to schedule hook %s: %w", hookID, err)
	}

	c.logger.Info("hook re-armed",
		logger.String("hook", hookID),
		logger.Duration("delay", c.reArmDelay))

	return domain.ToggleStarted, nil
}

// ReArmDelay returns the configured delay
func (c *ToggleController) ReArmDelay() time.Duration {
	return c.reArmDelay
}
