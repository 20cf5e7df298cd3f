package audit

import (
	"context"

	"croncommander/internal/logger"
)

type logPublisher struct {
	logger logger.Logger
}

// NewLogPublisher writes audit events to the application log
func NewLogPublisher(log logger.Logger) Publisher {
	return &logPublisher{
		logger: log.With(logger.String("component", "audit")),
	}
}

func (p *logPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.Info("toggle audited",
		logger.String("event_id", event.EventID),
		logger.String("caller_id", event.CallerID),
		logger.String("hook", event.HookID),
		logger.Int64("timestamp", event.DueTime),
		logger.String("result", string(event.Result)))
	return nil
}
