package audit

import (
	"context"
	"time"

	"croncommander/internal/domain"

	"github.com/google/uuid"
)

// Event records one successful toggle
type Event struct {
	EventID    string              `json:"event_id"`
	CallerID   string              `json:"caller_id"`
	HookID     string              `json:"hook"`
	DueTime    int64               `json:"timestamp"`
	Result     domain.ToggleResult `json:"result"`
	OccurredAt int64               `json:"occurred_at"`
}

// NewEvent stamps a toggle outcome with an id and the current time
func NewEvent(callerID, hookID string, dueTime int64, result domain.ToggleResult) Event {
	return Event{
		EventID:    uuid.NewString(),
		CallerID:   callerID,
		HookID:     hookID,
		DueTime:    dueTime,
		Result:     result,
		OccurredAt: time.Now().UnixMilli(),
	}
}

// Publisher ships audit events somewhere durable
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
