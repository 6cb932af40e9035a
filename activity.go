package sessions

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported lifecycle events.
type ActivityEventType string

const (
	EventLoginSuccess    ActivityEventType = "session.login.success"
	EventLoginFailure    ActivityEventType = "session.login.failure"
	EventRefreshSuccess  ActivityEventType = "session.refresh.success"
	EventRefreshFailure  ActivityEventType = "session.refresh.failure"
	EventLogoutSuccess   ActivityEventType = "session.logout"
	EventRegisterSuccess ActivityEventType = "account.registered"
	EventAccountRemoved  ActivityEventType = "account.removed"
)

// ActivityEvent captures audit friendly information about a lifecycle action.
type ActivityEvent struct {
	EventType  ActivityEventType
	AccountID  string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// discardSink drops every event; the Manager default until a sink is set.
var discardSink = ActivitySinkFunc(nil)

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return discardSink
	}
	return s
}
