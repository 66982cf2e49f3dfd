package dashboard

import (
	"context"
	"errors"
)

// EventPublisher forwards dashboard events to an external bus (Redis pub/sub, a
// notifications service).
type EventPublisher interface {
	PublishDashboardEvent(ctx context.Context, channel string, event WidgetEvent) error
}

// PublisherHook forwards widget events to an EventPublisher on a fixed channel.
type PublisherHook struct {
	Publisher EventPublisher
	Channel   string
}

// WidgetUpdated publishes events to the configured publisher.
func (h *PublisherHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if h == nil || h.Publisher == nil {
		return nil
	}
	return h.Publisher.PublishDashboardEvent(ctx, h.Channel, event)
}

// MultiHook delivers every event to each hook and joins their errors.
type MultiHook []RefreshHook

func (m MultiHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var errs error
	for _, hook := range m {
		if hook == nil {
			continue
		}
		if err := hook.WidgetUpdated(ctx, event); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
