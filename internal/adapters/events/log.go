package events

import (
	"context"
	"log/slog"

	portsevents "github.com/domohq/domo_backend/internal/core/ports/events"
	"github.com/domohq/domo_backend/internal/middleware"
)

// LogPublisher writes ledger events to the request logger instead of a broker.
type LogPublisher struct{}

var _ portsevents.Publisher = LogPublisher{}

func (LogPublisher) Publish(ctx context.Context, evt portsevents.Event) error {
	env, body, err := Encode(evt)
	if err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Ledger event",
		slog.String("event_id", env.ID),
		slog.String("event_type", env.Type),
		slog.String("routing_key", RoutingKey(evt)),
		slog.Int("bytes", len(body)))
	return nil
}
