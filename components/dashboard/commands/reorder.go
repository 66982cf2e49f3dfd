package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

type dropService interface {
	HandleDrop(ctx context.Context, event dashboard.DropEvent) error
}

// HandleDropCommand applies a completed drag gesture.
type HandleDropCommand struct {
	service   dropService
	telemetry Telemetry
}

// NewHandleDropCommand creates the command.
func NewHandleDropCommand(service dropService, telemetry Telemetry) *HandleDropCommand {
	return &HandleDropCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[dashboard.DropEvent] = (*HandleDropCommand)(nil)

// Execute forwards the event. Cancelled drops are not errors for callers of the command.
func (c *HandleDropCommand) Execute(ctx context.Context, msg dashboard.DropEvent) error {
	if c.service == nil {
		return errors.New("drop command requires service")
	}
	err := c.service.HandleDrop(ctx, msg)
	if errors.Is(err, dashboard.ErrDropCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	payload := map[string]any{
		"source":  string(msg.Source.Container),
		"item_id": msg.DraggedItemID,
	}
	if msg.Destination != nil {
		payload["index"] = msg.Destination.Index
	}
	c.telemetry.Record(ctx, "dashboard.command.drop", payload)
	return nil
}
