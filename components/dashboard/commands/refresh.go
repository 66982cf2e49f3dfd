package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// RefreshDataInput controls a data refresh. RetryStale refetches once when a layout
// switch raced the first fetch.
type RefreshDataInput struct {
	RetryStale bool                  `json:"retry_stale"`
	Result     *dashboard.WidgetData `json:"-"`
}

type refreshService interface {
	RefreshData(ctx context.Context) (dashboard.WidgetData, error)
}

// RefreshDataCommand wraps Service.RefreshData.
type RefreshDataCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshDataCommand creates the command.
func NewRefreshDataCommand(service refreshService, telemetry Telemetry) *RefreshDataCommand {
	return &RefreshDataCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDataInput] = (*RefreshDataCommand)(nil)

// Execute fetches data for the active layout.
func (c *RefreshDataCommand) Execute(ctx context.Context, msg RefreshDataInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	data, err := c.service.RefreshData(ctx)
	if err != nil && msg.RetryStale && errors.Is(err, dashboard.ErrStaleData) {
		data, err = c.service.RefreshData(ctx)
	}
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = data
	}
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{"metrics": len(data)})
	return nil
}
