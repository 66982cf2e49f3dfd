package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// AddWidgetInput inserts a catalog type into the active layout. When Result is set it
// receives the created placement.
type AddWidgetInput struct {
	Type   string                     `json:"type"`
	Index  *int                       `json:"index,omitempty"`
	Result *dashboard.WidgetPlacement `json:"-"`
}

type addService interface {
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) (dashboard.WidgetPlacement, error)
}

// AddWidgetCommand wraps Service.AddWidget.
type AddWidgetCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddWidgetCommand creates the command.
func NewAddWidgetCommand(service addService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute adds the widget.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.service == nil {
		return errors.New("add command requires service")
	}
	if msg.Type == "" {
		return fmt.Errorf("%w: add command requires widget type", dashboard.ErrInvalidRequest)
	}
	widget, err := c.service.AddWidget(ctx, dashboard.AddWidgetRequest{Type: msg.Type, Index: msg.Index})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = widget
	}
	c.telemetry.Record(ctx, "dashboard.command.add", map[string]any{
		"type":      msg.Type,
		"widget_id": widget.ID,
	})
	return nil
}

// RemoveWidgetInput identifies the widget to remove.
type RemoveWidgetInput struct {
	WidgetID string `json:"widget_id"`
}

type removeService interface {
	RemoveWidget(ctx context.Context, widgetID string) error
}

// RemoveWidgetCommand wraps Service.RemoveWidget.
type RemoveWidgetCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveWidgetCommand creates the command.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	if msg.WidgetID == "" {
		return fmt.Errorf("%w: remove command requires widget id", dashboard.ErrInvalidRequest)
	}
	if err := c.service.RemoveWidget(ctx, msg.WidgetID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.remove", map[string]any{"widget_id": msg.WidgetID})
	return nil
}

// DuplicateWidgetInput identifies the widget to copy.
type DuplicateWidgetInput struct {
	WidgetID string                     `json:"widget_id"`
	Result   *dashboard.WidgetPlacement `json:"-"`
}

type duplicateService interface {
	DuplicateWidget(ctx context.Context, widgetID string) (dashboard.WidgetPlacement, error)
}

// DuplicateWidgetCommand wraps Service.DuplicateWidget.
type DuplicateWidgetCommand struct {
	service   duplicateService
	telemetry Telemetry
}

// NewDuplicateWidgetCommand creates the command.
func NewDuplicateWidgetCommand(service duplicateService, telemetry Telemetry) *DuplicateWidgetCommand {
	return &DuplicateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DuplicateWidgetInput] = (*DuplicateWidgetCommand)(nil)

// Execute copies the widget and its configuration.
func (c *DuplicateWidgetCommand) Execute(ctx context.Context, msg DuplicateWidgetInput) error {
	if c.service == nil {
		return errors.New("duplicate command requires service")
	}
	if msg.WidgetID == "" {
		return fmt.Errorf("%w: duplicate command requires widget id", dashboard.ErrInvalidRequest)
	}
	widget, err := c.service.DuplicateWidget(ctx, msg.WidgetID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = widget
	}
	c.telemetry.Record(ctx, "dashboard.command.duplicate", map[string]any{
		"source_id": msg.WidgetID,
		"widget_id": widget.ID,
	})
	return nil
}

// UpdateWidgetConfigInput sets a single configuration field.
type UpdateWidgetConfigInput struct {
	WidgetID string `json:"widget_id"`
	Field    string `json:"field"`
	Value    any    `json:"value"`
}

type configService interface {
	UpdateWidgetConfig(ctx context.Context, widgetID, field string, value any) error
}

// UpdateWidgetConfigCommand wraps Service.UpdateWidgetConfig.
type UpdateWidgetConfigCommand struct {
	service   configService
	telemetry Telemetry
}

// NewUpdateWidgetConfigCommand creates the command.
func NewUpdateWidgetConfigCommand(service configService, telemetry Telemetry) *UpdateWidgetConfigCommand {
	return &UpdateWidgetConfigCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetConfigInput] = (*UpdateWidgetConfigCommand)(nil)

// Execute writes the field.
func (c *UpdateWidgetConfigCommand) Execute(ctx context.Context, msg UpdateWidgetConfigInput) error {
	if c.service == nil {
		return errors.New("config command requires service")
	}
	if msg.WidgetID == "" || msg.Field == "" {
		return fmt.Errorf("%w: config command requires widget id and field", dashboard.ErrInvalidRequest)
	}
	if err := c.service.UpdateWidgetConfig(ctx, msg.WidgetID, msg.Field, msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.config", map[string]any{
		"widget_id": msg.WidgetID,
		"field":     msg.Field,
	})
	return nil
}

// SelectWidgetInput selects a widget for configuration. An empty WidgetID clears the
// selection.
type SelectWidgetInput struct {
	WidgetID string `json:"widget_id"`
}

type selectService interface {
	SelectWidget(ctx context.Context, widgetID string) error
	ClearSelection(ctx context.Context) error
}

// SelectWidgetCommand wraps Service.SelectWidget and Service.ClearSelection.
type SelectWidgetCommand struct {
	service selectService
}

// NewSelectWidgetCommand creates the command.
func NewSelectWidgetCommand(service selectService) *SelectWidgetCommand {
	return &SelectWidgetCommand{service: service}
}

var _ gocommand.Commander[SelectWidgetInput] = (*SelectWidgetCommand)(nil)

// Execute updates the selection.
func (c *SelectWidgetCommand) Execute(ctx context.Context, msg SelectWidgetInput) error {
	if c.service == nil {
		return errors.New("select command requires service")
	}
	if msg.WidgetID == "" {
		return c.service.ClearSelection(ctx)
	}
	return c.service.SelectWidget(ctx, msg.WidgetID)
}
