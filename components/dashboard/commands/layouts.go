package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// SetEditModeInput toggles edit mode.
type SetEditModeInput struct {
	Enabled bool `json:"enabled"`
}

type editModeService interface {
	SetEditMode(ctx context.Context, enabled bool) error
}

// SetEditModeCommand wraps Service.SetEditMode.
type SetEditModeCommand struct {
	service editModeService
}

// NewSetEditModeCommand creates the command.
func NewSetEditModeCommand(service editModeService) *SetEditModeCommand {
	return &SetEditModeCommand{service: service}
}

var _ gocommand.Commander[SetEditModeInput] = (*SetEditModeCommand)(nil)

// Execute sets the flag.
func (c *SetEditModeCommand) Execute(ctx context.Context, msg SetEditModeInput) error {
	if c.service == nil {
		return errors.New("edit mode command requires service")
	}
	return c.service.SetEditMode(ctx, msg.Enabled)
}

// SwitchLayoutInput names the layout to activate.
type SwitchLayoutInput struct {
	Key string `json:"key"`
}

type switchService interface {
	SwitchLayout(ctx context.Context, key string) error
}

// SwitchLayoutCommand wraps Service.SwitchLayout.
type SwitchLayoutCommand struct {
	service   switchService
	telemetry Telemetry
}

// NewSwitchLayoutCommand creates the command.
func NewSwitchLayoutCommand(service switchService, telemetry Telemetry) *SwitchLayoutCommand {
	return &SwitchLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SwitchLayoutInput] = (*SwitchLayoutCommand)(nil)

// Execute loads the layout into the dashboard.
func (c *SwitchLayoutCommand) Execute(ctx context.Context, msg SwitchLayoutInput) error {
	if c.service == nil {
		return errors.New("switch command requires service")
	}
	if msg.Key == "" {
		return fmt.Errorf("%w: switch command requires layout key", dashboard.ErrInvalidRequest)
	}
	if err := c.service.SwitchLayout(ctx, msg.Key); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.switch", map[string]any{"layout": msg.Key})
	return nil
}

// SaveLayoutInput names the snapshot to save. Result, when set, receives the stored
// layout.
type SaveLayoutInput struct {
	Name   string                 `json:"name"`
	Result *dashboard.SavedLayout `json:"-"`
}

type saveService interface {
	SaveLayout(ctx context.Context, name string) (dashboard.SavedLayout, error)
}

// SaveLayoutCommand wraps Service.SaveLayout.
type SaveLayoutCommand struct {
	service   saveService
	telemetry Telemetry
}

// NewSaveLayoutCommand creates the command.
func NewSaveLayoutCommand(service saveService, telemetry Telemetry) *SaveLayoutCommand {
	return &SaveLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveLayoutInput] = (*SaveLayoutCommand)(nil)

// Execute saves the current dashboard. A persistence failure is returned even though the
// layout was saved in memory; callers can check errors.Is(err, dashboard.ErrPersistFailed).
func (c *SaveLayoutCommand) Execute(ctx context.Context, msg SaveLayoutInput) error {
	if c.service == nil {
		return errors.New("save command requires service")
	}
	layout, err := c.service.SaveLayout(ctx, msg.Name)
	if msg.Result != nil && layout.Key != "" {
		*msg.Result = layout
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.save", map[string]any{"layout": layout.Key})
	return nil
}

// DeleteLayoutInput names the saved layout to delete.
type DeleteLayoutInput struct {
	Key string `json:"key"`
}

type deleteService interface {
	DeleteLayout(ctx context.Context, key string) error
}

// DeleteLayoutCommand wraps Service.DeleteLayout.
type DeleteLayoutCommand struct {
	service   deleteService
	telemetry Telemetry
}

// NewDeleteLayoutCommand creates the command.
func NewDeleteLayoutCommand(service deleteService, telemetry Telemetry) *DeleteLayoutCommand {
	return &DeleteLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteLayoutInput] = (*DeleteLayoutCommand)(nil)

// Execute deletes the layout.
func (c *DeleteLayoutCommand) Execute(ctx context.Context, msg DeleteLayoutInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if msg.Key == "" {
		return fmt.Errorf("%w: delete command requires layout key", dashboard.ErrInvalidRequest)
	}
	if err := c.service.DeleteLayout(ctx, msg.Key); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.delete", map[string]any{"layout": msg.Key})
	return nil
}
