package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// SeedLayoutsInput maps built-in layout keys to the names of their saved copies. An
// empty map seeds every built-in layout under "<name> (copy)".
type SeedLayoutsInput struct {
	Layouts map[string]string `json:"layouts"`
}

// SeedLayoutsCommand stores editable copies of built-in layouts.
type SeedLayoutsCommand struct {
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedLayoutsCommand wires dependencies.
func NewSeedLayoutsCommand(service *dashboard.Service, telemetry Telemetry) *SeedLayoutsCommand {
	return &SeedLayoutsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedLayoutsInput] = (*SeedLayoutsCommand)(nil)

// Execute seeds the layouts.
func (c *SeedLayoutsCommand) Execute(ctx context.Context, msg SeedLayoutsInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	names := msg.Layouts
	if len(names) == 0 {
		names = make(map[string]string)
		for _, def := range c.service.Layouts().BuiltInLayouts() {
			names[def.Key] = def.Name + " (copy)"
		}
	}
	if err := dashboard.SeedSavedLayouts(ctx, c.service, names); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{"layouts": len(names)})
	return nil
}
