package httpapi

import (
	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/queries"
)

// NewHandlers builds every command and query against a single service. The controller
// may be nil, in which case the payload endpoint answers 501.
func NewHandlers(service *dashboard.Service, controller *dashboard.Controller, telemetry commands.Telemetry) *Handlers {
	h := &Handlers{
		Add:       commands.NewAddWidgetCommand(service, telemetry),
		Remove:    commands.NewRemoveWidgetCommand(service, telemetry),
		Duplicate: commands.NewDuplicateWidgetCommand(service, telemetry),
		Config:    commands.NewUpdateWidgetConfigCommand(service, telemetry),
		Select:    commands.NewSelectWidgetCommand(service),
		EditMode:  commands.NewSetEditModeCommand(service),
		Switch:    commands.NewSwitchLayoutCommand(service, telemetry),
		Save:      commands.NewSaveLayoutCommand(service, telemetry),
		Delete:    commands.NewDeleteLayoutCommand(service, telemetry),
		Drop:      commands.NewHandleDropCommand(service, telemetry),
		State:     queries.NewStateQuery(service),
		Catalog:   queries.NewCatalogQuery(service),
		Layouts:   queries.NewLayoutsQuery(service),
	}
	if controller != nil {
		h.Payload = queries.NewPayloadQuery(controller)
	}
	return h
}
