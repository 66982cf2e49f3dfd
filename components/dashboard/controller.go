package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// DashboardReader is the read side of the Service used by the controller.
type DashboardReader interface {
	State() DashboardState
	Catalog() WidgetCatalog
	Layouts() LayoutStore
	RefreshData(ctx context.Context) (WidgetData, error)
}

// ControllerOptions wires dependencies for the controller. Renderer may be nil, in which
// case widgets are returned without markup.
type ControllerOptions struct {
	Service  DashboardReader
	Renderer WidgetRenderer
	Logger   *zap.Logger
}

// Controller assembles the view model a dashboard client renders.
type Controller struct {
	service  DashboardReader
	renderer WidgetRenderer
	logger   *zap.Logger
}

// LayoutSummary lists a layout in the layout picker.
type LayoutSummary struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BuiltIn     bool   `json:"built_in"`
	Widgets     int    `json:"widgets"`
}

// DashboardPayload is the full dashboard view: state, localized catalog, layouts and the
// rendered widgets.
type DashboardPayload struct {
	State        DashboardState         `json:"state"`
	Catalog      []WidgetTypeDescriptor `json:"catalog"`
	Layouts      []LayoutSummary        `json:"layouts"`
	Widgets      []RenderedWidget       `json:"widgets"`
	Selected     *WidgetConfigPanel     `json:"selected,omitempty"`
	DataError    string                 `json:"data_error,omitempty"`
	DataMetrics  int                    `json:"data_metrics"`
	ActiveLocale string                 `json:"locale,omitempty"`
}

// WidgetConfigPanel describes the widget being configured and its editable fields.
type WidgetConfigPanel struct {
	Widget WidgetPlacement      `json:"widget"`
	Type   WidgetTypeDescriptor `json:"type"`
	Config WidgetConfiguration  `json:"config"`
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		logger:   opts.Logger,
	}
}

// Payload resolves the dashboard view for a locale. Data failures are reported in
// DataError and the widgets render in their "no data" state.
func (c *Controller) Payload(ctx context.Context, locale string) (DashboardPayload, error) {
	if c.service == nil {
		return DashboardPayload{}, fmt.Errorf("dashboard: controller requires a service")
	}
	data, dataErr := c.service.RefreshData(ctx)
	state := c.service.State()

	payload := DashboardPayload{
		State:        state,
		Catalog:      LocalizedTypes(c.service.Catalog(), locale),
		Layouts:      SummarizeLayouts(c.service.Layouts()),
		Widgets:      make([]RenderedWidget, 0, len(state.Widgets)),
		DataMetrics:  len(data),
		ActiveLocale: locale,
	}
	if dataErr != nil && !errors.Is(dataErr, ErrMissingDataSource) {
		payload.DataError = dataErr.Error()
		data = nil
	}

	for _, widget := range state.Widgets {
		payload.Widgets = append(payload.Widgets, c.renderWidget(ctx, widget, state.Configs[widget.ID], data, locale))
	}

	if state.SelectedWidgetID != "" {
		if index := state.WidgetIndex(state.SelectedWidgetID); index >= 0 {
			widget := state.Widgets[index]
			desc, _ := c.service.Catalog().Describe(widget.Type)
			payload.Selected = &WidgetConfigPanel{
				Widget: widget,
				Type:   desc.Localized(locale),
				Config: state.Configs[widget.ID].Clone(),
			}
		}
	}
	return payload, nil
}

// RenderJSON writes the payload as JSON.
func (c *Controller) RenderJSON(ctx context.Context, locale string, w io.Writer) error {
	payload, err := c.Payload(ctx, locale)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(payload)
}

func (c *Controller) renderWidget(ctx context.Context, widget WidgetPlacement, cfg WidgetConfiguration, data WidgetData, locale string) RenderedWidget {
	fallback := RenderedWidget{
		WidgetID: widget.ID,
		Type:     widget.Type,
		Title:    stringValue(cfg["title"], ""),
		Config:   cfg.Clone(),
		Empty:    len(data) == 0,
	}
	if c.renderer == nil {
		return fallback
	}
	rendered, err := c.renderer.RenderWidget(ctx, RenderInput{
		Placement: widget,
		Config:    cfg,
		Data:      data,
		Locale:    locale,
	})
	switch {
	case err == nil:
		return rendered
	case errors.Is(err, ErrUnsupportedWidget):
		return fallback
	default:
		c.logger.Warn("render widget", zap.String("widget_id", widget.ID), zap.String("type", widget.Type), zap.Error(err))
		fallback.Error = err.Error()
		return fallback
	}
}

// LocalizedTypes lists the catalog in display order with names translated for locale.
func LocalizedTypes(catalog WidgetCatalog, locale string) []WidgetTypeDescriptor {
	types := catalog.Types()
	for i, desc := range types {
		types[i] = desc.Localized(locale)
	}
	return types
}

// SummarizeLayouts lists built-in layouts first, then saved layouts by key.
func SummarizeLayouts(store LayoutStore) []LayoutSummary {
	builtIns := store.BuiltInLayouts()
	saved := store.SavedLayouts()
	out := make([]LayoutSummary, 0, len(builtIns)+len(saved))
	for _, def := range builtIns {
		out = append(out, LayoutSummary{
			Key:         def.Key,
			Name:        def.Name,
			Description: def.Description,
			BuiltIn:     true,
			Widgets:     len(def.Widgets),
		})
	}
	for _, layout := range saved {
		out = append(out, LayoutSummary{
			Key:     layout.Key,
			Name:    layout.Name,
			Widgets: len(layout.Widgets),
		})
	}
	return out
}

var _ DashboardReader = (*Service)(nil)
