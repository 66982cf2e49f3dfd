package dashboard

import (
	"context"
	"maps"
	"time"
)

// WidgetCatalog resolves widget type descriptors. Implementations must be safe for
// concurrent reads.
type WidgetCatalog interface {
	Describe(typeID string) (WidgetTypeDescriptor, bool)
	Types() []WidgetTypeDescriptor
}

// LayoutStore resolves built-in and saved layouts.
type LayoutStore interface {
	BuiltInLayouts() []LayoutDefinition
	LoadLayout(key string) (LayoutSnapshot, error)
	SaveLayout(name string, snapshot LayoutSnapshot) (SavedLayout, error)
	DeleteLayout(key string) error
	SavedLayouts() []SavedLayout
	ReplaceSaved(layouts map[string]SavedLayout)
}

// Persister stores saved layouts and widget configuration durably.
type Persister interface {
	Persist(ctx context.Context, layouts map[string]SavedLayout, configs map[string]WidgetConfiguration) error
	Restore(ctx context.Context) (PersistedDocument, bool)
}

// RefreshHook notifies transports (REST/WebSocket) about dashboard changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// Size is measured in grid cells.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Position is a grid cell coordinate. Positions are not guaranteed collision-free.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// GridSize holds the dashboard grid dimensions.
type GridSize struct {
	Cols int `json:"cols" yaml:"cols"`
	Rows int `json:"rows" yaml:"rows"`
}

// DefaultGridSize is used when no layout provides its own dimensions.
var DefaultGridSize = GridSize{Cols: 4, Rows: 6}

// WidgetTypeDescriptor is a catalog entry describing a widget type.
type WidgetTypeDescriptor struct {
	ID                   string            `json:"id" yaml:"id"`
	DisplayName          string            `json:"display_name" yaml:"display_name"`
	DisplayNameLocalized map[string]string `json:"display_name_localized,omitempty" yaml:"display_name_localized,omitempty"`
	Description          string            `json:"description" yaml:"description"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
	DefaultSize          Size              `json:"default_size" yaml:"default_size"`
	ConfigurableFields   []string          `json:"configurable_fields" yaml:"configurable_fields"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// AcceptsField reports whether the field is part of the type's configurable fields.
func (d WidgetTypeDescriptor) AcceptsField(field string) bool {
	for _, f := range d.ConfigurableFields {
		if f == field {
			return true
		}
	}
	return false
}

// WidgetPlacement is a widget instance placed on the grid.
type WidgetPlacement struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Size     Size     `json:"size"`
}

// WidgetConfiguration maps field names to string, bool, or number values.
type WidgetConfiguration map[string]any

// Clone returns a shallow copy; values are scalars so the copy is independent.
func (c WidgetConfiguration) Clone() WidgetConfiguration {
	if c == nil {
		return nil
	}
	return maps.Clone(c)
}

// LayoutDefinition is a built-in, immutable layout template.
type LayoutDefinition struct {
	Key         string                         `json:"key"`
	Name        string                         `json:"name"`
	Description string                         `json:"description"`
	Widgets     []WidgetPlacement              `json:"widgets"`
	Configs     map[string]WidgetConfiguration `json:"configs,omitempty"`
	GridSize    GridSize                       `json:"grid_size"`
}

// SavedLayout is a user-named snapshot of a dashboard.
type SavedLayout struct {
	Name      string                         `json:"name"`
	Key       string                         `json:"key"`
	Widgets   []WidgetPlacement              `json:"widgets"`
	Configs   map[string]WidgetConfiguration `json:"configs"`
	GridSize  GridSize                       `json:"gridSize"`
	CreatedAt time.Time                      `json:"createdAt"`
}

// LayoutSnapshot is the portion of the dashboard state a layout restores.
type LayoutSnapshot struct {
	Widgets  []WidgetPlacement
	Configs  map[string]WidgetConfiguration
	GridSize GridSize
}

// DashboardState is the working state of a dashboard session.
type DashboardState struct {
	ActiveLayoutKey  string                         `json:"active_layout_key"`
	Widgets          []WidgetPlacement              `json:"widgets"`
	Configs          map[string]WidgetConfiguration `json:"configs"`
	GridSize         GridSize                       `json:"grid_size"`
	EditMode         bool                           `json:"edit_mode"`
	SelectedWidgetID string                         `json:"selected_widget_id,omitempty"`
}

// Container names the two drag-and-drop regions.
type Container string

const (
	ContainerWidgetLibrary Container = "widget-library"
	ContainerDashboard     Container = "dashboard"
)

// DropLocation is one end of a drag gesture.
type DropLocation struct {
	Container Container `json:"container"`
	Index     int       `json:"index"`
}

// DropEvent is emitted when a drag gesture completes. A nil Destination means the drop
// was cancelled or landed out of bounds.
type DropEvent struct {
	Source        DropLocation  `json:"source"`
	Destination   *DropLocation `json:"destination,omitempty"`
	DraggedItemID string        `json:"dragged_item_id"`
}

// WidgetEvent describes changes that transports might care about.
type WidgetEvent struct {
	LayoutKey string          `json:"layout_key"`
	Widget    WidgetPlacement `json:"widget"`
	Reason    string          `json:"reason"`
}

// WidgetData is an opaque payload keyed by metric name.
type WidgetData map[string]any

func cloneWidgets(widgets []WidgetPlacement) []WidgetPlacement {
	if widgets == nil {
		return nil
	}
	out := make([]WidgetPlacement, len(widgets))
	copy(out, widgets)
	return out
}

func cloneConfigs(configs map[string]WidgetConfiguration) map[string]WidgetConfiguration {
	if configs == nil {
		return nil
	}
	out := make(map[string]WidgetConfiguration, len(configs))
	for id, cfg := range configs {
		out[id] = cfg.Clone()
	}
	return out
}

// Clone deep-copies the snapshot.
func (s LayoutSnapshot) Clone() LayoutSnapshot {
	return LayoutSnapshot{
		Widgets:  cloneWidgets(s.Widgets),
		Configs:  cloneConfigs(s.Configs),
		GridSize: s.GridSize,
	}
}

// Clone deep-copies the saved layout.
func (l SavedLayout) Clone() SavedLayout {
	l.Widgets = cloneWidgets(l.Widgets)
	l.Configs = cloneConfigs(l.Configs)
	return l
}

// Snapshot returns the restorable portion of the layout.
func (l LayoutDefinition) Snapshot() LayoutSnapshot {
	return LayoutSnapshot{
		Widgets:  cloneWidgets(l.Widgets),
		Configs:  cloneConfigs(l.Configs),
		GridSize: l.GridSize,
	}
}

// Clone deep-copies the state.
func (s DashboardState) Clone() DashboardState {
	s.Widgets = cloneWidgets(s.Widgets)
	s.Configs = cloneConfigs(s.Configs)
	return s
}

// WidgetIndex returns the list index of the widget or -1.
func (s DashboardState) WidgetIndex(id string) int {
	for i, w := range s.Widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}
