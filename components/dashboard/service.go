package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLayoutKey is the layout a new session starts from.
const DefaultLayoutKey = "overview"

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations without touching the state machine.
type Options struct {
	Catalog         WidgetCatalog
	Layouts         LayoutStore
	Persistence     Persister
	ConfigValidator ConfigValidator
	// StrictConfig validates merged widget configuration against the type schema.
	StrictConfig   bool
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	Logger         *zap.Logger
	DataSource     DataSource
	DataCacheTTL   time.Duration
	Clock          func() time.Time
	IDGenerator    func(typeID string, now time.Time) string
	PositionPolicy PositionPolicy
	InitialLayout  string
}

// Service owns the DashboardState of one dashboard session. A single mutex serializes
// every transition; each operation either applies completely or returns an error and
// leaves the state untouched.
type Service struct {
	opts Options

	mu         sync.Mutex
	state      DashboardState
	generation uint64
	data       WidgetData
	dataCache  *TTLCache[WidgetData]
}

// NewService builds a Service instance with safe defaults and loads the initial layout.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Catalog == nil {
		catalog, err := NewCatalog()
		if err != nil {
			opts.Logger.Error("default widget catalog failed, starting empty", zap.Error(err))
			catalog = NewEmptyCatalog()
		}
		opts.Catalog = catalog
	}
	if opts.Layouts == nil {
		opts.Layouts = NewLayoutRegistry()
	}
	if opts.Persistence == nil {
		opts.Persistence = noopPersister{}
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = timestampID
	}
	if opts.PositionPolicy == "" {
		opts.PositionPolicy = PositionReflowAll
	}
	if opts.InitialLayout == "" {
		opts.InitialLayout = DefaultLayoutKey
	}

	s := &Service{
		opts:      opts,
		dataCache: NewTTLCache[WidgetData](opts.DataCacheTTL, opts.Clock),
		state: DashboardState{
			Widgets:  []WidgetPlacement{},
			Configs:  map[string]WidgetConfiguration{},
			GridSize: DefaultGridSize,
		},
	}
	if snapshot, err := opts.Layouts.LoadLayout(opts.InitialLayout); err != nil {
		opts.Logger.Warn("initial layout unavailable", zap.String("layout", opts.InitialLayout), zap.Error(err))
	} else {
		s.applySnapshot(opts.InitialLayout, snapshot)
	}
	return s
}

// AddWidgetRequest captures the data required to insert a widget. A nil Index appends.
type AddWidgetRequest struct {
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"`
}

// Catalog exposes the widget catalog the service validates against.
func (s *Service) Catalog() WidgetCatalog { return s.opts.Catalog }

// Layouts exposes the layout store.
func (s *Service) Layouts() LayoutStore { return s.opts.Layouts }

// State returns a copy of the current dashboard state.
func (s *Service) State() DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SetEditMode toggles the edit flag and nothing else.
func (s *Service) SetEditMode(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	s.state.EditMode = enabled
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: key, Reason: "edit_mode"})
	s.recordTelemetry(ctx, "dashboard.edit_mode", map[string]any{"enabled": enabled})
	return nil
}

// AddWidget inserts a widget of the given type at the (clamped) index.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) (WidgetPlacement, error) {
	s.mu.Lock()
	widget, index, err := s.addWidgetLocked(req)
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()
	if err != nil {
		return WidgetPlacement{}, err
	}

	s.publish(ctx, WidgetEvent{LayoutKey: key, Widget: widget, Reason: "add"})
	s.recordTelemetry(ctx, "dashboard.widget.add", map[string]any{
		"layout":    key,
		"widget_id": widget.ID,
		"type":      widget.Type,
		"index":     index,
	})
	return widget, nil
}

func (s *Service) addWidgetLocked(req AddWidgetRequest) (WidgetPlacement, int, error) {
	if !s.state.EditMode {
		return WidgetPlacement{}, 0, ErrEditModeDisabled
	}
	desc, ok := s.opts.Catalog.Describe(req.Type)
	if !ok {
		return WidgetPlacement{}, 0, fmt.Errorf("%w: %q", ErrUnknownWidgetType, req.Type)
	}
	index := len(s.state.Widgets)
	if req.Index != nil {
		index = max(0, min(*req.Index, len(s.state.Widgets)))
	}
	widget := WidgetPlacement{
		ID:   s.nextID(desc.ID),
		Type: desc.ID,
		Size: desc.DefaultSize,
	}
	s.state.Widgets = InsertWidget(s.state.Widgets, widget, index, s.cols(), s.opts.PositionPolicy)
	return s.state.Widgets[index], index, nil
}

// RemoveWidget deletes a widget from the dashboard. Its configuration entry is kept.
func (s *Service) RemoveWidget(ctx context.Context, widgetID string) error {
	s.mu.Lock()
	if !s.state.EditMode {
		s.mu.Unlock()
		return ErrEditModeDisabled
	}
	index := s.state.WidgetIndex(widgetID)
	if index < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrWidgetNotFound, widgetID)
	}
	removed := s.state.Widgets[index]
	s.state.Widgets = RemoveWidgetAt(s.state.Widgets, index, s.cols(), s.opts.PositionPolicy)
	if s.state.SelectedWidgetID == widgetID {
		s.state.SelectedWidgetID = ""
	}
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: key, Widget: removed, Reason: "remove"})
	s.recordTelemetry(ctx, "dashboard.widget.remove", map[string]any{"layout": key, "widget_id": widgetID})
	return nil
}

// DuplicateWidget appends a copy of the widget one column to the right and copies its
// configuration.
func (s *Service) DuplicateWidget(ctx context.Context, widgetID string) (WidgetPlacement, error) {
	s.mu.Lock()
	if !s.state.EditMode {
		s.mu.Unlock()
		return WidgetPlacement{}, ErrEditModeDisabled
	}
	index := s.state.WidgetIndex(widgetID)
	if index < 0 {
		s.mu.Unlock()
		return WidgetPlacement{}, fmt.Errorf("%w: %q", ErrWidgetNotFound, widgetID)
	}
	source := s.state.Widgets[index]
	dup := WidgetPlacement{
		ID:       s.nextID(source.Type),
		Type:     source.Type,
		Position: Position{X: source.Position.X + 1, Y: source.Position.Y},
		Size:     source.Size,
	}
	s.state.Widgets = append(cloneWidgets(s.state.Widgets), dup)
	if cfg, ok := s.state.Configs[widgetID]; ok {
		s.state.Configs[dup.ID] = cfg.Clone()
	}
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: key, Widget: dup, Reason: "duplicate"})
	s.recordTelemetry(ctx, "dashboard.widget.duplicate", map[string]any{
		"layout":    key,
		"source_id": widgetID,
		"widget_id": dup.ID,
	})
	return dup, nil
}

// UpdateWidgetConfig merges one field into the widget configuration, creating the entry
// when missing. Values must be strings, booleans or numbers; numbers are stored as float64.
func (s *Service) UpdateWidgetConfig(ctx context.Context, widgetID, field string, value any) error {
	if widgetID == "" || field == "" {
		return fmt.Errorf("%w: widget id and field are required", ErrInvalidConfig)
	}
	value, err := normalizeConfigValue(value)
	if f, ok := value.(float64); ok && err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = fmt.Errorf("non-finite number %v", f)
	}
	if err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrInvalidConfig, widgetID, field, err)
	}

	s.mu.Lock()
	merged := s.state.Configs[widgetID].Clone()
	if merged == nil {
		merged = WidgetConfiguration{}
	}
	merged[field] = value
	var widget WidgetPlacement
	if index := s.state.WidgetIndex(widgetID); index >= 0 {
		widget = s.state.Widgets[index]
	}
	if s.opts.StrictConfig {
		if err := s.validateLocked(widgetID, widget, merged); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.state.Configs[widgetID] = merged
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()

	if widget.ID == "" {
		widget.ID = widgetID
	}
	s.publish(ctx, WidgetEvent{LayoutKey: key, Widget: widget, Reason: "config"})
	s.recordTelemetry(ctx, "dashboard.widget.config", map[string]any{
		"layout":    key,
		"widget_id": widgetID,
		"field":     field,
	})
	return nil
}

func (s *Service) validateLocked(widgetID string, widget WidgetPlacement, cfg WidgetConfiguration) error {
	if widget.ID == "" {
		return fmt.Errorf("%w: %q", ErrWidgetNotFound, widgetID)
	}
	desc, ok := s.opts.Catalog.Describe(widget.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidgetType, widget.Type)
	}
	return s.opts.ConfigValidator.Validate(desc, cfg)
}

// SelectWidget marks a widget as the one being configured.
func (s *Service) SelectWidget(ctx context.Context, widgetID string) error {
	s.mu.Lock()
	index := s.state.WidgetIndex(widgetID)
	if index < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrWidgetNotFound, widgetID)
	}
	s.state.SelectedWidgetID = widgetID
	widget := s.state.Widgets[index]
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: key, Widget: widget, Reason: "select"})
	return nil
}

// ClearSelection closes the configuration panel.
func (s *Service) ClearSelection(ctx context.Context) error {
	s.mu.Lock()
	s.state.SelectedWidgetID = ""
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: key, Reason: "select"})
	return nil
}

// SwitchLayout replaces widgets, configs and grid with the layout's. On error the state
// is unchanged.
func (s *Service) SwitchLayout(ctx context.Context, key string) error {
	snapshot, err := s.opts.Layouts.LoadLayout(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.applySnapshot(key, snapshot)
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: key, Reason: "switch"})
	s.recordTelemetry(ctx, "dashboard.layout.switch", map[string]any{
		"layout":  key,
		"widgets": len(snapshot.Widgets),
	})
	return nil
}

func (s *Service) applySnapshot(key string, snapshot LayoutSnapshot) {
	snapshot = snapshot.Clone()
	if snapshot.Widgets == nil {
		snapshot.Widgets = []WidgetPlacement{}
	}
	if snapshot.Configs == nil {
		snapshot.Configs = map[string]WidgetConfiguration{}
	}
	s.state.ActiveLayoutKey = key
	s.state.Widgets = snapshot.Widgets
	s.state.Configs = snapshot.Configs
	s.state.GridSize = snapshot.GridSize
	if !slices.ContainsFunc(s.state.Widgets, func(w WidgetPlacement) bool { return w.ID == s.state.SelectedWidgetID }) {
		s.state.SelectedWidgetID = ""
	}
	s.generation++
	s.data = nil
}

// SaveLayout snapshots the current dashboard under name, makes it the active layout and
// persists every saved layout. When persistence fails the in-memory save stands and the
// returned error wraps ErrPersistFailed.
func (s *Service) SaveLayout(ctx context.Context, name string) (SavedLayout, error) {
	s.mu.Lock()
	saved, err := s.opts.Layouts.SaveLayout(name, LayoutSnapshot{
		Widgets:  s.state.Widgets,
		Configs:  s.state.Configs,
		GridSize: s.state.GridSize,
	})
	if err != nil {
		s.mu.Unlock()
		return SavedLayout{}, err
	}
	s.state.ActiveLayoutKey = saved.Key
	persistErr := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: saved.Key, Reason: "save"})
	s.recordTelemetry(ctx, "dashboard.layout.save", map[string]any{
		"layout":    saved.Key,
		"widgets":   len(saved.Widgets),
		"persisted": persistErr == nil,
	})
	return saved, persistErr
}

// DeleteLayout removes a saved layout and persists the change. The current dashboard
// state is left as is.
func (s *Service) DeleteLayout(ctx context.Context, key string) error {
	s.mu.Lock()
	if err := s.opts.Layouts.DeleteLayout(key); err != nil {
		s.mu.Unlock()
		return err
	}
	persistErr := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: key, Reason: "delete"})
	s.recordTelemetry(ctx, "dashboard.layout.delete", map[string]any{"layout": key})
	return persistErr
}

// Restore loads saved layouts and widget configuration from persistence. It reports
// whether a document was found.
func (s *Service) Restore(ctx context.Context) bool {
	doc, ok := s.opts.Persistence.Restore(ctx)
	if !ok {
		s.opts.Logger.Info("no persisted dashboard layouts")
		return false
	}
	layouts := make(map[string]SavedLayout, len(doc.Layouts))
	for key, layout := range doc.Layouts {
		if err := validateSavedLayout(s.opts.Catalog, layout); err != nil {
			s.opts.Logger.Warn("skipping invalid persisted layout", zap.String("layout", key), zap.Error(err))
			continue
		}
		layouts[key] = layout
	}

	s.mu.Lock()
	s.opts.Layouts.ReplaceSaved(layouts)
	for id, cfg := range doc.Configs {
		s.state.Configs[id] = cfg.Clone()
	}
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()

	s.opts.Logger.Info("restored dashboard layouts",
		zap.Int("layouts", len(layouts)),
		zap.Int("configs", len(doc.Configs)),
	)
	s.publish(ctx, WidgetEvent{LayoutKey: key, Reason: "restore"})
	s.recordTelemetry(ctx, "dashboard.layout.restore", map[string]any{"layouts": len(layouts)})
	return true
}

// validateSavedLayout checks every placement of a stored layout against the catalog.
func validateSavedLayout(catalog WidgetCatalog, layout SavedLayout) error {
	seen := make(map[string]struct{}, len(layout.Widgets))
	for i, widget := range layout.Widgets {
		if widget.ID == "" {
			return fmt.Errorf("widget %d has no id", i)
		}
		if _, dup := seen[widget.ID]; dup {
			return fmt.Errorf("duplicate widget id %q", widget.ID)
		}
		seen[widget.ID] = struct{}{}
		if _, ok := catalog.Describe(widget.Type); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownWidgetType, widget.Type)
		}
		if widget.Size.Width < 1 || widget.Size.Height < 1 {
			return fmt.Errorf("widget %q size %dx%d", widget.ID, widget.Size.Width, widget.Size.Height)
		}
		if widget.Position.X < 0 || widget.Position.Y < 0 {
			return fmt.Errorf("widget %q position %d,%d", widget.ID, widget.Position.X, widget.Position.Y)
		}
	}
	return nil
}

func (s *Service) persistLocked(ctx context.Context) error {
	saved := s.opts.Layouts.SavedLayouts()
	layouts := make(map[string]SavedLayout, len(saved))
	for _, layout := range saved {
		layouts[layout.Key] = layout
	}
	if err := s.opts.Persistence.Persist(ctx, layouts, cloneConfigs(s.state.Configs)); err != nil {
		s.opts.Logger.Error("persist dashboard layouts", zap.Error(err))
		if !errors.Is(err, ErrPersistFailed) {
			err = fmt.Errorf("%w: %w", ErrPersistFailed, err)
		}
		return err
	}
	return nil
}

// nextID calls the id generator and appends a short random suffix until the id is free.
func (s *Service) nextID(typeID string) string {
	id := s.opts.IDGenerator(typeID, s.opts.Clock())
	for s.state.WidgetIndex(id) >= 0 {
		id = s.opts.IDGenerator(typeID, s.opts.Clock()) + "_" + uuid.NewString()[:8]
	}
	return id
}

func (s *Service) cols() int {
	return s.state.GridSize.Cols
}

func (s *Service) publish(ctx context.Context, event WidgetEvent) {
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		s.opts.Logger.Warn("refresh hook failed", zap.String("reason", event.Reason), zap.Error(err))
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func timestampID(typeID string, now time.Time) string {
	return fmt.Sprintf("%s_%d", typeID, now.UnixMilli())
}

func normalizeConfigValue(value any) (any, error) {
	switch v := value.(type) {
	case string, bool, float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

type noopPersister struct{}

func (noopPersister) Persist(context.Context, map[string]SavedLayout, map[string]WidgetConfiguration) error {
	return nil
}

func (noopPersister) Restore(context.Context) (PersistedDocument, bool) {
	return PersistedDocument{}, false
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}
