package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type collectingHook struct {
	mu     sync.Mutex
	events []WidgetEvent
}

func (h *collectingHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *collectingHook) reasons() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.Reason
	}
	return out
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

type stubPersister struct {
	mu      sync.Mutex
	err     error
	calls   int
	layouts map[string]SavedLayout
	configs map[string]WidgetConfiguration
	restore *PersistedDocument
}

func (p *stubPersister) Persist(_ context.Context, layouts map[string]SavedLayout, configs map[string]WidgetConfiguration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return p.err
	}
	p.layouts = layouts
	p.configs = configs
	return nil
}

func (p *stubPersister) Restore(context.Context) (PersistedDocument, bool) {
	if p.restore == nil {
		return PersistedDocument{}, false
	}
	return *p.restore, true
}

func blankLayouts() *LayoutRegistry {
	return NewLayoutRegistry(WithBuiltInLayouts([]LayoutDefinition{
		{Key: "blank", Name: "Blank", GridSize: DefaultGridSize},
		{Key: "overview", Name: "Overview", GridSize: DefaultGridSize, Widgets: DefaultLayouts()[0].Widgets, Configs: DefaultLayouts()[0].Configs},
	}))
}

func newBlankService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Layouts == nil {
		opts.Layouts = blankLayouts()
	}
	if opts.InitialLayout == "" {
		opts.InitialLayout = "blank"
	}
	if opts.Clock == nil {
		ts := time.UnixMilli(1714564800000)
		opts.Clock = func() time.Time { return ts }
	}
	return NewService(opts)
}

func intPtr(v int) *int { return &v }

func TestNewServiceStartsOnOverview(t *testing.T) {
	svc := NewService(Options{})
	state := svc.State()
	if state.ActiveLayoutKey != "overview" {
		t.Fatalf("expected overview layout, got %q", state.ActiveLayoutKey)
	}
	if len(state.Widgets) != 6 {
		t.Fatalf("expected 6 overview widgets, got %d", len(state.Widgets))
	}
	if state.EditMode {
		t.Fatalf("expected edit mode off by default")
	}
	if state.GridSize != DefaultGridSize {
		t.Fatalf("expected default grid, got %+v", state.GridSize)
	}
}

func TestAddWidgetRespectsEditMode(t *testing.T) {
	svc := newBlankService(t, Options{})
	before := svc.State()
	_, err := svc.AddWidget(context.Background(), AddWidgetRequest{Type: "metric_card"})
	if !errors.Is(err, ErrEditModeDisabled) {
		t.Fatalf("expected ErrEditModeDisabled, got %v", err)
	}
	if !reflect.DeepEqual(before, svc.State()) {
		t.Fatalf("state changed while edit mode was off")
	}
}

func TestAddMetricCardAtIndexZero(t *testing.T) {
	hook := &collectingHook{}
	svc := newBlankService(t, Options{RefreshHook: hook})
	require.NoError(t, svc.SetEditMode(context.Background(), true))

	widget, err := svc.AddWidget(context.Background(), AddWidgetRequest{Type: "metric_card", Index: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, Position{X: 0, Y: 0}, widget.Position)
	assert.Equal(t, Size{Width: 1, Height: 1}, widget.Size)
	assert.Equal(t, "metric_card_1714564800000", widget.ID)
	assert.Equal(t, []string{"edit_mode", "add"}, hook.reasons())

	state := svc.State()
	require.Len(t, state.Widgets, 1)
	assert.Equal(t, widget, state.Widgets[0])
}

func TestAddWidgetUnknownType(t *testing.T) {
	svc := newBlankService(t, Options{})
	require.NoError(t, svc.SetEditMode(context.Background(), true))
	_, err := svc.AddWidget(context.Background(), AddWidgetRequest{Type: "sparkline"})
	assert.True(t, errors.Is(err, ErrUnknownWidgetType))
	assert.Empty(t, svc.State().Widgets)
}

func TestAddWidgetKeepsIDsUnique(t *testing.T) {
	svc := newBlankService(t, Options{})
	require.NoError(t, svc.SetEditMode(context.Background(), true))
	first, err := svc.AddWidget(context.Background(), AddWidgetRequest{Type: "table"})
	require.NoError(t, err)
	second, err := svc.AddWidget(context.Background(), AddWidgetRequest{Type: "table"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Contains(t, second.ID, first.ID+"_")
}

func TestAddWidgetReflowsSiblings(t *testing.T) {
	svc := newBlankService(t, Options{InitialLayout: "overview", Layouts: blankLayouts()})
	require.NoError(t, svc.SetEditMode(context.Background(), true))
	_, err := svc.AddWidget(context.Background(), AddWidgetRequest{Type: "real_time", Index: intPtr(1)})
	require.NoError(t, err)
	for i, w := range svc.State().Widgets {
		assert.Equal(t, PositionForIndex(i, 4), w.Position, "widget %s", w.ID)
	}
}

func TestRemoveWidgetClearsSelection(t *testing.T) {
	svc := newBlankService(t, Options{InitialLayout: "overview"})
	ctx := context.Background()
	require.NoError(t, svc.SetEditMode(ctx, true))
	require.NoError(t, svc.SelectWidget(ctx, "overview_revenue"))

	require.NoError(t, svc.RemoveWidget(ctx, "overview_revenue"))
	state := svc.State()
	assert.Empty(t, state.SelectedWidgetID)
	assert.Equal(t, -1, state.WidgetIndex("overview_revenue"))
	assert.Contains(t, state.Configs, "overview_revenue", "configuration entries outlive their widget")

	assert.True(t, errors.Is(svc.RemoveWidget(ctx, "overview_revenue"), ErrWidgetNotFound))
	require.NoError(t, svc.SetEditMode(ctx, false))
	assert.True(t, errors.Is(svc.RemoveWidget(ctx, "overview_students"), ErrEditModeDisabled))
}

func TestDuplicateWidgetIndependence(t *testing.T) {
	svc := newBlankService(t, Options{InitialLayout: "overview"})
	ctx := context.Background()
	require.NoError(t, svc.SetEditMode(ctx, true))

	dup, err := svc.DuplicateWidget(ctx, "overview_courses")
	require.NoError(t, err)
	assert.Equal(t, "metric_card", dup.Type)
	assert.Equal(t, Position{X: 2, Y: 0}, dup.Position)
	assert.Equal(t, Size{Width: 1, Height: 1}, dup.Size)

	state := svc.State()
	assert.Equal(t, dup.ID, state.Widgets[len(state.Widgets)-1].ID, "duplicate is appended")
	assert.Equal(t, state.Configs["overview_courses"], state.Configs[dup.ID])

	require.NoError(t, svc.UpdateWidgetConfig(ctx, dup.ID, "title", "Copy"))
	state = svc.State()
	assert.Equal(t, "Active Courses", state.Configs["overview_courses"]["title"])
	assert.Equal(t, "Copy", state.Configs[dup.ID]["title"])

	_, err = svc.DuplicateWidget(ctx, "missing")
	assert.True(t, errors.Is(err, ErrWidgetNotFound))
}

func TestUpdateWidgetConfigMergesAndNormalizes(t *testing.T) {
	svc := newBlankService(t, Options{})
	ctx := context.Background()
	require.NoError(t, svc.UpdateWidgetConfig(ctx, "orphan", "page_size", 25))
	require.NoError(t, svc.UpdateWidgetConfig(ctx, "orphan", "sortable", true))

	cfg := svc.State().Configs["orphan"]
	assert.Equal(t, WidgetConfiguration{"page_size": float64(25), "sortable": true}, cfg)

	err := svc.UpdateWidgetConfig(ctx, "orphan", "filters", []string{"a"})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	err = svc.UpdateWidgetConfig(ctx, "orphan", "", "x")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestUpdateWidgetConfigRejectsNonFiniteNumbers(t *testing.T) {
	svc := newBlankService(t, Options{InitialLayout: "overview", Persistence: &stubPersister{}})
	ctx := context.Background()
	require.NoError(t, svc.SetEditMode(ctx, true))

	for _, value := range []any{math.NaN(), math.Inf(1), float32(math.Inf(-1)), json.Number("NaN")} {
		err := svc.UpdateWidgetConfig(ctx, "overview_students", "threshold", value)
		assert.True(t, errors.Is(err, ErrInvalidConfig), "value %v", value)
	}
	assert.NotContains(t, svc.State().Configs["overview_students"], "threshold")

	adapter := NewPersistenceAdapter(NewMemoryStore())
	persisted := newBlankService(t, Options{InitialLayout: "overview", Persistence: adapter})
	assert.Error(t, persisted.UpdateWidgetConfig(ctx, "overview_students", "threshold", math.NaN()))
	_, err := persisted.SaveLayout(ctx, "First")
	require.NoError(t, err)
}

func TestUpdateWidgetConfigStrict(t *testing.T) {
	svc := newBlankService(t, Options{InitialLayout: "overview", StrictConfig: true})
	ctx := context.Background()
	require.NoError(t, svc.UpdateWidgetConfig(ctx, "overview_students", "color", "teal"))

	err := svc.UpdateWidgetConfig(ctx, "overview_students", "color", "magenta")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Equal(t, "teal", svc.State().Configs["overview_students"]["color"])

	err = svc.UpdateWidgetConfig(ctx, "ghost", "title", "x")
	assert.True(t, errors.Is(err, ErrWidgetNotFound))
}

func TestSwitchLayoutNotFoundLeavesStateUnchanged(t *testing.T) {
	svc := newBlankService(t, Options{InitialLayout: "overview"})
	ctx := context.Background()
	require.NoError(t, svc.SetEditMode(ctx, true))
	require.NoError(t, svc.SelectWidget(ctx, "overview_students"))
	before := svc.State()

	err := svc.SwitchLayout(ctx, "does_not_exist")
	if !errors.Is(err, ErrLayoutNotFound) {
		t.Fatalf("expected ErrLayoutNotFound, got %v", err)
	}
	if !reflect.DeepEqual(before, svc.State()) {
		t.Fatalf("state changed after failed switch")
	}
}

func TestSwitchLayoutReplacesState(t *testing.T) {
	svc := NewService(Options{})
	ctx := context.Background()
	require.NoError(t, svc.SelectWidget(ctx, "overview_students"))
	require.NoError(t, svc.SetEditMode(ctx, true))

	require.NoError(t, svc.SwitchLayout(ctx, "training"))
	state := svc.State()
	assert.Equal(t, "training", state.ActiveLayoutKey)
	assert.Len(t, state.Widgets, 5)
	assert.Equal(t, "Training Hours", state.Configs["training_hours"]["title"])
	assert.Empty(t, state.SelectedWidgetID)
	assert.True(t, state.EditMode, "switching leaves edit mode alone")
}

func TestSaveLayoutPersistsAndActivates(t *testing.T) {
	persister := &stubPersister{}
	telemetry := &recordingTelemetry{}
	svc := newBlankService(t, Options{InitialLayout: "overview", Persistence: persister, Telemetry: telemetry})
	ctx := context.Background()

	saved, err := svc.SaveLayout(ctx, "My Dashboard")
	require.NoError(t, err)
	assert.Equal(t, "my_dashboard", saved.Key)
	assert.Len(t, saved.Widgets, 6)
	assert.Equal(t, "my_dashboard", svc.State().ActiveLayoutKey)

	require.Equal(t, 1, persister.calls)
	assert.Contains(t, persister.layouts, "my_dashboard")
	assert.Equal(t, "Total Students", persister.configs["overview_students"]["title"])
	assert.Contains(t, telemetry.events, "dashboard.layout.save")

	_, err = svc.SaveLayout(ctx, "My  Dashboard")
	require.NoError(t, err)
	assert.Len(t, svc.Layouts().SavedLayouts(), 1, "colliding names overwrite")

	_, err = svc.SaveLayout(ctx, " ")
	assert.True(t, errors.Is(err, ErrEmptyLayoutName))
}

func TestSaveLayoutPersistFailureKeepsInMemorySave(t *testing.T) {
	persister := &stubPersister{err: errors.New("disk full")}
	svc := newBlankService(t, Options{Persistence: persister})

	saved, err := svc.SaveLayout(context.Background(), "Weekly")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistFailed))
	assert.Equal(t, "weekly", saved.Key)

	require.NoError(t, svc.SwitchLayout(context.Background(), "blank"))
	require.NoError(t, svc.SwitchLayout(context.Background(), "weekly"))
}

func TestServiceDeleteLayout(t *testing.T) {
	persister := &stubPersister{}
	svc := newBlankService(t, Options{Persistence: persister})
	ctx := context.Background()
	_, err := svc.SaveLayout(ctx, "Scratch")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLayout(ctx, "scratch"))
	assert.Equal(t, 2, persister.calls)
	assert.NotContains(t, persister.layouts, "scratch")
	assert.True(t, errors.Is(svc.DeleteLayout(ctx, "scratch"), ErrLayoutNotFound))
	assert.True(t, errors.Is(svc.DeleteLayout(ctx, "blank"), ErrBuiltInLayout))
}

func TestRestoreLoadsSavedLayoutsAndConfigs(t *testing.T) {
	persister := &stubPersister{restore: &PersistedDocument{
		Layouts: map[string]SavedLayout{
			"ops": {Name: "Ops", Key: "ops", Widgets: []WidgetPlacement{{ID: "t1", Type: "table", Size: Size{Width: 4, Height: 2}}}},
		},
		Configs: map[string]WidgetConfiguration{"overview_students": {"title": "Learners"}},
	}}
	svc := newBlankService(t, Options{InitialLayout: "overview", Persistence: persister})

	require.True(t, svc.Restore(context.Background()))
	assert.Equal(t, "Learners", svc.State().Configs["overview_students"]["title"])
	require.NoError(t, svc.SwitchLayout(context.Background(), "ops"))
	assert.Equal(t, "t1", svc.State().Widgets[0].ID)

	empty := newBlankService(t, Options{Persistence: &stubPersister{}})
	assert.False(t, empty.Restore(context.Background()))
}

func TestNewServiceLogsCatalogFailure(t *testing.T) {
	globalHookMu.Lock()
	saved := globalHooks
	globalHooks = []CatalogHook{func(*Catalog) error { return errors.New("hook exploded") }}
	globalHookMu.Unlock()
	t.Cleanup(func() {
		globalHookMu.Lock()
		globalHooks = saved
		globalHookMu.Unlock()
	})

	core, logs := observer.New(zap.ErrorLevel)
	svc := NewService(Options{Layouts: blankLayouts(), InitialLayout: "blank", Logger: zap.New(core)})

	assert.Empty(t, svc.Catalog().Types())
	entries := logs.FilterMessage("default widget catalog failed, starting empty").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hook exploded", entries[0].ContextMap()["error"])
}

func TestRestoreSkipsInvalidLayouts(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	persister := &stubPersister{restore: &PersistedDocument{
		Layouts: map[string]SavedLayout{
			"unknown_type": {Name: "Unknown", Key: "unknown_type", Widgets: []WidgetPlacement{
				{ID: "a", Type: "no_such_type", Size: Size{Width: 1, Height: 1}},
			}},
			"duplicate_ids": {Name: "Dup", Key: "duplicate_ids", Widgets: []WidgetPlacement{
				{ID: "a", Type: "metric_card", Size: Size{Width: 1, Height: 1}},
				{ID: "a", Type: "table", Size: Size{Width: 4, Height: 2}},
			}},
			"bad_size": {Name: "Size", Key: "bad_size", Widgets: []WidgetPlacement{
				{ID: "a", Type: "metric_card", Size: Size{Width: 0, Height: -3}},
			}},
			"bad_position": {Name: "Position", Key: "bad_position", Widgets: []WidgetPlacement{
				{ID: "a", Type: "metric_card", Position: Position{X: -5}, Size: Size{Width: 1, Height: 1}},
			}},
			"ok": {Name: "Ok", Key: "ok", Widgets: []WidgetPlacement{
				{ID: "t1", Type: "table", Size: Size{Width: 4, Height: 2}},
			}},
		},
	}}
	svc := newBlankService(t, Options{Persistence: persister, Logger: zap.New(core)})
	ctx := context.Background()

	require.True(t, svc.Restore(ctx))
	for _, key := range []string{"unknown_type", "duplicate_ids", "bad_size", "bad_position"} {
		err := svc.SwitchLayout(ctx, key)
		assert.True(t, errors.Is(err, ErrLayoutNotFound), "layout %s", key)
	}
	assert.Equal(t, "blank", svc.State().ActiveLayoutKey)
	require.NoError(t, svc.SwitchLayout(ctx, "ok"))
	assert.Equal(t, 4, logs.FilterMessage("skipping invalid persisted layout").Len())
}

func TestPersistenceRoundTripThroughService(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	first := newBlankService(t, Options{InitialLayout: "overview", Persistence: NewPersistenceAdapter(store)})
	require.NoError(t, first.UpdateWidgetConfig(ctx, "overview_students", "color", "red"))
	saved, err := first.SaveLayout(ctx, "Round Trip")
	require.NoError(t, err)

	second := newBlankService(t, Options{Persistence: NewPersistenceAdapter(store)})
	require.True(t, second.Restore(ctx))
	restored, ok := second.Layouts().(*LayoutRegistry).SavedLayout("round_trip")
	require.True(t, ok)
	assert.Equal(t, saved, restored)
	assert.Equal(t, "red", second.State().Configs["overview_students"]["color"])
}

func TestRefreshDataDiscardsStaleResults(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	source := DataSourceFunc(func(ctx context.Context, layoutKey string) (WidgetData, error) {
		if layoutKey == "overview" {
			close(started)
			<-release
		}
		return WidgetData{"layout": layoutKey}, nil
	})
	svc := newBlankService(t, Options{InitialLayout: "overview", DataSource: source})

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.RefreshData(context.Background())
		errCh <- err
	}()
	<-started
	require.NoError(t, svc.SwitchLayout(context.Background(), "blank"))
	close(release)

	err := <-errCh
	assert.True(t, errors.Is(err, ErrStaleData), "got %v", err)
	assert.Nil(t, svc.Data())

	data, err := svc.RefreshData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "blank", data["layout"])
	assert.Equal(t, data, svc.Data())
}

func TestRefreshDataErrors(t *testing.T) {
	svc := newBlankService(t, Options{})
	_, err := svc.RefreshData(context.Background())
	assert.True(t, errors.Is(err, ErrMissingDataSource))

	failing := newBlankService(t, Options{DataSource: DataSourceFunc(func(context.Context, string) (WidgetData, error) {
		return nil, errors.New("timeout")
	})})
	_, err = failing.RefreshData(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
