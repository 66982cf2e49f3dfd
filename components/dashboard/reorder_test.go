package dashboard

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editingOverview(t *testing.T, opts Options) *Service {
	t.Helper()
	opts.InitialLayout = "overview"
	svc := newBlankService(t, opts)
	require.NoError(t, svc.SetEditMode(context.Background(), true))
	return svc
}

func dashboardDrop(from, to int, id string) DropEvent {
	return DropEvent{
		Source:        DropLocation{Container: ContainerDashboard, Index: from},
		Destination:   &DropLocation{Container: ContainerDashboard, Index: to},
		DraggedItemID: id,
	}
}

func TestHandleDropRejectsWithoutChanges(t *testing.T) {
	svc := editingOverview(t, Options{})
	before := svc.State()
	ctx := context.Background()

	cases := map[string]struct {
		event DropEvent
		want  error
	}{
		"cancelled": {
			event: DropEvent{Source: DropLocation{Container: ContainerDashboard, Index: 0}},
			want:  ErrDropCancelled,
		},
		"library to library": {
			event: DropEvent{
				Source:      DropLocation{Container: ContainerWidgetLibrary, Index: 0},
				Destination: &DropLocation{Container: ContainerWidgetLibrary, Index: 1},
			},
			want: ErrUnsupportedDrop,
		},
		"dashboard to library": {
			event: DropEvent{
				Source:      DropLocation{Container: ContainerDashboard, Index: 0},
				Destination: &DropLocation{Container: ContainerWidgetLibrary, Index: 0},
			},
			want: ErrUnsupportedDrop,
		},
		"out of range": {
			event: dashboardDrop(0, 6, ""),
			want:  ErrIndexOutOfRange,
		},
		"mismatched item": {
			event: dashboardDrop(0, 2, "overview_revenue"),
			want:  ErrDropMismatch,
		},
		"unknown library type": {
			event: DropEvent{
				Source:        DropLocation{Container: ContainerWidgetLibrary, Index: 3},
				Destination:   &DropLocation{Container: ContainerDashboard, Index: 0},
				DraggedItemID: "gauge",
			},
			want: ErrUnknownWidgetType,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.HandleDrop(ctx, tc.event)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !reflect.DeepEqual(before, svc.State()) {
				t.Fatalf("state changed after rejected drop")
			}
		})
	}
}

func TestHandleDropRequiresEditMode(t *testing.T) {
	svc := newBlankService(t, Options{InitialLayout: "overview"})
	err := svc.HandleDrop(context.Background(), dashboardDrop(0, 1, ""))
	assert.True(t, errors.Is(err, ErrEditModeDisabled))

	err = svc.HandleDrop(context.Background(), DropEvent{
		Source:        DropLocation{Container: ContainerWidgetLibrary},
		Destination:   &DropLocation{Container: ContainerDashboard},
		DraggedItemID: "metric_card",
	})
	assert.True(t, errors.Is(err, ErrEditModeDisabled))
}

func TestHandleDropFromLibraryInserts(t *testing.T) {
	hook := &collectingHook{}
	svc := editingOverview(t, Options{RefreshHook: hook})
	err := svc.HandleDrop(context.Background(), DropEvent{
		Source:        DropLocation{Container: ContainerWidgetLibrary, Index: 1},
		Destination:   &DropLocation{Container: ContainerDashboard, Index: 2},
		DraggedItemID: "bar_chart",
	})
	require.NoError(t, err)

	state := svc.State()
	require.Len(t, state.Widgets, 7)
	assert.Equal(t, "bar_chart", state.Widgets[2].Type)
	assert.Equal(t, Position{X: 2, Y: 0}, state.Widgets[2].Position)
	assert.Equal(t, Size{Width: 2, Height: 2}, state.Widgets[2].Size)
	assert.Equal(t, "add", hook.reasons()[len(hook.reasons())-1])
}

func TestHandleDropReorderIsPermutation(t *testing.T) {
	svc := editingOverview(t, Options{})
	original := widgetIDs(svc.State().Widgets)

	require.NoError(t, svc.HandleDrop(context.Background(), dashboardDrop(0, 5, "overview_students")))
	state := svc.State()
	ids := widgetIDs(state.Widgets)
	assert.Equal(t, "overview_students", ids[5])
	assert.Equal(t, slices.Sorted(slices.Values(original)), slices.Sorted(slices.Values(ids)))
	for i, w := range state.Widgets {
		assert.Equal(t, PositionForIndex(i, 4), w.Position)
	}
}

func TestHandleDropReflowMovedKeepsSiblingPositions(t *testing.T) {
	svc := editingOverview(t, Options{PositionPolicy: PositionReflowMoved})
	before := svc.State()

	require.NoError(t, svc.HandleDrop(context.Background(), dashboardDrop(4, 0, "")))
	state := svc.State()
	assert.Equal(t, "overview_enrollment_trend", state.Widgets[0].ID)
	assert.Equal(t, Position{X: 0, Y: 0}, state.Widgets[0].Position)
	assert.Equal(t, before.Widgets[0].Position, state.Widgets[1].Position, "sibling keeps its stored position")
	assert.Equal(t, before.Widgets[5].Position, state.Widgets[5].Position)
}
