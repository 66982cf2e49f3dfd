package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWidgets(n int) []WidgetPlacement {
	out := make([]WidgetPlacement, n)
	for i := range out {
		out[i] = WidgetPlacement{
			ID:       fmt.Sprintf("w%d", i),
			Type:     "metric_card",
			Position: Position{X: 9, Y: 9},
			Size:     Size{Width: 1, Height: 1},
		}
	}
	return out
}

func widgetIDs(widgets []WidgetPlacement) []string {
	ids := make([]string, len(widgets))
	for i, w := range widgets {
		ids[i] = w.ID
	}
	return ids
}

func TestPositionForIndex(t *testing.T) {
	assert.Equal(t, Position{X: 0, Y: 0}, PositionForIndex(0, 4))
	assert.Equal(t, Position{X: 3, Y: 0}, PositionForIndex(3, 4))
	assert.Equal(t, Position{X: 1, Y: 1}, PositionForIndex(5, 4))
	assert.Equal(t, Position{X: 1, Y: 2}, PositionForIndex(5, 2))
	assert.Equal(t, Position{X: 2, Y: 0}, PositionForIndex(2, 0), "non-positive cols fall back to the default grid")
}

func TestMoveWidgetIsPermutation(t *testing.T) {
	widgets := sampleWidgets(6)
	original := widgetIDs(widgets)
	sortedOriginal := slices.Sorted(slices.Values(original))
	for from := range widgets {
		for to := range widgets {
			for _, policy := range []PositionPolicy{PositionReflowAll, PositionReflowMoved} {
				moved, err := MoveWidget(widgets, from, to, 4, policy)
				require.NoError(t, err)
				require.Len(t, moved, len(widgets))
				ids := widgetIDs(moved)
				assert.Equal(t, sortedOriginal, slices.Sorted(slices.Values(ids)), "from=%d to=%d", from, to)
				assert.Equal(t, original[from], ids[to], "moved widget lands at destination")
			}
		}
	}
	assert.Equal(t, original, widgetIDs(widgets), "input slice must not be mutated")
}

func TestMoveWidgetPolicies(t *testing.T) {
	widgets := Reflow(sampleWidgets(5), 4)

	all, err := MoveWidget(widgets, 0, 4, 4, PositionReflowAll)
	require.NoError(t, err)
	for i, w := range all {
		assert.Equal(t, PositionForIndex(i, 4), w.Position, "widget %s", w.ID)
	}

	movedOnly, err := MoveWidget(widgets, 0, 4, 4, PositionReflowMoved)
	require.NoError(t, err)
	assert.Equal(t, "w0", movedOnly[4].ID)
	assert.Equal(t, Position{X: 0, Y: 1}, movedOnly[4].Position)
	assert.Equal(t, Position{X: 1, Y: 0}, movedOnly[0].Position, "siblings keep stale positions")
}

func TestMoveWidgetRejectsOutOfRange(t *testing.T) {
	widgets := sampleWidgets(3)
	_, err := MoveWidget(widgets, 3, 0, 4, PositionReflowAll)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = MoveWidget(widgets, 0, -1, 4, PositionReflowAll)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestInsertWidgetClampsIndex(t *testing.T) {
	widgets := sampleWidgets(2)
	out := InsertWidget(widgets, WidgetPlacement{ID: "new", Type: "table"}, 10, 4, PositionReflowMoved)
	require.Len(t, out, 3)
	assert.Equal(t, "new", out[2].ID)
	assert.Equal(t, Position{X: 2, Y: 0}, out[2].Position)

	out = InsertWidget(widgets, WidgetPlacement{ID: "first"}, -3, 4, PositionReflowAll)
	assert.Equal(t, []string{"first", "w0", "w1"}, widgetIDs(out))
	assert.Equal(t, Position{X: 2, Y: 0}, out[2].Position)
}

func TestRemoveWidgetAt(t *testing.T) {
	widgets := Reflow(sampleWidgets(3), 4)
	out := RemoveWidgetAt(widgets, 0, 4, PositionReflowAll)
	assert.Equal(t, []string{"w1", "w2"}, widgetIDs(out))
	assert.Equal(t, Position{X: 0, Y: 0}, out[0].Position)
	assert.Len(t, widgets, 3)
}
