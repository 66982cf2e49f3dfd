package dashboard

import "fmt"

// PositionPolicy controls which widgets get their grid position recomputed after a
// structural change to the widget list.
type PositionPolicy string

const (
	// PositionReflowAll recomputes every widget position from its list index.
	PositionReflowAll PositionPolicy = "reflow-all"
	// PositionReflowMoved only repositions the inserted or moved widget; siblings keep
	// their stored positions.
	PositionReflowMoved PositionPolicy = "reflow-moved"
)

// PositionForIndex maps a list index onto the grid, row-major.
func PositionForIndex(index, cols int) Position {
	if cols <= 0 {
		cols = DefaultGridSize.Cols
	}
	if index < 0 {
		index = 0
	}
	return Position{X: index % cols, Y: index / cols}
}

// Reflow returns a copy of widgets with every position derived from its list index.
func Reflow(widgets []WidgetPlacement, cols int) []WidgetPlacement {
	out := cloneWidgets(widgets)
	for i := range out {
		out[i].Position = PositionForIndex(i, cols)
	}
	return out
}

// InsertWidget returns a new list with widget inserted at index (clamped to the list).
func InsertWidget(widgets []WidgetPlacement, widget WidgetPlacement, index, cols int, policy PositionPolicy) []WidgetPlacement {
	index = max(0, min(index, len(widgets)))
	widget.Position = PositionForIndex(index, cols)
	out := make([]WidgetPlacement, 0, len(widgets)+1)
	out = append(out, widgets[:index]...)
	out = append(out, widget)
	out = append(out, widgets[index:]...)
	if policy == PositionReflowAll {
		return Reflow(out, cols)
	}
	return out
}

// MoveWidget removes the widget at from and re-inserts it at to. Both indices refer to the
// list before the move and must be in range.
func MoveWidget(widgets []WidgetPlacement, from, to, cols int, policy PositionPolicy) ([]WidgetPlacement, error) {
	if from < 0 || from >= len(widgets) {
		return nil, fmt.Errorf("%w: source index %d, %d widgets", ErrIndexOutOfRange, from, len(widgets))
	}
	if to < 0 || to >= len(widgets) {
		return nil, fmt.Errorf("%w: destination index %d, %d widgets", ErrIndexOutOfRange, to, len(widgets))
	}
	moved := widgets[from]
	rest := make([]WidgetPlacement, 0, len(widgets))
	rest = append(rest, widgets[:from]...)
	rest = append(rest, widgets[from+1:]...)
	return InsertWidget(rest, moved, to, cols, policy), nil
}

// RemoveWidgetAt returns a new list without the widget at index.
func RemoveWidgetAt(widgets []WidgetPlacement, index, cols int, policy PositionPolicy) []WidgetPlacement {
	out := make([]WidgetPlacement, 0, len(widgets))
	out = append(out, widgets[:index]...)
	out = append(out, widgets[index+1:]...)
	if policy == PositionReflowAll {
		return Reflow(out, cols)
	}
	return out
}
