package dashboard

import (
	"context"
	"fmt"
)

// HandleDrop interprets a completed drag gesture. A drag from the widget library inserts
// the dragged type at the destination index; a drag inside the dashboard moves the widget.
// Every other combination is rejected without touching the state.
func (s *Service) HandleDrop(ctx context.Context, event DropEvent) error {
	if event.Destination == nil {
		return ErrDropCancelled
	}
	dest := *event.Destination

	switch {
	case event.Source.Container == ContainerWidgetLibrary && dest.Container == ContainerDashboard:
		index := dest.Index
		_, err := s.AddWidget(ctx, AddWidgetRequest{Type: event.DraggedItemID, Index: &index})
		return err
	case event.Source.Container == ContainerDashboard && dest.Container == ContainerDashboard:
		return s.moveWidget(ctx, event.Source.Index, dest.Index, event.DraggedItemID)
	default:
		return fmt.Errorf("%w: %s -> %s", ErrUnsupportedDrop, event.Source.Container, dest.Container)
	}
}

func (s *Service) moveWidget(ctx context.Context, from, to int, draggedID string) error {
	s.mu.Lock()
	if !s.state.EditMode {
		s.mu.Unlock()
		return ErrEditModeDisabled
	}
	if draggedID != "" && from >= 0 && from < len(s.state.Widgets) && s.state.Widgets[from].ID != draggedID {
		actual := s.state.Widgets[from].ID
		s.mu.Unlock()
		return fmt.Errorf("%w: %q at index %d, event names %q", ErrDropMismatch, actual, from, draggedID)
	}
	widgets, err := MoveWidget(s.state.Widgets, from, to, s.cols(), s.opts.PositionPolicy)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.Widgets = widgets
	moved := widgets[to]
	key := s.state.ActiveLayoutKey
	s.mu.Unlock()

	s.publish(ctx, WidgetEvent{LayoutKey: key, Widget: moved, Reason: "reorder"})
	s.recordTelemetry(ctx, "dashboard.widget.reorder", map[string]any{
		"layout":    key,
		"widget_id": moved.ID,
		"from":      from,
		"to":        to,
	})
	return nil
}
