package dashboard

import "context"

// RenderInput is everything a renderer needs to draw one widget.
type RenderInput struct {
	Placement WidgetPlacement     `json:"placement"`
	Config    WidgetConfiguration `json:"config"`
	Data      WidgetData          `json:"data"`
	Locale    string              `json:"locale,omitempty"`
}

// RenderedWidget is the renderer output for one placement. Empty marks widgets that had no
// data to draw; callers show a "no data" state instead of HTML.
type RenderedWidget struct {
	WidgetID string              `json:"widget_id"`
	Type     string              `json:"type"`
	Title    string              `json:"title,omitempty"`
	HTML     string              `json:"html,omitempty"`
	Empty    bool                `json:"empty,omitempty"`
	Config   WidgetConfiguration `json:"config,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// WidgetRenderer turns a placement, its configuration and data into markup. Renderers
// return ErrUnsupportedWidget for types they do not draw.
type WidgetRenderer interface {
	RenderWidget(ctx context.Context, input RenderInput) (RenderedWidget, error)
}
