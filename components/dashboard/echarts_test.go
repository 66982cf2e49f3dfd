package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartInput(widgetType string, cfg WidgetConfiguration, data WidgetData) RenderInput {
	return RenderInput{
		Placement: WidgetPlacement{ID: widgetType + "_1", Type: widgetType, Size: Size{Width: 2, Height: 2}},
		Config:    cfg,
		Data:      data,
	}
}

func TestEChartsRendererBar(t *testing.T) {
	t.Parallel()
	renderer := NewEChartsRenderer()
	out, err := renderer.RenderWidget(context.Background(), chartInput("bar_chart",
		WidgetConfiguration{"title": "Scores", "metric": "course_scores", "stacked": true},
		WidgetData{"course_scores": map[string]any{
			"x_axis": []any{"Go", "SQL", "Ops"},
			"series": []any{
				map[string]any{"name": "2024", "data": []any{81.0, 74.0, 90.0}},
				map[string]any{"name": "2023", "data": []any{77.0, 70.0, 85.0}},
			},
		}},
	))
	require.NoError(t, err)
	assert.Equal(t, "Scores", out.Title)
	assert.False(t, out.Empty)
	assert.Contains(t, out.HTML, "echarts")
	assert.Contains(t, out.HTML, "Scores")
}

func TestEChartsRendererLineFromPointList(t *testing.T) {
	t.Parallel()
	renderer := NewEChartsRenderer(WithRenderCache(nil), WithChartTheme(types.ThemeWonderland))
	out, err := renderer.RenderWidget(context.Background(), chartInput("line_chart",
		WidgetConfiguration{"title": "Enrollments", "metric": "enrollments", "show_legend": false},
		WidgetData{"enrollments": []any{
			map[string]any{"name": "Mon", "value": 12.0},
			map[string]any{"name": "Tue", "value": 18.0},
		}},
	))
	require.NoError(t, err)
	assert.Contains(t, out.HTML, "Enrollments")
	assert.Contains(t, out.HTML, types.ThemeWonderland)
}

func TestEChartsRendererPie(t *testing.T) {
	t.Parallel()
	out, err := NewEChartsRenderer().RenderWidget(context.Background(), chartInput("pie_chart",
		WidgetConfiguration{"title": "Mix", "metric": "course_categories", "donut": true},
		WidgetData{"course_categories": []map[string]any{
			{"name": "Engineering", "value": 40},
			{"name": "Design", "value": 25},
		}},
	))
	require.NoError(t, err)
	assert.Contains(t, out.HTML, "Engineering")
}

func TestEChartsRendererNoData(t *testing.T) {
	t.Parallel()
	out, err := NewEChartsRenderer().RenderWidget(context.Background(), chartInput("line_chart",
		WidgetConfiguration{"metric": "missing"}, nil))
	require.NoError(t, err)
	assert.True(t, out.Empty)
	assert.Empty(t, out.HTML)
	assert.Equal(t, "Chart", out.Title)
}

func TestEChartsRendererUnsupportedType(t *testing.T) {
	t.Parallel()
	_, err := NewEChartsRenderer().RenderWidget(context.Background(), chartInput("metric_card", nil, nil))
	assert.True(t, errors.Is(err, ErrUnsupportedWidget))
}

func TestEChartsRendererCachesMarkup(t *testing.T) {
	t.Parallel()
	cache := NewTTLCache[string](time.Minute, nil)
	renderer := NewEChartsRenderer(WithRenderCache(cache))
	input := chartInput("bar_chart", WidgetConfiguration{"metric": "m"}, WidgetData{"m": []float64{1, 2, 3}})

	first, err := renderer.RenderWidget(context.Background(), input)
	require.NoError(t, err)
	second, err := renderer.RenderWidget(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, 1, cache.Len())

	input.Data = WidgetData{"m": []float64{4, 5, 6}}
	_, err = renderer.RenderWidget(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len(), "new data renders a new entry")
}

func TestChartSeriesForInfersLabels(t *testing.T) {
	xAxis, series := chartSeriesFor("m", WidgetData{"m": []any{3.0, "4.5", map[string]any{"name": "c", "value": 1}}})
	require.Len(t, series, 1)
	assert.Equal(t, []string{"Item 1", "Item 2", "c"}, xAxis)
	assert.Equal(t, 4.5, series[0].Points[1].Value)
}
