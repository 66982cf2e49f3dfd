package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

// EChartsRenderer renders line, bar and pie widgets as go-echarts HTML.
type EChartsRenderer struct {
	cache      *TTLCache[string]
	theme      string
	height     string
	assetsHost string
}

// EChartsOption customizes an EChartsRenderer.
type EChartsOption func(*EChartsRenderer)

// WithRenderCache injects the cache used for rendered markup. Pass nil to disable caching.
func WithRenderCache(cache *TTLCache[string]) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the chart theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartHeight sets the CSS height of rendered charts.
func WithChartHeight(height string) EChartsOption {
	return func(r *EChartsRenderer) {
		if height != "" {
			r.height = height
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds a renderer with a five minute render cache.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:  NewTTLCache[string](5*time.Minute, nil),
		theme:  types.ThemeWesteros,
		height: defaultChartHeight,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// RenderWidget draws the widget from its configured metric. Widgets whose metric has no
// data are returned with Empty set.
func (r *EChartsRenderer) RenderWidget(_ context.Context, input RenderInput) (RenderedWidget, error) {
	widget := input.Placement
	switch widget.Type {
	case "line_chart", "bar_chart", "pie_chart":
	default:
		return RenderedWidget{}, fmt.Errorf("%w: %s", ErrUnsupportedWidget, widget.Type)
	}
	cfg := input.Config
	if cfg == nil {
		cfg = WidgetConfiguration{}
	}
	out := RenderedWidget{
		WidgetID: widget.ID,
		Type:     widget.Type,
		Title:    stringValue(cfg["title"], "Chart"),
		Config:   cfg.Clone(),
	}
	xAxis, series := chartSeriesFor(stringValue(cfg["metric"], ""), input.Data)
	if len(series) == 0 {
		out.Empty = true
		return out, nil
	}

	render := func() (string, error) {
		return r.render(widget.Type, out.Title, cfg, xAxis, series)
	}
	key := fmt.Sprintf("%s:%s:%s:%s", widget.Type, widget.ID, configHash(cfg), configHash(input.Data))
	var (
		html string
		err  error
	)
	if r.cache != nil {
		html, err = r.cache.GetOrLoad(key, render)
	} else {
		html, err = render()
	}
	if err != nil {
		return RenderedWidget{}, fmt.Errorf("dashboard: render %s: %w", widget.ID, err)
	}
	out.HTML = html
	return out, nil
}

func (r *EChartsRenderer) render(widgetType, title string, cfg WidgetConfiguration, xAxis []string, series []ChartSeries) (string, error) {
	global := r.globalOptions(title, boolValue(cfg["show_legend"], true))
	switch widgetType {
	case "bar_chart":
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(xAxis)
		for _, s := range series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		if boolValue(cfg["stacked"], false) {
			bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
		}
		return renderChart(bar)
	case "line_chart":
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(xAxis)
		for _, s := range series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	default:
		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		pie.AddSeries(series[0].Name, toPieData(series[0].Points, xAxis))
		if boolValue(cfg["donut"], false) {
			pie.SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}))
		}
		return renderChart(pie)
	}
}

func (r *EChartsRenderer) globalOptions(title string, legend bool) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: r.height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint, labels []string) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" && i < len(labels) {
			name = labels[i]
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}

var _ WidgetRenderer = (*EChartsRenderer)(nil)
