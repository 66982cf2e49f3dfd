package dashboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ChartSeries is one legend entry of a chart.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint is a single, optionally labeled value.
type ChartPoint struct {
	Label string
	Value float64
}

// chartSeriesFor extracts the series for metric from a data payload. The metric value is
// either a list of points (numbers or {name, value} objects) or an object holding
// "x_axis" labels and a "series" list of {name, data}.
func chartSeriesFor(metric string, data WidgetData) ([]string, []ChartSeries) {
	raw, ok := data[metric]
	if !ok {
		return nil, nil
	}
	if obj, ok := raw.(map[string]any); ok {
		series := parseChartSeries(obj["series"])
		xAxis := stringSliceValue(obj["x_axis"])
		if len(xAxis) == 0 {
			xAxis = inferredAxisLabels(series)
		}
		return xAxis, series
	}
	points := parseChartPoints(raw)
	if len(points) == 0 {
		return nil, nil
	}
	series := []ChartSeries{{Name: metric, Points: points}}
	return inferredAxisLabels(series), series
}

func parseChartSeries(v any) []ChartSeries {
	items, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]map[string]any); ok {
			items = make([]any, len(typed))
			for i, m := range typed {
				items[i] = m
			}
		}
	}
	out := make([]ChartSeries, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		series := ChartSeries{
			Name:   stringValue(m["name"], fmt.Sprintf("Series %d", len(out)+1)),
			Points: parseChartPoints(m["data"]),
		}
		if len(series.Points) > 0 {
			out = append(out, series)
		}
	}
	return out
}

func parseChartPoints(v any) []ChartPoint {
	switch value := v.(type) {
	case []float64:
		points := make([]ChartPoint, len(value))
		for i, val := range value {
			points[i] = ChartPoint{Value: val}
		}
		return points
	case []map[string]any:
		points := make([]ChartPoint, 0, len(value))
		for _, item := range value {
			points = append(points, ChartPoint{Label: stringValue(item["name"], ""), Value: float64Value(item["value"])})
		}
		return points
	case []any:
		points := make([]ChartPoint, 0, len(value))
		for _, item := range value {
			if m, ok := item.(map[string]any); ok {
				points = append(points, ChartPoint{Label: stringValue(m["name"], ""), Value: float64Value(m["value"])})
				continue
			}
			if f, ok := numericValue(item); ok {
				points = append(points, ChartPoint{Value: f})
			}
		}
		return points
	default:
		return nil
	}
}

func inferredAxisLabels(series []ChartSeries) []string {
	var labels []string
	for _, s := range series {
		if len(s.Points) <= len(labels) {
			continue
		}
		labels = make([]string, len(s.Points))
		for i, point := range s.Points {
			labels[i] = point.Label
			if labels[i] == "" {
				labels[i] = fmt.Sprintf("Item %d", i+1)
			}
		}
	}
	return labels
}

func stringSliceValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func float64Value(v any) float64 {
	f, _ := numericValue(v)
	return f
}

func numericValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	}
	return 0, false
}

// boolValue reads a config flag, using fallback when the key is absent or not boolean-like.
func boolValue(v any, fallback bool) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	case float64:
		return val != 0
	}
	return fallback
}
