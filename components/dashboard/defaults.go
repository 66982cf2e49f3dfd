package dashboard

import "slices"

var colorEnum = []string{"blue", "green", "orange", "purple", "red", "teal"}

var defaultWidgetTypes = []WidgetTypeDescriptor{
	{
		ID:          "metric_card",
		DisplayName: "Metric Card",
		DisplayNameLocalized: map[string]string{
			"es": "Tarjeta de métrica",
		},
		Description: "Single KPI with optional trend indicator",
		DescriptionLocalized: map[string]string{
			"es": "Indicador clave con tendencia opcional",
		},
		Category:           "stats",
		DefaultSize:        Size{Width: 1, Height: 1},
		ConfigurableFields: []string{"title", "metric", "format", "color"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":  map[string]any{"type": "string"},
				"metric": map[string]any{"type": "string", "minLength": 1},
				"format": map[string]any{"type": "string", "enum": []string{"number", "percent", "currency", "duration"}},
				"color":  map[string]any{"type": "string", "enum": colorEnum},
			},
		},
	},
	{
		ID:          "line_chart",
		DisplayName: "Line Chart",
		DisplayNameLocalized: map[string]string{
			"es": "Gráfico de líneas",
		},
		Description:        "Metric trend over time",
		Category:           "charts",
		DefaultSize:        Size{Width: 2, Height: 2},
		ConfigurableFields: []string{"title", "metric", "period", "color", "show_legend"},
		Schema:             chartSchema(map[string]any{"show_legend": map[string]any{"type": "boolean"}}),
	},
	{
		ID:          "bar_chart",
		DisplayName: "Bar Chart",
		DisplayNameLocalized: map[string]string{
			"es": "Gráfico de barras",
		},
		Description:        "Compares a metric across categories",
		Category:           "charts",
		DefaultSize:        Size{Width: 2, Height: 2},
		ConfigurableFields: []string{"title", "metric", "period", "color", "stacked"},
		Schema:             chartSchema(map[string]any{"stacked": map[string]any{"type": "boolean"}}),
	},
	{
		ID:          "pie_chart",
		DisplayName: "Pie Chart",
		DisplayNameLocalized: map[string]string{
			"es": "Gráfico circular",
		},
		Description:        "Share of a metric by segment",
		Category:           "charts",
		DefaultSize:        Size{Width: 2, Height: 2},
		ConfigurableFields: []string{"title", "metric", "show_legend", "donut"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":       map[string]any{"type": "string"},
				"metric":      map[string]any{"type": "string", "minLength": 1},
				"show_legend": map[string]any{"type": "boolean"},
				"donut":       map[string]any{"type": "boolean"},
			},
		},
	},
	{
		ID:          "table",
		DisplayName: "Data Table",
		DisplayNameLocalized: map[string]string{
			"es": "Tabla de datos",
		},
		Description:        "Tabular listing of records",
		Category:           "data",
		DefaultSize:        Size{Width: 4, Height: 2},
		ConfigurableFields: []string{"title", "source", "page_size", "sortable"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":     map[string]any{"type": "string"},
				"source":    map[string]any{"type": "string", "minLength": 1},
				"page_size": map[string]any{"type": "number", "minimum": 1, "maximum": 100},
				"sortable":  map[string]any{"type": "boolean"},
			},
		},
	},
	{
		ID:          "real_time",
		DisplayName: "Real-Time Monitor",
		DisplayNameLocalized: map[string]string{
			"es": "Monitor en tiempo real",
		},
		Description:        "Live metric with threshold alerting",
		Category:           "monitoring",
		DefaultSize:        Size{Width: 2, Height: 1},
		ConfigurableFields: []string{"title", "metric", "refresh_interval", "threshold"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":            map[string]any{"type": "string"},
				"metric":           map[string]any{"type": "string", "minLength": 1},
				"refresh_interval": map[string]any{"type": "number", "minimum": 1},
				"threshold":        map[string]any{"type": "number"},
			},
		},
	},
}

func chartSchema(extra map[string]any) map[string]any {
	props := map[string]any{
		"title":  map[string]any{"type": "string"},
		"metric": map[string]any{"type": "string", "minLength": 1},
		"period": map[string]any{"type": "string", "enum": []string{"7d", "30d", "90d", "365d"}},
		"color":  map[string]any{"type": "string", "enum": colorEnum},
	}
	for key, value := range extra {
		props[key] = value
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

var defaultLayouts = []LayoutDefinition{
	{
		Key:         "overview",
		Name:        "Overview",
		Description: "Headline training metrics with enrollment trend and course mix",
		GridSize:    DefaultGridSize,
		Widgets: []WidgetPlacement{
			{ID: "overview_students", Type: "metric_card", Position: Position{X: 0, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "overview_courses", Type: "metric_card", Position: Position{X: 1, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "overview_completion", Type: "metric_card", Position: Position{X: 2, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "overview_revenue", Type: "metric_card", Position: Position{X: 3, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "overview_enrollment_trend", Type: "line_chart", Position: Position{X: 0, Y: 1}, Size: Size{Width: 2, Height: 2}},
			{ID: "overview_course_mix", Type: "pie_chart", Position: Position{X: 2, Y: 1}, Size: Size{Width: 2, Height: 2}},
		},
		Configs: map[string]WidgetConfiguration{
			"overview_students":         {"title": "Total Students", "metric": "total_students", "format": "number", "color": "blue"},
			"overview_courses":          {"title": "Active Courses", "metric": "active_courses", "format": "number", "color": "green"},
			"overview_completion":       {"title": "Completion Rate", "metric": "completion_rate", "format": "percent", "color": "purple"},
			"overview_revenue":          {"title": "Revenue", "metric": "revenue", "format": "currency", "color": "orange"},
			"overview_enrollment_trend": {"title": "Enrollments", "metric": "enrollments", "period": "30d", "show_legend": true},
			"overview_course_mix":       {"title": "Courses by Category", "metric": "course_categories", "show_legend": true},
		},
	},
	{
		Key:         "performance",
		Name:        "Performance",
		Description: "Learner outcomes, instructor ratings and live session load",
		GridSize:    DefaultGridSize,
		Widgets: []WidgetPlacement{
			{ID: "performance_avg_score", Type: "metric_card", Position: Position{X: 0, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "performance_pass_rate", Type: "metric_card", Position: Position{X: 1, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "performance_live_sessions", Type: "real_time", Position: Position{X: 2, Y: 0}, Size: Size{Width: 2, Height: 1}},
			{ID: "performance_scores_by_course", Type: "bar_chart", Position: Position{X: 0, Y: 1}, Size: Size{Width: 2, Height: 2}},
			{ID: "performance_score_trend", Type: "line_chart", Position: Position{X: 2, Y: 1}, Size: Size{Width: 2, Height: 2}},
			{ID: "performance_instructors", Type: "table", Position: Position{X: 0, Y: 3}, Size: Size{Width: 4, Height: 2}},
		},
		Configs: map[string]WidgetConfiguration{
			"performance_avg_score":        {"title": "Average Score", "metric": "average_score", "format": "percent", "color": "teal"},
			"performance_pass_rate":        {"title": "Pass Rate", "metric": "pass_rate", "format": "percent", "color": "green"},
			"performance_live_sessions":    {"title": "Live Sessions", "metric": "live_sessions", "refresh_interval": float64(30), "threshold": float64(80)},
			"performance_scores_by_course": {"title": "Scores by Course", "metric": "course_scores", "period": "90d"},
			"performance_score_trend":      {"title": "Score Trend", "metric": "average_score", "period": "90d", "show_legend": false},
			"performance_instructors":      {"title": "Instructor Ratings", "source": "instructors", "page_size": float64(10), "sortable": true},
		},
	},
	{
		Key:         "training",
		Name:        "Training",
		Description: "Program delivery: sessions, attendance and upcoming cohorts",
		GridSize:    DefaultGridSize,
		Widgets: []WidgetPlacement{
			{ID: "training_sessions", Type: "metric_card", Position: Position{X: 0, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "training_attendance", Type: "metric_card", Position: Position{X: 1, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "training_hours", Type: "metric_card", Position: Position{X: 2, Y: 0}, Size: Size{Width: 1, Height: 1}},
			{ID: "training_attendance_by_program", Type: "bar_chart", Position: Position{X: 0, Y: 1}, Size: Size{Width: 2, Height: 2}},
			{ID: "training_upcoming", Type: "table", Position: Position{X: 0, Y: 3}, Size: Size{Width: 4, Height: 2}},
		},
		Configs: map[string]WidgetConfiguration{
			"training_sessions":              {"title": "Sessions Delivered", "metric": "sessions_delivered", "format": "number", "color": "blue"},
			"training_attendance":            {"title": "Attendance", "metric": "attendance_rate", "format": "percent", "color": "green"},
			"training_hours":                 {"title": "Training Hours", "metric": "training_hours", "format": "duration", "color": "purple"},
			"training_attendance_by_program": {"title": "Attendance by Program", "metric": "program_attendance", "period": "30d", "stacked": false},
			"training_upcoming":              {"title": "Upcoming Cohorts", "source": "cohorts", "page_size": float64(5), "sortable": true},
		},
	},
}

// DefaultWidgetTypes returns copies of the built-in widget types.
func DefaultWidgetTypes() []WidgetTypeDescriptor {
	out := make([]WidgetTypeDescriptor, len(defaultWidgetTypes))
	for i, desc := range defaultWidgetTypes {
		out[i] = cloneDescriptor(desc)
	}
	return out
}

// DefaultLayouts returns copies of the built-in layouts.
func DefaultLayouts() []LayoutDefinition {
	out := make([]LayoutDefinition, len(defaultLayouts))
	for i, def := range defaultLayouts {
		def.Widgets = slices.Clone(def.Widgets)
		def.Configs = cloneConfigs(def.Configs)
		out[i] = def
	}
	return out
}
