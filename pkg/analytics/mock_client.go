package analytics

import (
	"context"
	"maps"
	"sync"

	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// MockData maps layout keys to the metric payload returned for them. The "*" entry
// answers layouts without their own fixtures.
type MockData map[string]dashboard.WidgetData

// MockClient implements OverviewClient using in-memory fixtures.
type MockClient struct {
	mu    sync.RWMutex
	data  MockData
	err   error
	calls int
}

// NewMockClient builds a mock analytics client. Nil data uses DefaultMockData.
func NewMockClient(data MockData) *MockClient {
	if data == nil {
		data = DefaultMockData()
	}
	return &MockClient{data: data}
}

// FetchOverview returns a copy of the fixtures for the layout.
func (c *MockClient) FetchOverview(ctx context.Context, layoutKey string) (dashboard.WidgetData, error) {
	c.mu.Lock()
	c.calls++
	err := c.err
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.data[layoutKey]
	if !ok {
		data = c.data["*"]
	}
	return maps.Clone(data), nil
}

// SetError makes subsequent fetches fail with err. Pass nil to recover.
func (c *MockClient) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Calls reports how many fetches were attempted.
func (c *MockClient) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}

// DefaultMockData returns fixtures for the built-in layouts.
func DefaultMockData() MockData {
	return MockData{
		"overview": {
			"total_students":  1284.0,
			"active_courses":  42.0,
			"completion_rate": 0.78,
			"revenue":         58230.0,
			"enrollments": []any{
				map[string]any{"name": "Jan", "value": 120.0},
				map[string]any{"name": "Feb", "value": 135.0},
				map[string]any{"name": "Mar", "value": 162.0},
				map[string]any{"name": "Apr", "value": 171.0},
			},
			"course_categories": []any{
				map[string]any{"name": "Engineering", "value": 18.0},
				map[string]any{"name": "Design", "value": 9.0},
				map[string]any{"name": "Leadership", "value": 15.0},
			},
		},
		"performance": {
			"average_score": []any{72.0, 75.0, 79.0, 81.0},
			"pass_rate":     0.86,
			"live_sessions": 12.0,
			"course_scores": map[string]any{
				"x_axis": []any{"Go", "SQL", "Ops"},
				"series": []any{
					map[string]any{"name": "Average", "data": []any{81.0, 74.0, 90.0}},
				},
			},
		},
		"training": {
			"sessions_delivered": 64.0,
			"attendance_rate":    0.91,
			"training_hours":     412.0,
			"program_attendance": map[string]any{
				"x_axis": []any{"Onboarding", "Compliance", "Mentoring"},
				"series": []any{
					map[string]any{"name": "Attended", "data": []any{48.0, 60.0, 22.0}},
					map[string]any{"name": "Missed", "data": []any{4.0, 7.0, 3.0}},
				},
			},
		},
	}
}
