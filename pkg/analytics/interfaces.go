package analytics

import (
	"context"

	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// OverviewClient fetches the metric payload for a dashboard layout.
type OverviewClient interface {
	FetchOverview(ctx context.Context, layoutKey string) (dashboard.WidgetData, error)
}

var (
	_ OverviewClient       = (*HTTPClient)(nil)
	_ OverviewClient       = (*MockClient)(nil)
	_ dashboard.DataSource = (*HTTPClient)(nil)
)
