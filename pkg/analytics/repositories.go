package analytics

import (
	"context"
	"fmt"

	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// NewDataSource adapts an overview client into a dashboard data source. When fallback is
// set it is consulted after the primary client fails.
func NewDataSource(client OverviewClient, fallback OverviewClient) dashboard.DataSource {
	return &dataSource{client: client, fallback: fallback}
}

type dataSource struct {
	client   OverviewClient
	fallback OverviewClient
}

func (d *dataSource) FetchOverview(ctx context.Context, layoutKey string) (dashboard.WidgetData, error) {
	if d.client == nil {
		return nil, fmt.Errorf("analytics: client is required")
	}
	data, err := d.client.FetchOverview(ctx, layoutKey)
	if err == nil || d.fallback == nil {
		return data, err
	}
	if ctx.Err() != nil {
		return nil, err
	}
	return d.fallback.FetchOverview(ctx, layoutKey)
}
