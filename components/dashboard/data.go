package dashboard

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"
)

// DataSource fetches the analytics overview for a layout.
type DataSource interface {
	FetchOverview(ctx context.Context, layoutKey string) (WidgetData, error)
}

// DataSourceFunc adapts a function to DataSource.
type DataSourceFunc func(ctx context.Context, layoutKey string) (WidgetData, error)

func (f DataSourceFunc) FetchOverview(ctx context.Context, layoutKey string) (WidgetData, error) {
	return f(ctx, layoutKey)
}

// RefreshData fetches data for the active layout outside the state lock. The fetch is
// tagged with the layout generation; a result that arrives after a layout switch is
// discarded and ErrStaleData is returned.
func (s *Service) RefreshData(ctx context.Context) (WidgetData, error) {
	if s.opts.DataSource == nil {
		return nil, ErrMissingDataSource
	}
	s.mu.Lock()
	key := s.state.ActiveLayoutKey
	generation := s.generation
	s.mu.Unlock()

	data, err := s.dataCache.GetOrLoad(key, func() (WidgetData, error) {
		return s.opts.DataSource.FetchOverview(ctx, key)
	})
	if err != nil {
		s.opts.Logger.Warn("fetch dashboard data", zap.String("layout", key), zap.Error(err))
		return nil, fmt.Errorf("dashboard: fetch data for %s: %w", key, err)
	}

	s.mu.Lock()
	if s.generation != generation {
		current := s.state.ActiveLayoutKey
		s.mu.Unlock()
		s.opts.Logger.Debug("discarding stale dashboard data",
			zap.String("requested", key),
			zap.String("active", current),
		)
		return nil, fmt.Errorf("%w: fetched %q, active %q", ErrStaleData, key, current)
	}
	s.data = maps.Clone(data)
	s.mu.Unlock()

	s.recordTelemetry(ctx, "dashboard.data.refresh", map[string]any{"layout": key, "metrics": len(data)})
	return maps.Clone(data), nil
}

// Data returns the last data fetched for the active layout; nil until RefreshData succeeds
// or after a layout switch.
func (s *Service) Data() WidgetData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.data)
}
