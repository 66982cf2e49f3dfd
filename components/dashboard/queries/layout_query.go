package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

type layoutService interface {
	Layouts() dashboard.LayoutStore
}

// LayoutsInput is the (empty) request for the layout picker.
type LayoutsInput struct{}

// LayoutsQuery lists built-in and saved layouts.
type LayoutsQuery struct {
	service layoutService
}

// NewLayoutsQuery builds the query.
func NewLayoutsQuery(service layoutService) *LayoutsQuery {
	return &LayoutsQuery{service: service}
}

var _ gocommand.Querier[LayoutsInput, []dashboard.LayoutSummary] = (*LayoutsQuery)(nil)

// Query returns the layout summaries.
func (q *LayoutsQuery) Query(_ context.Context, _ LayoutsInput) ([]dashboard.LayoutSummary, error) {
	if q.service == nil {
		return nil, errors.New("layouts query requires service")
	}
	return dashboard.SummarizeLayouts(q.service.Layouts()), nil
}

// LayoutPreviewInput names a layout to inspect without activating it.
type LayoutPreviewInput struct {
	Key string `json:"key"`
}

// LayoutPreviewQuery loads a layout snapshot read-only.
type LayoutPreviewQuery struct {
	service layoutService
}

// NewLayoutPreviewQuery builds the query.
func NewLayoutPreviewQuery(service layoutService) *LayoutPreviewQuery {
	return &LayoutPreviewQuery{service: service}
}

var _ gocommand.Querier[LayoutPreviewInput, dashboard.LayoutSnapshot] = (*LayoutPreviewQuery)(nil)

// Query resolves the snapshot for the key.
func (q *LayoutPreviewQuery) Query(_ context.Context, input LayoutPreviewInput) (dashboard.LayoutSnapshot, error) {
	if q.service == nil {
		return dashboard.LayoutSnapshot{}, errors.New("layout preview query requires service")
	}
	return q.service.Layouts().LoadLayout(input.Key)
}
