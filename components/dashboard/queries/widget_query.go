package queries

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

type stateService interface {
	State() dashboard.DashboardState
}

// StateInput is the (empty) request for the dashboard state.
type StateInput struct{}

// StateQuery returns a copy of the dashboard state.
type StateQuery struct {
	service stateService
}

// NewStateQuery builds the query.
func NewStateQuery(service stateService) *StateQuery {
	return &StateQuery{service: service}
}

var _ gocommand.Querier[StateInput, dashboard.DashboardState] = (*StateQuery)(nil)

// Query reads the state.
func (q *StateQuery) Query(context.Context, StateInput) (dashboard.DashboardState, error) {
	if q.service == nil {
		return dashboard.DashboardState{}, errors.New("state query requires service")
	}
	return q.service.State(), nil
}

type catalogService interface {
	Catalog() dashboard.WidgetCatalog
}

// CatalogInput selects the locale used for display names. TypeID narrows the result to a
// single widget type.
type CatalogInput struct {
	Locale string `json:"locale"`
	TypeID string `json:"type_id"`
}

// CatalogQuery lists widget types available to the widget library.
type CatalogQuery struct {
	service catalogService
}

// NewCatalogQuery builds the query.
func NewCatalogQuery(service catalogService) *CatalogQuery {
	return &CatalogQuery{service: service}
}

var _ gocommand.Querier[CatalogInput, []dashboard.WidgetTypeDescriptor] = (*CatalogQuery)(nil)

// Query resolves the localized catalog.
func (q *CatalogQuery) Query(_ context.Context, input CatalogInput) ([]dashboard.WidgetTypeDescriptor, error) {
	if q.service == nil {
		return nil, errors.New("catalog query requires service")
	}
	if input.TypeID == "" {
		return dashboard.LocalizedTypes(q.service.Catalog(), input.Locale), nil
	}
	desc, ok := q.service.Catalog().Describe(input.TypeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", dashboard.ErrUnknownWidgetType, input.TypeID)
	}
	return []dashboard.WidgetTypeDescriptor{desc.Localized(input.Locale)}, nil
}

type payloadController interface {
	Payload(ctx context.Context, locale string) (dashboard.DashboardPayload, error)
}

// PayloadInput selects the locale of the rendered dashboard.
type PayloadInput struct {
	Locale string `json:"locale"`
}

// PayloadQuery renders the full dashboard view model.
type PayloadQuery struct {
	controller payloadController
}

// NewPayloadQuery builds the query.
func NewPayloadQuery(controller payloadController) *PayloadQuery {
	return &PayloadQuery{controller: controller}
}

var _ gocommand.Querier[PayloadInput, dashboard.DashboardPayload] = (*PayloadQuery)(nil)

// Query renders the payload.
func (q *PayloadQuery) Query(ctx context.Context, input PayloadInput) (dashboard.DashboardPayload, error) {
	if q.controller == nil {
		return dashboard.DashboardPayload{}, errors.New("payload query requires controller")
	}
	return q.controller.Payload(ctx, input.Locale)
}
