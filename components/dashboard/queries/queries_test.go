package queries

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

type stubController struct {
	calls  int
	locale string
}

func (s *stubController) Payload(_ context.Context, locale string) (dashboard.DashboardPayload, error) {
	s.calls++
	s.locale = locale
	return dashboard.DashboardPayload{ActiveLocale: locale}, nil
}

func TestStateQuery(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{})
	state, err := NewStateQuery(service).Query(context.Background(), StateInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if state.ActiveLayoutKey != "overview" || len(state.Widgets) != 6 {
		t.Fatalf("expected overview state, got %q with %d widgets", state.ActiveLayoutKey, len(state.Widgets))
	}
}

func TestCatalogQueryLocalizes(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{})
	query := NewCatalogQuery(service)
	types, err := query.Query(context.Background(), CatalogInput{Locale: "es"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(types) != 6 || types[0].ID != "metric_card" {
		t.Fatalf("expected 6 types starting with metric_card, got %+v", types)
	}

	one, err := query.Query(context.Background(), CatalogInput{TypeID: "table"})
	if err != nil || len(one) != 1 || one[0].ID != "table" {
		t.Fatalf("expected table descriptor, got %+v (%v)", one, err)
	}
	if _, err := query.Query(context.Background(), CatalogInput{TypeID: "nope"}); !errors.Is(err, dashboard.ErrUnknownWidgetType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestLayoutsQuery(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{})
	if _, err := service.SaveLayout(context.Background(), "Mine"); err != nil {
		t.Fatalf("SaveLayout returned error: %v", err)
	}
	summaries, err := NewLayoutsQuery(service).Query(context.Background(), LayoutsInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(summaries) != 4 || summaries[3].Key != "mine" || summaries[3].BuiltIn {
		t.Fatalf("expected saved layout last, got %+v", summaries)
	}
}

func TestLayoutPreviewQueryDoesNotSwitch(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{})
	snapshot, err := NewLayoutPreviewQuery(service).Query(context.Background(), LayoutPreviewInput{Key: "training"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(snapshot.Widgets) != 5 {
		t.Fatalf("expected 5 training widgets, got %d", len(snapshot.Widgets))
	}
	if service.State().ActiveLayoutKey != "overview" {
		t.Fatalf("preview must not switch layouts")
	}
	if _, err := NewLayoutPreviewQuery(service).Query(context.Background(), LayoutPreviewInput{Key: "missing"}); !errors.Is(err, dashboard.ErrLayoutNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPayloadQuery(t *testing.T) {
	controller := &stubController{}
	payload, err := NewPayloadQuery(controller).Query(context.Background(), PayloadInput{Locale: "es"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if controller.calls != 1 || payload.ActiveLocale != "es" {
		t.Fatalf("expected one call for es, got %d %q", controller.calls, payload.ActiveLocale)
	}
}

func TestQueriesRequireService(t *testing.T) {
	if _, err := NewStateQuery(nil).Query(context.Background(), StateInput{}); err == nil {
		t.Fatalf("expected state error")
	}
	if _, err := NewPayloadQuery(nil).Query(context.Background(), PayloadInput{}); err == nil {
		t.Fatalf("expected payload error")
	}
}
