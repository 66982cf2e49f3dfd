package dashboard

import (
	"context"
	"testing"

	core "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

func TestNewPersistentServiceRestores(t *testing.T) {
	ctx := context.Background()
	store := core.NewMemoryStore()

	first, found := NewPersistentService(ctx, store, Options{})
	if found {
		t.Fatalf("expected empty store on first start")
	}
	if _, err := first.SaveLayout(ctx, "Weekly Review"); err != nil {
		t.Fatalf("SaveLayout returned error: %v", err)
	}

	second, found := NewPersistentService(ctx, store, Options{})
	if !found {
		t.Fatalf("expected persisted document")
	}
	if _, err := second.Layouts().LoadLayout("weekly_review"); err != nil {
		t.Fatalf("expected restored layout, got %v", err)
	}
}
