package dashboard

import (
	"errors"
	"testing"
)

func TestJSONSchemaValidatorRejectsInvalidPayload(t *testing.T) {
	validator := NewJSONSchemaValidator()
	desc := WidgetTypeDescriptor{
		ID: "demo_required",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
	if err := validator.Validate(desc, WidgetConfiguration{"name": "Dashboard"}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	err := validator.Validate(desc, WidgetConfiguration{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing name, got %v", err)
	}
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	desc := WidgetTypeDescriptor{
		ID:     "demo_cache",
		Schema: map[string]any{"type": "object"},
	}
	if err := validator.Validate(desc, nil); err != nil {
		t.Fatalf("unexpected error validating config: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to contain 1 entry, got %d", len(validator.compiled))
	}
	if err := validator.Validate(desc, WidgetConfiguration{}); err != nil {
		t.Fatalf("unexpected error on cached validation: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to remain 1 entry, got %d", len(validator.compiled))
	}

	desc.Schema = map[string]any{"type": "object", "required": []string{"title"}}
	if err := validator.Validate(desc, WidgetConfiguration{}); err == nil {
		t.Fatalf("expected re-registered schema to be compiled again")
	}
}

func TestDerivedSchemaAcceptsScalarsAndUnknownFields(t *testing.T) {
	validator := NewJSONSchemaValidator()
	desc := WidgetTypeDescriptor{ID: "derived", ConfigurableFields: []string{"title", "limit", "enabled"}}
	config := WidgetConfiguration{"title": "Top", "limit": 5, "enabled": true, "extra": "kept"}
	if err := validator.Validate(desc, config); err != nil {
		t.Fatalf("expected scalar config to pass derived schema, got %v", err)
	}
	if err := validator.Validate(desc, WidgetConfiguration{"title": []string{"nested"}}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected non-scalar value to be rejected, got %v", err)
	}
}

func TestBuiltInSchemasValidateBuiltInLayoutConfigs(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	validator := NewJSONSchemaValidator()
	for _, layout := range DefaultLayouts() {
		for _, widget := range layout.Widgets {
			desc, ok := catalog.Describe(widget.Type)
			if !ok {
				t.Fatalf("layout %s references unknown type %s", layout.Key, widget.Type)
			}
			if err := validator.Validate(desc, layout.Configs[widget.ID]); err != nil {
				t.Fatalf("layout %s widget %s: %v", layout.Key, widget.ID, err)
			}
		}
	}
}

func TestMetricCardSchemaRejectsUnknownColor(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	desc, _ := catalog.Describe("metric_card")
	err = NewJSONSchemaValidator().Validate(desc, WidgetConfiguration{"color": "magenta"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
