package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates widget configuration payloads against their type schema.
type ConfigValidator interface {
	Validate(desc WidgetTypeDescriptor, config WidgetConfiguration) error
}

// DescriptorSchema returns the JSON schema for a widget type. Types without an explicit
// schema get one derived from their configurable fields: each field accepts a string,
// boolean or number and unknown fields are tolerated.
func DescriptorSchema(desc WidgetTypeDescriptor) map[string]any {
	if len(desc.Schema) > 0 {
		return cloneDescriptor(desc).Schema
	}
	props := make(map[string]any, len(desc.ConfigurableFields))
	for _, field := range desc.ConfigurableFields {
		props[field] = map[string]any{"type": []string{"string", "boolean", "number"}}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

// JSONSchemaValidator compiles widget schemas and validates configuration maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the configuration satisfies the widget type schema.
func (v *JSONSchemaValidator) Validate(desc WidgetTypeDescriptor, config WidgetConfiguration) error {
	schema, err := v.schemaFor(desc)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if config != nil {
		data, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("dashboard: marshal config for %s: %w", desc.ID, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize config for %s: %w", desc.ID, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, desc.ID, err)
	}
	return nil
}

// schemaFor caches compiled schemas by their encoded form so a re-registered type with a
// new schema is compiled again.
func (v *JSONSchemaValidator) schemaFor(desc WidgetTypeDescriptor) (*jsonschema.Schema, error) {
	data, err := json.Marshal(DescriptorSchema(desc))
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", desc.ID, err)
	}
	cacheKey := desc.ID + "\x00" + string(data)

	v.mu.RLock()
	schema, ok := v.compiled[cacheKey]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}

	compiler := jsonschema.NewCompiler()
	name := desc.ID + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", desc.ID, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", desc.ID, err)
	}
	v.mu.Lock()
	v.compiled[cacheKey] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopConfigValidator struct{}

func (noopConfigValidator) Validate(WidgetTypeDescriptor, WidgetConfiguration) error { return nil }
