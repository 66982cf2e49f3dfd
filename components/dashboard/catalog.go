package dashboard

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// CatalogHook lets packages register widget types during init().
type CatalogHook func(c *Catalog) error

var (
	globalHookMu sync.Mutex
	globalHooks  []CatalogHook
)

// RegisterCatalogHook registers a hook executed against new catalogs.
func RegisterCatalogHook(h CatalogHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Catalog implements WidgetCatalog with hook + manifest support. Types are meant to be
// registered at process start; lookups return copies so descriptors stay immutable.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]WidgetTypeDescriptor
	order []string
}

// NewCatalog builds a catalog holding the built-in widget types and applies global hooks.
func NewCatalog() (*Catalog, error) {
	c := NewEmptyCatalog()
	for _, desc := range DefaultWidgetTypes() {
		if err := c.Register(desc); err != nil {
			return nil, err
		}
	}
	if err := c.ApplyHooks(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewEmptyCatalog builds a catalog without built-ins or hooks.
func NewEmptyCatalog() *Catalog {
	return &Catalog{types: map[string]WidgetTypeDescriptor{}}
}

// ApplyHooks executes registered catalog hooks.
func (c *Catalog) ApplyHooks() error {
	globalHookMu.Lock()
	hooks := slices.Clone(globalHooks)
	globalHookMu.Unlock()
	for _, hook := range hooks {
		if err := hook(c); err != nil {
			return err
		}
	}
	return nil
}

// Register stores a widget type. Registering an existing id replaces it in place.
func (c *Catalog) Register(desc WidgetTypeDescriptor) error {
	if desc.ID == "" {
		return fmt.Errorf("dashboard: widget type id is required")
	}
	if desc.DefaultSize.Width < 1 || desc.DefaultSize.Height < 1 {
		return fmt.Errorf("dashboard: widget type %s default size must be at least 1x1", desc.ID)
	}
	desc = cloneDescriptor(desc)
	desc.normalizeLocalizedFields()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.types[desc.ID]; !exists {
		c.order = append(c.order, desc.ID)
	}
	c.types[desc.ID] = desc
	return nil
}

// Describe fetches a widget type by id.
func (c *Catalog) Describe(typeID string) (WidgetTypeDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	desc, ok := c.types[typeID]
	if !ok {
		return WidgetTypeDescriptor{}, false
	}
	return cloneDescriptor(desc), true
}

// Types returns all widget types in registration order.
func (c *Catalog) Types() []WidgetTypeDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]WidgetTypeDescriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneDescriptor(c.types[id]))
	}
	return out
}

func cloneDescriptor(desc WidgetTypeDescriptor) WidgetTypeDescriptor {
	desc.ConfigurableFields = slices.Clone(desc.ConfigurableFields)
	desc.DisplayNameLocalized = maps.Clone(desc.DisplayNameLocalized)
	desc.DescriptionLocalized = maps.Clone(desc.DescriptionLocalized)
	desc.Schema = cloneSchema(desc.Schema)
	return desc
}

func cloneSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	out := make(map[string]any, len(schema))
	for key, value := range schema {
		out[key] = cloneSchemaValue(value)
	}
	return out
}

func cloneSchemaValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneSchema(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneSchemaValue(item)
		}
		return out
	case []string:
		return slices.Clone(v)
	default:
		return v
	}
}
