package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// CollisionPolicy decides what SaveLayout does when the normalized key is already taken.
type CollisionPolicy string

const (
	// CollisionOverwrite replaces the existing saved layout (last write wins).
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionReject fails with ErrLayoutExists.
	CollisionReject CollisionPolicy = "reject"
)

// NormalizeLayoutKey lowercases the name and collapses whitespace runs into a single
// underscore. Leading and trailing whitespace is dropped.
func NormalizeLayoutKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// RegistryOption customizes a LayoutRegistry.
type RegistryOption func(*LayoutRegistry)

// WithClock overrides the clock used to stamp saved layouts.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *LayoutRegistry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCollisionPolicy sets the save collision policy. Defaults to CollisionOverwrite.
func WithCollisionPolicy(policy CollisionPolicy) RegistryOption {
	return func(r *LayoutRegistry) {
		if policy != "" {
			r.policy = policy
		}
	}
}

// WithBuiltInLayouts replaces the default built-in layouts.
func WithBuiltInLayouts(layouts []LayoutDefinition) RegistryOption {
	return func(r *LayoutRegistry) {
		r.builtIns = make([]LayoutDefinition, len(layouts))
		for i, def := range layouts {
			def.Widgets = cloneWidgets(def.Widgets)
			def.Configs = cloneConfigs(def.Configs)
			r.builtIns[i] = def
		}
	}
}

// LayoutRegistry implements LayoutStore with the built-in layouts and an in-memory map of
// saved layouts. It is safe for concurrent use.
type LayoutRegistry struct {
	mu       sync.RWMutex
	builtIns []LayoutDefinition
	saved    map[string]SavedLayout
	policy   CollisionPolicy
	now      func() time.Time
}

// NewLayoutRegistry builds a registry seeded with DefaultLayouts.
func NewLayoutRegistry(opts ...RegistryOption) *LayoutRegistry {
	r := &LayoutRegistry{
		builtIns: DefaultLayouts(),
		saved:    make(map[string]SavedLayout),
		policy:   CollisionOverwrite,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// BuiltInLayouts returns copies of the built-in layouts, in declaration order.
func (r *LayoutRegistry) BuiltInLayouts() []LayoutDefinition {
	out := make([]LayoutDefinition, len(r.builtIns))
	for i, def := range r.builtIns {
		def.Widgets = cloneWidgets(def.Widgets)
		def.Configs = cloneConfigs(def.Configs)
		out[i] = def
	}
	return out
}

// LoadLayout resolves built-ins first, then saved layouts.
func (r *LayoutRegistry) LoadLayout(key string) (LayoutSnapshot, error) {
	if def, ok := r.builtIn(key); ok {
		return withGrid(def.Snapshot()), nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	saved, ok := r.saved[key]
	if !ok {
		return LayoutSnapshot{}, fmt.Errorf("%w: %q", ErrLayoutNotFound, key)
	}
	return withGrid(LayoutSnapshot{
		Widgets:  cloneWidgets(saved.Widgets),
		Configs:  cloneConfigs(saved.Configs),
		GridSize: saved.GridSize,
	}), nil
}

// SaveLayout stores a copy of the snapshot under NormalizeLayoutKey(name).
func (r *LayoutRegistry) SaveLayout(name string, snapshot LayoutSnapshot) (SavedLayout, error) {
	key := NormalizeLayoutKey(name)
	if key == "" {
		return SavedLayout{}, ErrEmptyLayoutName
	}
	if _, ok := r.builtIn(key); ok {
		return SavedLayout{}, fmt.Errorf("%w: %q", ErrBuiltInLayout, key)
	}
	snapshot = withGrid(snapshot.Clone())
	if snapshot.Configs == nil {
		snapshot.Configs = map[string]WidgetConfiguration{}
	}
	layout := SavedLayout{
		Name:      strings.TrimSpace(name),
		Key:       key,
		Widgets:   snapshot.Widgets,
		Configs:   snapshot.Configs,
		GridSize:  snapshot.GridSize,
		CreatedAt: r.now().UTC(),
	}
	if layout.Widgets == nil {
		layout.Widgets = []WidgetPlacement{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.saved[key]; exists && r.policy == CollisionReject {
		return SavedLayout{}, fmt.Errorf("%w: %q", ErrLayoutExists, key)
	}
	r.saved[key] = layout
	return layout.Clone(), nil
}

// DeleteLayout removes a saved layout.
func (r *LayoutRegistry) DeleteLayout(key string) error {
	if _, ok := r.builtIn(key); ok {
		return fmt.Errorf("%w: %q", ErrBuiltInLayout, key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.saved[key]; !ok {
		return fmt.Errorf("%w: %q", ErrLayoutNotFound, key)
	}
	delete(r.saved, key)
	return nil
}

// SavedLayout returns a copy of a single saved layout.
func (r *LayoutRegistry) SavedLayout(key string) (SavedLayout, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	layout, ok := r.saved[key]
	if !ok {
		return SavedLayout{}, false
	}
	return layout.Clone(), true
}

// SavedLayouts returns copies of every saved layout sorted by key.
func (r *LayoutRegistry) SavedLayouts() []SavedLayout {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SavedLayout, 0, len(r.saved))
	for _, layout := range r.saved {
		out = append(out, layout.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ReplaceSaved swaps the saved layouts wholesale; entries are keyed by the map key.
func (r *LayoutRegistry) ReplaceSaved(layouts map[string]SavedLayout) {
	next := make(map[string]SavedLayout, len(layouts))
	for key, layout := range layouts {
		if key == "" {
			continue
		}
		layout = layout.Clone()
		layout.Key = key
		next[key] = layout
	}
	r.mu.Lock()
	r.saved = next
	r.mu.Unlock()
}

func (r *LayoutRegistry) builtIn(key string) (LayoutDefinition, bool) {
	for _, def := range r.builtIns {
		if def.Key == key {
			return def, true
		}
	}
	return LayoutDefinition{}, false
}

func withGrid(s LayoutSnapshot) LayoutSnapshot {
	if s.GridSize.Cols <= 0 || s.GridSize.Rows <= 0 {
		s.GridSize = DefaultGridSize
	}
	return s
}

var _ LayoutStore = (*LayoutRegistry)(nil)
