package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"go.uber.org/zap"
)

// StorageKey is the fixed key holding the persisted dashboard document.
const StorageKey = "bdc_dashboard_layouts"

// KeyValueStore is the durable storage behind the persistence adapter.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// PersistedDocument is the JSON blob stored under StorageKey.
type PersistedDocument struct {
	Layouts map[string]SavedLayout         `json:"layouts"`
	Configs map[string]WidgetConfiguration `json:"configs"`
}

// AdapterOption customizes a PersistenceAdapter.
type AdapterOption func(*PersistenceAdapter)

// WithStorageKey overrides StorageKey, mostly for tests sharing one backend.
func WithStorageKey(key string) AdapterOption {
	return func(a *PersistenceAdapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithAdapterLogger sets the logger used for persistence failures.
func WithAdapterLogger(logger *zap.Logger) AdapterOption {
	return func(a *PersistenceAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// PersistenceAdapter serializes saved layouts and widget configuration into a single
// document in a KeyValueStore.
type PersistenceAdapter struct {
	store  KeyValueStore
	key    string
	logger *zap.Logger
}

// NewPersistenceAdapter wraps store. A nil store falls back to an in-memory store.
func NewPersistenceAdapter(store KeyValueStore, opts ...AdapterOption) *PersistenceAdapter {
	if store == nil {
		store = NewMemoryStore()
	}
	a := &PersistenceAdapter{
		store:  store,
		key:    StorageKey,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Key returns the storage key the adapter reads and writes.
func (a *PersistenceAdapter) Key() string {
	return a.key
}

// Persist writes the document. Failures are logged and returned wrapped in ErrPersistFailed.
func (a *PersistenceAdapter) Persist(ctx context.Context, layouts map[string]SavedLayout, configs map[string]WidgetConfiguration) error {
	doc := PersistedDocument{
		Layouts: maps.Clone(layouts),
		Configs: configs,
	}
	doc.normalize()
	data, err := json.Marshal(doc)
	if err != nil {
		a.logger.Error("encode dashboard layouts", zap.String("key", a.key), zap.Error(err))
		return fmt.Errorf("%w: encode: %v", ErrPersistFailed, err)
	}
	if err := a.store.Set(ctx, a.key, data); err != nil {
		a.logger.Error("store dashboard layouts", zap.String("key", a.key), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	a.logger.Debug("persisted dashboard layouts",
		zap.String("key", a.key),
		zap.Int("layouts", len(doc.Layouts)),
		zap.Int("configs", len(doc.Configs)),
	)
	return nil
}

// Restore reads the document. A missing key, a storage error, or corrupt data reports
// ok=false; the latter two are logged.
func (a *PersistenceAdapter) Restore(ctx context.Context) (PersistedDocument, bool) {
	data, found, err := a.store.Get(ctx, a.key)
	if err != nil {
		a.logger.Warn("load dashboard layouts", zap.String("key", a.key), zap.Error(err))
		return PersistedDocument{}, false
	}
	if !found || len(data) == 0 {
		return PersistedDocument{}, false
	}
	var doc PersistedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		a.logger.Warn("decode dashboard layouts", zap.String("key", a.key), zap.Error(err))
		return PersistedDocument{}, false
	}
	doc.normalize()
	for key, layout := range doc.Layouts {
		if layout.Key == "" {
			layout.Key = key
			doc.Layouts[key] = layout
		}
	}
	return doc, true
}

func (d *PersistedDocument) normalize() {
	if d.Layouts == nil {
		d.Layouts = map[string]SavedLayout{}
	}
	if d.Configs == nil {
		d.Configs = map[string]WidgetConfiguration{}
	}
}

// MemoryStore is a concurrency-safe in-process KeyValueStore.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

var (
	_ Persister     = (*PersistenceAdapter)(nil)
	_ KeyValueStore = (*MemoryStore)(nil)
)
