package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// LoadManifestDir registers every .yaml/.yml manifest found directly inside dir. Files load
// in name order; failures are joined so one bad manifest does not hide the others.
func (c *Catalog) LoadManifestDir(dir string) ([]*WidgetManifestDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dashboard: read manifest dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	var (
		docs    []*WidgetManifestDocument
		loadErr error
	)
	for _, name := range names {
		doc, err := c.LoadManifestFile(filepath.Join(dir, name))
		if err != nil {
			loadErr = errors.Join(loadErr, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, loadErr
}

// SeedSavedLayouts stores each named built-in layout as a saved layout and persists once.
// It is used to give fresh installs editable copies of the starter dashboards.
func SeedSavedLayouts(ctx context.Context, service *Service, names map[string]string) error {
	if service == nil {
		return errors.New("dashboard: service is required to seed layouts")
	}
	keys := make([]string, 0, len(names))
	for key := range names {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var seedErr error
	service.mu.Lock()
	defer service.mu.Unlock()
	for _, key := range keys {
		snapshot, err := service.opts.Layouts.LoadLayout(key)
		if err != nil {
			seedErr = errors.Join(seedErr, err)
			continue
		}
		if _, err := service.opts.Layouts.SaveLayout(names[key], snapshot); err != nil {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed %s: %w", key, err))
		}
	}
	if err := service.persistLocked(ctx); err != nil {
		seedErr = errors.Join(seedErr, err)
	}
	return seedErr
}
