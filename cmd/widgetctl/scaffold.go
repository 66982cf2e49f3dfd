package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

type scaffoldCmd struct {
	ID           string   `required:"" help:"Widget type id (normalized to snake_case, e.g. leaderboard)."`
	Name         string   `help:"Display name (defaults to the id in title case)."`
	Description  string   `required:"" help:"One-line description shown in the widget library."`
	Category     string   `default:"custom" help:"Widget category."`
	Width        int      `default:"1" help:"Default width in grid columns."`
	Height       int      `default:"1" help:"Default height in grid rows."`
	Field        []string `help:"Configurable fields (repeat --field)."`
	ManifestPath string   `required:"" type:"path" help:"Manifest YAML file to create or update."`
	SchemaPath   string   `type:"path" help:"Optional JSON schema file for the widget configuration."`
	Tag          []string `help:"Tags to record in the manifest."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	Overwrite    bool     `help:"Replace an existing entry with the same id."`

	out io.Writer
}

func (cmd *scaffoldCmd) Run() error {
	id := strcase.ToSnake(strings.TrimSpace(cmd.ID))
	if id == "" {
		return errors.New("widgetctl: widget id is required")
	}
	if cmd.Width < 1 || cmd.Height < 1 {
		return fmt.Errorf("widgetctl: default size must be at least 1x1, got %dx%d", cmd.Width, cmd.Height)
	}
	doc, err := loadOrInitManifest(cmd.ManifestPath)
	if err != nil {
		return err
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	name := cmd.Name
	if name == "" {
		name = strcase.ToCase(id, strcase.TitleCase, ' ')
	}
	fields := cmd.Field
	if len(fields) == 0 {
		fields = []string{"title"}
	}
	entry := dashboard.ManifestWidget{
		Type: dashboard.WidgetTypeDescriptor{
			ID:                 id,
			DisplayName:        name,
			Description:        cmd.Description,
			Category:           cmd.Category,
			DefaultSize:        dashboard.Size{Width: cmd.Width, Height: cmd.Height},
			ConfigurableFields: fields,
			Schema:             schema,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Type.ID != id {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("widgetctl: manifest already defines widget %s (use --overwrite to replace)", id)
		}
		doc.Widgets[idx] = entry
		replaced = true
		break
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Type.ID < doc.Widgets[j].Type.ID
	})
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(cmd.ManifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(output(cmd.out), "✓ Added %s to %s\n", id, cmd.ManifestPath)
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("widgetctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("widgetctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

type validateCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Manifest files to validate."`

	out io.Writer
}

func (cmd *validateCmd) Run() error {
	var errs error
	for _, path := range cmd.Paths {
		doc, err := dashboard.ReadManifest(path)
		if err == nil {
			err = doc.Validate()
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		fmt.Fprintf(output(cmd.out), "✓ %s (%d widget types)\n", path, len(doc.Widgets))
	}
	return errs
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("widgetctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("widgetctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("widgetctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	if err := dashboard.EncodeManifest(file, doc); err != nil {
		return fmt.Errorf("widgetctl: write manifest: %w", err)
	}
	return nil
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
