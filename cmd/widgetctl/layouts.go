package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

type layoutsCmd struct {
	List   layoutsListCmd   `cmd:"" help:"List saved layouts."`
	Show   layoutsShowCmd   `cmd:"" help:"Print a saved layout as JSON."`
	Delete layoutsDeleteCmd `cmd:"" help:"Delete a saved layout."`
}

// StoreFlags locate the layouts document shared by the layouts subcommands.
type StoreFlags struct {
	Dir string `default:"./data" env:"DASHBOARD_STORE_DIR" type:"path" help:"Directory of the file-backed layout store."`
	Key string `help:"Storage key holding the layouts document (defaults to bdc_dashboard_layouts)."`
}

type layoutsListCmd struct {
	StoreFlags `embed:""`

	out io.Writer
}

type layoutsShowCmd struct {
	StoreFlags `embed:""`
	LayoutKey  string `arg:"" name:"key" help:"Saved layout key."`

	out io.Writer
}

type layoutsDeleteCmd struct {
	StoreFlags `embed:""`
	LayoutKey  string `arg:"" name:"key" help:"Saved layout key."`

	out io.Writer
}

func (f StoreFlags) adapter() (*dashboard.PersistenceAdapter, error) {
	store, err := dashboard.NewFileStore(f.Dir)
	if err != nil {
		return nil, err
	}
	opts := []dashboard.AdapterOption{}
	if f.Key != "" {
		opts = append(opts, dashboard.WithStorageKey(f.Key))
	}
	return dashboard.NewPersistenceAdapter(store, opts...), nil
}

func (cmd *layoutsListCmd) Run(ctx context.Context) error {
	adapter, err := cmd.adapter()
	if err != nil {
		return err
	}
	doc, _ := adapter.Restore(ctx)
	keys := make([]string, 0, len(doc.Layouts))
	for key := range doc.Layouts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(output(cmd.out), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tWIDGETS\tCREATED")
	for _, key := range keys {
		layout := doc.Layouts[key]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", key, layout.Name, len(layout.Widgets), layout.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (cmd *layoutsShowCmd) Run(ctx context.Context) error {
	adapter, err := cmd.adapter()
	if err != nil {
		return err
	}
	doc, _ := adapter.Restore(ctx)
	layout, ok := doc.Layouts[cmd.LayoutKey]
	if !ok {
		return fmt.Errorf("widgetctl: %w: %q", dashboard.ErrLayoutNotFound, cmd.LayoutKey)
	}
	enc := json.NewEncoder(output(cmd.out))
	enc.SetIndent("", "  ")
	return enc.Encode(layout)
}

func (cmd *layoutsDeleteCmd) Run(ctx context.Context) error {
	adapter, err := cmd.adapter()
	if err != nil {
		return err
	}
	doc, _ := adapter.Restore(ctx)
	if _, ok := doc.Layouts[cmd.LayoutKey]; !ok {
		return fmt.Errorf("widgetctl: %w: %q", dashboard.ErrLayoutNotFound, cmd.LayoutKey)
	}
	delete(doc.Layouts, cmd.LayoutKey)
	if err := adapter.Persist(ctx, doc.Layouts, doc.Configs); err != nil {
		return err
	}
	fmt.Fprintf(output(cmd.out), "✓ Deleted %s\n", cmd.LayoutKey)
	return nil
}
