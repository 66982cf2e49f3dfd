package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Add or replace a widget type entry in a catalog manifest."`
	Validate validateCmd `cmd:"" help:"Validate one or more catalog manifests."`
	Layouts  layoutsCmd  `cmd:"" help:"Inspect saved layouts kept in a file-backed store."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Name("widgetctl"),
		kong.Description("Catalog and layout tooling for the dashboard builder."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}
