package main

import (
	"github.com/alecthomas/kong"

	"github.com/kailas-cloud/listingsearch/internal/version"
)

// CLI is the listingsearch command line.
type CLI struct {
	Env    string    `help:"Configuration environment (config/<env>.yaml)." env:"ENV" default:"local"`
	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the search HTTP API."`
	Import ImportCmd `cmd:"" help:"Load a listing file into the database catalog."`

	Version kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("listingsearch"),
		kong.Description("Marketplace listing search: hybrid, fuzzy and semantic ranking."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version + " (" + version.Commit + ")"},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
