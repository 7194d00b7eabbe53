// Package main imports legacy articles that have no Russian file yet.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shamir/internal/cli"
	"shamir/internal/crawler"
	"shamir/internal/scrape"
)

const job = "import-articles"

var input string

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, false)
	pflag.StringVarP(&input, "input", "i", "", "URL list file (defaults to discover.output)")
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(ctx context.Context, app *cli.App) error {
	path := app.Config.Discover.Output
	if input != "" {
		path = input
	}

	urls, err := scrape.ReadURLList(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "📂 Loaded %d URLs from %s\n", len(urls), path)

	fetcher := app.Fetcher()
	defer fetcher.Attempts().LogSummary(app.Log)

	importer := scrape.NewImporter(scrape.Deps{
		Store:     app.Store,
		Getter:    fetcher,
		Extractor: crawler.NewExtractor(app.Config),
		Resolver:  crawler.NewVariantResolver(app.Config, app.Log),
		Log:       app.Log,
		Metrics:   app.Metrics,
		Out:       app.Out,
	})

	result, err := importer.Import(ctx, urls)

	fmt.Fprintf(app.Out, "\n✅ %s\n", result)

	return err
}
