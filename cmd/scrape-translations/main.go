// Package main creates the Latvian and English article files from the
// legacy site's language variants.
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

const job = "scrape-translations"

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, false)
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(ctx context.Context, app *cli.App) error {
	fetcher := app.Fetcher()
	defer fetcher.Attempts().LogSummary(app.Log)

	scraper := scrape.NewTranslationScraper(scrape.Deps{
		Store:     app.Store,
		Getter:    fetcher,
		Extractor: crawler.NewExtractor(app.Config),
		Resolver:  crawler.NewVariantResolver(app.Config, app.Log),
		Log:       app.Log,
		Metrics:   app.Metrics,
		Out:       app.Out,
	}, nil)

	result, err := scraper.Run(ctx)

	fmt.Fprintf(app.Out, "\n📋 Summary:\n%s\n", result.Summary())

	return err
}
