// Package main saves one standalone legacy page in all three languages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shamir/internal/cli"
	"shamir/internal/crawler"
	"shamir/internal/scrape"
)

const job = "scrape-page"

var (
	pageURL string
	outDir  string
)

var errUsage = errors.New("--url and --out are required")

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, false)
	pflag.StringVar(&pageURL, "url", "", "Russian page URL")
	pflag.StringVar(&outDir, "out", "", "Directory for ru.md, lv.md and en.md")
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(ctx context.Context, app *cli.App) error {
	if pageURL == "" || outDir == "" {
		pflag.PrintDefaults()
		return errUsage
	}

	fetcher := app.Fetcher()
	defer fetcher.Attempts().LogSummary(app.Log)

	scraper := scrape.NewPageScraper(scrape.Deps{
		Getter:    fetcher,
		Extractor: crawler.NewExtractor(app.Config),
		Resolver:  crawler.NewVariantResolver(app.Config, app.Log),
		Log:       app.Log,
		Metrics:   app.Metrics,
		Out:       app.Out,
	})

	saved, err := scraper.Scrape(ctx, pageURL, outDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "\n✅ Saved %d of 3 languages to %s\n", len(saved), outDir)

	return nil
}
