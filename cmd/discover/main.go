// Package main collects article URLs from the legacy category listings and
// feeds.
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

const job = "discover"

var output string

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, false)
	pflag.StringVarP(&output, "output", "o", "", "URL list file (overrides discover.output)")
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(ctx context.Context, app *cli.App) error {
	fetcher := app.Fetcher()
	defer fetcher.Attempts().LogSummary(app.Log)

	urls, err := crawler.NewDiscoverer(fetcher, app.Config, app.Log).Discover(ctx)
	if err != nil {
		return err
	}

	path := app.Config.Discover.Output
	if output != "" {
		path = output
	}

	if err := scrape.WriteURLList(path, urls); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "✅ Found %d article URLs, saved to %s\n", len(urls), path)

	return nil
}
