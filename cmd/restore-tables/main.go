// Package main puts tables lost during translation back into translation
// files, taking them from the legacy site.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shamir/internal/cli"
	"shamir/internal/crawler"
	"shamir/internal/restore"
)

const job = "restore-tables"

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, false)
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(ctx context.Context, app *cli.App) error {
	fetcher := app.Fetcher()
	defer fetcher.Attempts().LogSummary(app.Log)

	runner := restore.NewRunner(
		app.Store,
		fetcher,
		crawler.NewExtractor(app.Config),
		crawler.NewVariantResolver(app.Config, app.Log),
		app.Log,
		app.Metrics,
		app.Out,
	)

	result, err := runner.Run(ctx)

	fmt.Fprintf(app.Out, "\n✅ %s\n", result)

	return err
}
