// Package main copies the Russian article tags, translated, into the
// Latvian and English files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shamir/internal/cli"
	"shamir/internal/tags"
)

const job = "sync-tags"

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, false)
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(ctx context.Context, app *cli.App) error {
	result, err := tags.NewSyncer(app.Store, nil, app.Log, app.Metrics, app.Out).Run(ctx)

	fmt.Fprintf(app.Out, "\n✅ %s\n", result)

	return err
}
