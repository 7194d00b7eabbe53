// Package main machine-translates translation files that still hold
// placeholder or Russian text.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shamir/internal/cli"
	"shamir/internal/translator"
)

const job = "translate-articles"

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, false)
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(ctx context.Context, app *cli.App) error {
	tr, closeCache, err := translator.FromConfig(ctx, app.Config, app.Log, app.Metrics, app.Sleep)
	if err != nil {
		return err
	}

	defer func() {
		if err := closeCache(); err != nil {
			app.Log.Warn("Failed to close translation cache", "error", err)
		}
	}()

	fmt.Fprintf(app.Out, "⚙️  Provider: %s\n", app.Config.Translate.Provider)

	runner := translator.NewRunner(app.Store, tr, nil, app.Config.Translate.Markers, app.Log, app.Metrics, app.Out)

	result, err := runner.Run(ctx)

	fmt.Fprintf(app.Out, "\n📋 Summary:\n%s\n", result.Summary())

	return err
}
