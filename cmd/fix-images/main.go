// Package main removes leading whitespace in front of image lines in
// translation files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shamir/internal/cli"
	"shamir/internal/formatter"
)

const job = "fix-images"

var alignTables bool

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, true)
	pflag.BoolVar(&alignTables, "align-tables", false, "Also pad table cells to equal width")
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(ctx context.Context, app *cli.App) error {
	fixer := formatter.NewImageFixer(app.Store, app.Log, app.Metrics, app.Out, app.DryRun)
	if alignTables {
		fixer.AlignTables()
	}

	result, err := fixer.Run(ctx)

	fmt.Fprintf(app.Out, "\n✅ %s\n", result)

	return err
}
