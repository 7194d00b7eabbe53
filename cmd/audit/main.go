// Package main audits the article tree and reports unused images.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shamir/internal/cli"
	"shamir/internal/validator"
)

const job = "audit"

var (
	errInvalid = errors.New("article tree has errors")

	strict = pflag.Bool("strict", false, "Exit with an error when the audit finds problems")
)

func main() {
	flags := cli.RegisterFlags(pflag.CommandLine, false)
	pflag.Parse()

	os.Exit(cli.Main(job, flags, run))
}

func run(_ context.Context, app *cli.App) error {
	result, err := validator.NewArticleValidator(app.Config, app.Store).Validate()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "📋 %s\n", result)

	result.PrintWarnings(app.Out)
	result.PrintErrors(app.Out)

	if path := app.Config.Content.UnusedImagesReport; path != "" && len(result.UnusedImages) > 0 {
		if err := validator.WriteUnusedReport(path, result.UnusedImages); err != nil {
			return err
		}

		fmt.Fprintf(app.Out, "📂 Unused images written to %s\n", path)
	}

	if *strict && !result.IsValid {
		return errInvalid
	}

	return nil
}
