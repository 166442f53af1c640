package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	visuate "github.com/PahliAi/Visuate"
)

type projectCmd struct {
	outputDir string
}

func (*projectCmd) Name() string { return "project" }
func (*projectCmd) Synopsis() string {
	return "regenerate the per-instrument multi-currency projection files"
}
func (*projectCmd) Usage() string {
	return `vsu project [-o <dir>]

  Rebuilds one hist_<company>.xlsx per instrument from the workbook's EUR
  prices and the currency rate table, without fetching anything.

`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "", "Output directory, overriding the configuration")
}

func (c *projectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}

	log := Logger()
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.outputDir != "" {
		cfg.OutputDir = c.outputDir
	}

	prices, rates, err := visuate.LoadWorkbook(cfg.WorkbookPath, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	stats := visuate.WriteProjections(prices, rates, cfg.OutputDir, log)
	fmt.Printf("wrote %d projection file(s), %d failure(s)\n", len(stats.Files), stats.Failures)

	if len(stats.Files) == 0 {
		annotateError("Projection", "no projection files produced")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
