package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/PahliAi/Visuate/report"
)

type updateCmd struct {
	dryRun  bool
	noFiles bool
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "reconcile the workbook against the providers and refresh all outputs"
}
func (*updateCmd) Usage() string {
	return `vsu update [-n] [-no-files]

  Runs one full reconciliation: repairs gaps in the price and rate history,
  fetches new observations, converts foreign prices to EUR, rewrites the
  workbook, regenerates the projection files and prints the run report.

# Preview what a run would do without writing anything:
$ vsu update -n

`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Dry run: compute everything, write nothing")
	f.BoolVar(&c.noFiles, "no-files", false, "Skip the HTML report and chart files")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	summary, err := NewRunner(cfg, log).Run(c.dryRun)
	if err != nil {
		annotateError("Reconciliation failed", err.Error())
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	md := report.RunMarkdown(summary)
	printMarkdown(md)

	if !c.dryRun && !c.noFiles {
		// the workbook is already saved: report file failures are logged,
		// never fatal
		htmlPath := filepath.Join(cfg.OutputDir, "report.html")
		if err := report.WriteHTML(htmlPath, md); err != nil {
			log.Error().Err(err).Msg("html report failed")
		} else {
			log.Info().Str("path", htmlPath).Msg("html report written")
		}
		chartPath := filepath.Join(cfg.OutputDir, "prices.png")
		if err := report.WritePriceChart(chartPath, summary.Prices); err != nil {
			log.Warn().Err(err).Msg("price chart skipped")
		} else {
			log.Info().Str("path", chartPath).Msg("price chart written")
		}
	}

	for _, issue := range summary.Report.Issues {
		annotateWarning("Data quality", issue)
	}
	if fails := summary.Failures(); len(fails) > 0 {
		annotateError("Functional failure", strings.Join(fails, "; "))
		for _, msg := range fails {
			log.Error().Msg(msg)
		}
		return subcommands.ExitFailure
	}
	annotateNotice(fmt.Sprintf("Health %s", summary.Report.Health),
		fmt.Sprintf("%d new records, %d gaps filled",
			summary.NewPriceRecords, summary.PriceFill.Filled+summary.RateFill.Filled))
	return subcommands.ExitSuccess
}
