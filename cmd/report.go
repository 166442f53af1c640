package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	visuate "github.com/PahliAi/Visuate"
	"github.com/PahliAi/Visuate/report"
	"github.com/PahliAi/Visuate/timeseries"
)

type reportCmd struct {
	html string
}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "assess the workbook's data quality without touching the providers"
}
func (*reportCmd) Usage() string {
	return `vsu report [-html <file>]

  Prints the data quality report for the current workbook: coverage,
  staleness, and the recent price and rate windows. Nothing is fetched and
  nothing is written unless -html is given.

`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.html, "html", "", "Also write the report as HTML to this file")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	prices, rates, err := visuate.LoadWorkbook(cfg.WorkbookPath, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	q := visuate.NewAnalyzer(cfg, log).Assess(prices, rates, timeseries.Today())
	md := report.QualityMarkdown(q)
	printMarkdown(md)

	if c.html != "" {
		if err := report.WriteHTML(c.html, md); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	if q.Health == visuate.Critical {
		annotateError("Data quality", fmt.Sprintf("%d issues, health CRITICAL", len(q.Issues)))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
