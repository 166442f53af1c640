package report

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	visuate "github.com/PahliAi/Visuate"
	"github.com/PahliAi/Visuate/timeseries"
)

// coverageTable renders the per-series assessment as a markdown table.
func coverageTable(q *visuate.QualityReport) string {
	table := md.TableSet{
		Header: []string{"Series", "Records", "Coverage", "First", "Last", "Age (days)", "Status"},
	}
	appendRow := func(label string, s visuate.SeriesQuality) {
		status := "ok"
		if s.Stale {
			status = "STALE"
		}
		table.Rows = append(table.Rows, []string{
			label,
			fmt.Sprint(s.Records),
			fmt.Sprintf("%.0f%%", s.Coverage),
			dateOrDash(s.First),
			dateOrDash(s.Last),
			fmt.Sprint(s.StalenessDays),
			status,
		})
	}
	for _, s := range q.Instruments {
		appendRow(s.Name, s)
	}
	for _, s := range q.Rates {
		appendRow(s.Name+" rate", s)
	}
	return buildTable(table)
}

// windowTable renders a trailing window as a markdown table, one column per
// day.
func windowTable(days []timeseries.Date, rows []visuate.WindowRow) string {
	table := md.TableSet{Header: []string{""}}
	for _, d := range days {
		table.Header = append(table.Header, d.String())
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, append([]string{r.Label}, r.Cells...))
	}
	return buildTable(table)
}

func buildTable(set md.TableSet) string {
	var buf bytes.Buffer
	return md.NewMarkdown(&buf).Table(set).String()
}

func dateOrDash(d timeseries.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}
