// Package report renders the outcome of a reconciliation run: markdown for
// the terminal, a standalone HTML document, and a price-history chart.
package report

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	visuate "github.com/PahliAi/Visuate"
)

//go:embed templates/*.md
var templates embed.FS

// runView is the flattened, pre-formatted data handed to the templates.
type runView struct {
	AsOf           string
	Health         string
	DryRun         bool
	DataWasCurrent bool

	NewPriceRecords int
	GapsFilled      int
	GapsSkipped     int
	RateUpdates     int
	Converted       int
	NoRate          int

	ProjectionFiles    []string
	ProjectionFailures int

	Failures []string
	Issues   []string

	CoverageTable string
	PriceWindow   string
	RateWindow    string
}

// RunMarkdown renders the full run report to markdown.
func RunMarkdown(s *visuate.RunSummary) string {
	q := s.Report
	v := runView{
		AsOf:               s.Today.String(),
		Health:             q.Health.String(),
		DryRun:             s.DryRun,
		DataWasCurrent:     s.DataWasCurrent,
		NewPriceRecords:    s.NewPriceRecords,
		GapsFilled:         s.PriceFill.Filled + s.RateFill.Filled,
		GapsSkipped:        s.PriceFill.Skipped + s.RateFill.Skipped,
		RateUpdates:        s.RateUpdates,
		Converted:          s.Conversions.Converted,
		NoRate:             s.Conversions.NoRate,
		ProjectionFiles:    s.Projections.Files,
		ProjectionFailures: s.Projections.Failures,
		Failures:           s.Failures(),
		Issues:             q.Issues,
		CoverageTable:      coverageTable(q),
		PriceWindow:        windowTable(q.Window.Days, q.Window.Prices),
		RateWindow:         windowTable(q.Window.Days, q.Window.Rates),
	}
	partials := map[string]string{
		"run_status":  "templates/run_status.md",
		"run_summary": "templates/run_summary.md",
		"run_quality": "templates/run_quality.md",
		"run_window":  "templates/run_window.md",
	}
	return renderTemplate("run", "templates/run.md", partials, v)
}

// QualityMarkdown renders the quality assessment alone, without the run
// summary section.
func QualityMarkdown(q *visuate.QualityReport) string {
	v := runView{
		AsOf:          q.AsOf.String(),
		Health:        q.Health.String(),
		Issues:        q.Issues,
		CoverageTable: coverageTable(q),
		PriceWindow:   windowTable(q.Window.Days, q.Window.Prices),
		RateWindow:    windowTable(q.Window.Days, q.Window.Rates),
	}
	partials := map[string]string{
		"run_status":  "templates/run_status.md",
		"run_quality": "templates/run_quality.md",
		"run_window":  "templates/run_window.md",
	}
	return renderTemplate("quality", "templates/quality.md", partials, v)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := templates.ReadFile(mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := templates.ReadFile(file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
