package visuate

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"

	"github.com/PahliAi/Visuate/timeseries"
)

// Health classifies the overall state of the reconciled data.
type Health int

const (
	Healthy Health = iota
	Warning
	Critical
)

func (h Health) String() string {
	switch h {
	case Healthy:
		return "HEALTHY"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	}
	return fmt.Sprintf("Health(%d)", int(h))
}

// SeriesQuality is the assessment of one instrument column or one currency
// column.
type SeriesQuality struct {
	Name          string
	Records       int
	TotalRows     int
	Coverage      float64 // percent of total rows carrying a value
	First, Last   timeseries.Date
	StalenessDays int
	Threshold     int // staleness threshold applied
	Stale         bool
}

// QualityReport is the structured result of one assessment, consumed by the
// report renderers and the CI annotation layer.
type QualityReport struct {
	AsOf        timeseries.Date
	Instruments []SeriesQuality
	Rates       []SeriesQuality
	Issues      []string
	Health      Health
	Window      Window
}

// Window is the bounded trailing view of recent values, pre-formatted for
// human reporting. Prices render as EUR money, rates with 4 decimals,
// absent cells as "N/A".
type Window struct {
	Days   []timeseries.Date
	Prices []WindowRow
	Rates  []WindowRow
}

// WindowRow is one labeled row of the trailing window.
type WindowRow struct {
	Label string
	Cells []string
}

// Analyzer scores the reconciled books against configured thresholds. The
// thresholds are policy data: nothing in here hard-wires a name to a limit.
type Analyzer struct {
	quality QualityConfig
	window  int
	log     zerolog.Logger
}

// NewAnalyzer returns an analyzer using the configuration's quality
// thresholds and recent-window length.
func NewAnalyzer(cfg *Config, log zerolog.Logger) *Analyzer {
	return &Analyzer{quality: cfg.Quality, window: cfg.RecentWindowDays, log: log}
}

// Assess computes the quality report for both books as of the given day.
// A series is flagged when its staleness exceeds its threshold; overall
// health escalates to CRITICAL when the flagged count exceeds the
// configured limit.
func (a *Analyzer) Assess(prices *PriceBook, rates *RateBook, today timeseries.Date) *QualityReport {
	r := &QualityReport{AsOf: today}

	priceRows := len(prices.Axis())
	for _, inst := range prices.Instruments() {
		q := assessSeries(inst.Name, prices.Series(inst.Name), priceRows,
			a.quality.StalenessThreshold(inst.Name), today)
		r.Instruments = append(r.Instruments, q)
		if q.Stale {
			r.Issues = append(r.Issues, fmt.Sprintf("%s: last value %s, %d days old (threshold %d)",
				q.Name, q.Last, q.StalenessDays, q.Threshold))
		}
	}

	rateRows := len(rates.Axis())
	for _, ccy := range rates.Currencies() {
		q := assessSeries(ccy, rates.Series(ccy), rateRows, a.quality.RateStalenessDays, today)
		r.Rates = append(r.Rates, q)
		if q.Stale {
			r.Issues = append(r.Issues, fmt.Sprintf("%s rate: last value %s, %d days old (threshold %d)",
				q.Name, q.Last, q.StalenessDays, q.Threshold))
		}
	}

	switch flagged := len(r.Issues); {
	case flagged == 0:
		r.Health = Healthy
	case flagged > a.quality.CriticalGapCount:
		r.Health = Critical
	default:
		r.Health = Warning
	}

	r.Window = a.buildWindow(prices, rates, today)

	a.log.Info().Stringer("health", r.Health).Int("issues", len(r.Issues)).
		Msg("quality assessed")
	return r
}

func assessSeries(name string, s *timeseries.Series, totalRows, threshold int, today timeseries.Date) SeriesQuality {
	q := SeriesQuality{Name: name, TotalRows: totalRows, Threshold: threshold}
	if s == nil || s.Len() == 0 {
		// an empty column is maximally stale
		q.StalenessDays = threshold + 1
		q.Stale = true
		return q
	}
	q.Records = s.Len()
	if totalRows > 0 {
		q.Coverage = 100 * float64(q.Records) / float64(totalRows)
	}
	q.First, _ = s.First()
	q.Last, _ = s.Last()
	q.StalenessDays = today.Sub(q.Last)
	q.Stale = q.StalenessDays > threshold
	return q
}

// buildWindow formats the trailing days of both books.
func (a *Analyzer) buildWindow(prices *PriceBook, rates *RateBook, today timeseries.Date) Window {
	var w Window
	for i := a.window - 1; i >= 0; i-- {
		w.Days = append(w.Days, today.Add(-i))
	}

	for _, inst := range prices.Instruments() {
		row := WindowRow{Label: inst.Name}
		s := prices.Series(inst.Name)
		for _, day := range w.Days {
			if v, ok := s.Get(day); ok {
				row.Cells = append(row.Cells, formatEUR(v))
			} else {
				row.Cells = append(row.Cells, "N/A")
			}
		}
		w.Prices = append(w.Prices, row)
	}

	for _, ccy := range rates.Currencies() {
		row := WindowRow{Label: ccy}
		s := rates.Series(ccy)
		for _, day := range w.Days {
			if v, ok := s.Get(day); ok {
				row.Cells = append(row.Cells, fmt.Sprintf("%.4f", v))
			} else {
				row.Cells = append(row.Cells, "N/A")
			}
		}
		w.Rates = append(w.Rates, row)
	}
	return w
}

// formatEUR renders a price as localized EUR money, e.g. "€92.00".
func formatEUR(v float64) string {
	return money.New(int64(math.Round(v*100)), money.EUR).Display()
}
