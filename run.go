package visuate

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/PahliAi/Visuate/timeseries"
)

// Runner drives one full reconciliation: load, repair gaps, extend forward,
// convert, persist, project, assess. Every run is idempotent: replaying it
// against the same provider responses leaves the workbook unchanged.
type Runner struct {
	cfg    *Config
	prices PriceProvider
	rates  RateProvider
	spot   SpotProvider
	log    zerolog.Logger
	now    func() timeseries.Date
}

// NewRunner wires a runner from its collaborators. The spot provider may be
// nil; it is only a last-resort fallback for today's rates.
func NewRunner(cfg *Config, prices PriceProvider, rates RateProvider, spot SpotProvider, log zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, prices: prices, rates: rates, spot: spot, log: log, now: timeseries.Today}
}

// RunSummary is the outcome of one reconciliation, consumed by the report
// renderers and the exit-code layer.
type RunSummary struct {
	Today           timeseries.Date
	DataWasCurrent  bool
	NewPriceRecords int
	PriceFill       FillStats
	RateFill        FillStats
	RateUpdates     int // today's rates resolved outside the gap passes
	Conversions     ConversionStats
	Projections     ProjectionStats
	Report          *QualityReport
	DryRun          bool

	// the reconciled books, exposed for downstream rendering
	Prices *PriceBook
	Rates  *RateBook
}

// Failures lists the functional failures of a run that completed without
// technical error: the run did work-shaped nothing. An automation caller
// turns a non-empty list into a distinct failure signal.
func (s *RunSummary) Failures() []string {
	var fails []string
	if !s.DataWasCurrent && s.NewPriceRecords == 0 && s.PriceFill.Filled == 0 {
		fails = append(fails, "no new price records fetched or filled")
	}
	if s.RateFill.Filled == 0 && s.RateUpdates == 0 && !s.DataWasCurrent {
		fails = append(fails, "no rate updates")
	}
	if !s.DryRun && len(s.Projections.Files) == 0 {
		fails = append(fails, "no projection files produced")
	}
	return fails
}

// Run executes one reconciliation. With dryRun set, nothing is written: no
// workbook save, no projection files.
func (r *Runner) Run(dryRun bool) (*RunSummary, error) {
	today := r.now()
	summary := &RunSummary{Today: today, DryRun: dryRun}

	priceBook, rateBook, err := LoadWorkbook(r.cfg.WorkbookPath, r.cfg, r.log)
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}
	r.log.Info().Int("instruments", len(priceBook.Instruments())).
		Int("currencies", len(rateBook.Currencies())).
		Stringer("last", priceBook.Last()).Msg("workbook loaded")

	filler := NewGapFiller(r.prices, r.rates, r.cfg.LookbackDays, r.log)
	conv := NewConverter(rateBook, r.log)

	// Repair history first. Rates go in before conversion so that freshly
	// filled price gaps convert against freshly filled rates.
	summary.PriceFill = filler.FillPrices(priceBook)
	summary.RateFill = filler.FillRates(rateBook, today)
	convStats := conv.Apply(priceBook, summary.PriceFill.Records)
	priceBook.Commit(summary.PriceFill.Records)

	if (summary.PriceFill.Filled > 0 || summary.RateFill.Filled > 0) && !dryRun {
		// checkpoint: repaired history survives even if the fetch below dies
		if err := SaveWorkbook(r.cfg.WorkbookPath, priceBook, rateBook, r.log); err != nil {
			return nil, err
		}
		r.log.Info().Msg("checkpoint saved after gap fill")
	}

	last := priceBook.Last()
	summary.DataWasCurrent = !last.IsZero() && today.Sub(last) < r.cfg.UpdateThresholdDays
	if summary.DataWasCurrent {
		r.log.Info().Stringer("last", last).Msg("prices already current, skipping fetch")
	} else {
		newRecords := r.fetchNewPrices(priceBook, today)
		summary.RateUpdates = r.ensureTodayRates(rateBook, today)

		// a second rate pass: forward fill against rates that only became
		// available during this run
		post := filler.FillRates(rateBook, today)
		summary.RateFill.Filled += post.Filled
		summary.RateFill.Records = append(summary.RateFill.Records, post.Records...)

		cs := conv.Apply(priceBook, newRecords)
		convStats.Converted += cs.Converted
		convStats.NoRate += cs.NoRate
		priceBook.Commit(newRecords)
		summary.NewPriceRecords = len(newRecords)
	}
	summary.Conversions = convStats

	if !dryRun {
		if err := SaveWorkbook(r.cfg.WorkbookPath, priceBook, rateBook, r.log); err != nil {
			return nil, err
		}
		summary.Projections = WriteProjections(priceBook, rateBook, r.cfg.OutputDir, r.log)
	}

	summary.Report = NewAnalyzer(r.cfg, r.log).Assess(priceBook, rateBook, today)
	summary.Prices, summary.Rates = priceBook, rateBook
	return summary, nil
}

// fetchNewPrices extends every instrument forward from its own last
// observation up to today. Provider failures are logged and skipped.
func (r *Runner) fetchNewPrices(book *PriceBook, today timeseries.Date) []FillRecord {
	var records []FillRecord
	for _, inst := range book.Instruments() {
		last, _ := book.Series(inst.Name).Last()
		if last.IsZero() {
			// no anchor: bootstrap from the lookback window
			last = today.Add(-r.cfg.LookbackDays - 1)
		}
		from := last.Add(1)
		if from.After(today) {
			continue
		}

		fetched, err := r.prices.Daily(inst.Ticker, from, today)
		if err != nil {
			r.log.Error().Err(err).Str("instrument", inst.Name).Str("ticker", inst.Ticker).
				Msg("fetch failed")
			continue
		}
		n := 0
		for day, v := range fetched.Values() {
			// anything at or before the last known date is already in the
			// book, converted; re-adding it would convert twice
			if v <= 0 || day.Before(from) || day.After(today) {
				continue
			}
			records = append(records, FillRecord{Key: inst.Name, Day: day, Value: round2(v)})
			n++
		}
		r.log.Info().Str("instrument", inst.Name).Int("records", n).
			Stringer("from", from).Msg("fetched")
	}
	return records
}

// ensureTodayRates resolves today's rate for every currency that still
// lacks one: the historical provider first, then one shared snapshot as the
// last resort. Weekends are left alone.
func (r *Runner) ensureTodayRates(book *RateBook, today timeseries.Date) int {
	if today.IsWeekend() {
		return 0
	}

	var snapshot map[string]float64
	updates := 0
	for _, ccy := range book.Currencies() {
		if book.Has(ccy, today) {
			continue
		}

		if fetched, err := r.rates.DailyRates(ccy, today, today); err == nil {
			if v, ok := fetched.Get(today); ok && v > 0 {
				book.Put(ccy, today, round4(v))
				updates++
				continue
			}
		} else {
			r.log.Warn().Err(err).Str("currency", ccy).Msg("historical rate for today failed")
		}

		if r.spot == nil {
			continue
		}
		if snapshot == nil {
			var err error
			snapshot, err = r.spot.SpotRates()
			if err != nil {
				r.log.Error().Err(err).Msg("spot snapshot failed")
				snapshot = map[string]float64{} // do not retry per currency
				continue
			}
		}
		if v, ok := snapshot[ccy]; ok && v > 0 {
			book.Put(ccy, today, round4(v))
			updates++
			r.log.Info().Str("currency", ccy).Float64("rate", v).Msg("today's rate from snapshot")
		}
	}
	return updates
}
