package visuate

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/PahliAi/Visuate/timeseries"
)

// FillRecord is one value written, or about to be written, into a book. Key
// is the instrument name for prices and the currency code for rates.
// FallbackFrom is the provider date actually used when no exact match
// existed, zero for exact matches.
type FillRecord struct {
	Key          string
	Day          timeseries.Date
	Value        float64
	FallbackFrom timeseries.Date
}

// Source describes where the value came from, for logs and reports.
func (r FillRecord) Source() string {
	if r.FallbackFrom.IsZero() {
		return "exact"
	}
	return fmt.Sprintf("fallback-to-%s", r.FallbackFrom)
}

// FillStats summarizes one fill pass.
type FillStats struct {
	Filled  int
	Skipped int // candidates with no usable provider value
	Records []FillRecord
}

// GapFiller detects and repairs missing observations in price and rate
// books. It asks the providers for whole windows, one query per instrument
// or currency, and matches candidates against the response locally.
type GapFiller struct {
	prices   PriceProvider
	rates    RateProvider
	lookback int // days
	log      zerolog.Logger
}

// NewGapFiller returns a filler with the given providers and lookback
// window length in days.
func NewGapFiller(prices PriceProvider, rates RateProvider, lookback int, log zerolog.Logger) *GapFiller {
	return &GapFiller{prices: prices, rates: rates, lookback: lookback, log: log}
}

// FillPrices scans each instrument for dates on the book's axis that fall
// inside the instrument's lookback window but carry no value, and fills
// them from the provider. The window is anchored at the instrument's own
// last observation, so a stale column is repaired relative to where it
// stopped, not relative to today.
//
// Returned records are NOT committed: the caller converts non-EUR values
// first and then commits. An instrument with no observations at all has no
// anchor and produces no candidates.
func (g *GapFiller) FillPrices(book *PriceBook) FillStats {
	var stats FillStats
	axis := book.Axis()
	for _, inst := range book.Instruments() {
		series := book.Series(inst.Name)
		anchor, _ := series.Last()
		if anchor.IsZero() {
			g.log.Warn().Str("instrument", inst.Name).Msg("no history, skipping gap scan")
			continue
		}
		from := anchor.Add(-g.lookback)

		var candidates []timeseries.Date
		for _, day := range axis {
			if day.Before(from) || day.After(anchor) {
				continue
			}
			if _, ok := series.Get(day); !ok {
				candidates = append(candidates, day)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		fetched, err := g.prices.Daily(inst.Ticker, from, anchor)
		if err != nil {
			stats.Skipped += len(candidates)
			g.log.Error().Err(err).Str("instrument", inst.Name).Str("ticker", inst.Ticker).
				Int("gaps", len(candidates)).Msg("provider query failed, gaps left open")
			continue
		}

		for _, day := range candidates {
			rec, ok := matchCandidate(inst.Name, day, fetched, round2)
			if !ok {
				stats.Skipped++
				g.log.Warn().Str("instrument", inst.Name).Stringer("date", day).
					Msg("no provider value at or before gap date")
				continue
			}
			stats.Filled++
			stats.Records = append(stats.Records, rec)
			g.log.Info().Str("instrument", inst.Name).Stringer("date", day).
				Float64("value", rec.Value).Str("source", rec.Source()).Msg("gap filled")
		}
	}
	return stats
}

// FillRates repairs the rate book and extends it forward. Candidates for
// each currency are the weekdays inside the book's trailing lookback window
// plus every weekday from the book's last date up to today, so a freshly
// opened day gets its rate on the same pass that repairs history. Filled
// rates are committed immediately: conversion needs them in place.
func (g *GapFiller) FillRates(book *RateBook, today timeseries.Date) FillStats {
	var stats FillStats
	anchor := book.Last()
	if anchor.IsZero() {
		// brand-new table: bootstrap from a single lookback window before today
		anchor = today
	}
	from := anchor.Add(-g.lookback)
	to := anchor
	if today.After(to) {
		to = today
	}

	var candidates []timeseries.Date
	for day := from; !day.After(to); day = day.Add(1) {
		if !day.IsWeekend() {
			candidates = append(candidates, day)
		}
	}

	for _, ccy := range book.Currencies() {
		series := book.Series(ccy)

		var missing []timeseries.Date
		for _, day := range candidates {
			if _, ok := series.Get(day); !ok {
				missing = append(missing, day)
			}
		}
		if len(missing) == 0 {
			continue
		}

		fetched, err := g.rates.DailyRates(ccy, from, to)
		if err != nil {
			stats.Skipped += len(missing)
			g.log.Error().Err(err).Str("currency", ccy).
				Int("gaps", len(missing)).Msg("rate query failed, gaps left open")
			continue
		}

		for _, day := range missing {
			rec, ok := matchCandidate(ccy, day, fetched, round4)
			if !ok {
				stats.Skipped++
				continue
			}
			book.Put(ccy, rec.Day, rec.Value)
			stats.Filled++
			stats.Records = append(stats.Records, rec)
			g.log.Info().Str("currency", ccy).Stringer("date", day).
				Float64("rate", rec.Value).Str("source", rec.Source()).Msg("rate filled")
		}
	}
	return stats
}

// matchCandidate resolves one gap date against a fetched series: an exact
// value if the provider has one, otherwise the nearest earlier value tagged
// with its origin date. Non-positive values never fill a gap.
func matchCandidate(key string, day timeseries.Date, fetched *timeseries.Series, round func(float64) float64) (FillRecord, bool) {
	if v, ok := fetched.Get(day); ok && v > 0 {
		return FillRecord{Key: key, Day: day, Value: round(v)}, true
	}
	on, v, ok := fetched.AsOf(day)
	if !ok || v <= 0 {
		return FillRecord{}, false
	}
	return FillRecord{Key: key, Day: day, Value: round(v), FallbackFrom: on}, true
}
