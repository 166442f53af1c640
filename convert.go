package visuate

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/PahliAi/Visuate/timeseries"
)

// Rounding policy: prices carry 2 decimals, rates 4. Arithmetic goes
// through decimals so that 100.00 * 0.92 is exactly 92.00.

func round2(v float64) float64 { return decimal.NewFromFloat(v).Round(2).InexactFloat64() }
func round4(v float64) float64 { return decimal.NewFromFloat(v).Round(4).InexactFloat64() }

// ConvertPrice multiplies a price by an exchange rate and rounds the result
// to 2 decimals.
func ConvertPrice(price, rate float64) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(rate)).Round(2).InexactFloat64()
}

// ConversionStats counts the outcome of one normalization batch.
type ConversionStats struct {
	Converted int
	NoRate    int // conversions degraded to pass-through: no as-of rate
}

// Converter normalizes foreign-denominated prices into EUR using as-of
// historical rates. It must only ever see records newly fetched or newly
// gap-filled in the current run: persisted values are already EUR, and
// feeding them back would convert twice.
type Converter struct {
	rates *RateBook
	log   zerolog.Logger
}

// NewConverter returns a converter backed by the given rate book.
func NewConverter(rates *RateBook, log zerolog.Logger) *Converter {
	return &Converter{rates: rates, log: log}
}

// EURRate returns the EUR value of one unit of the given currency as of
// 'day': the most recent rate at or before that date, inverted from the
// book's units-per-EUR form. It never uses a rate observed after 'day'.
func (c *Converter) EURRate(ccy string, day timeseries.Date) (float64, bool) {
	s := c.rates.Series(ccy)
	if s == nil {
		return 0, false
	}
	_, unitsPerEUR, ok := s.AsOf(day)
	if !ok || unitsPerEUR <= 0 {
		return 0, false
	}
	return 1 / unitsPerEUR, true
}

// Apply converts every record of a non-EUR instrument in place. Records of
// EUR instruments, and records with no rate available, pass through
// unchanged; the latter are counted and logged so the degradation is
// diagnosable without re-running.
func (c *Converter) Apply(book *PriceBook, records []FillRecord) ConversionStats {
	var stats ConversionStats
	for i := range records {
		inst, ok := book.Instrument(records[i].Key)
		if !ok || inst.Currency == "EUR" || inst.Currency == "" {
			continue
		}
		rate, ok := c.EURRate(inst.Currency, records[i].Day)
		if !ok {
			stats.NoRate++
			c.log.Warn().
				Str("instrument", records[i].Key).
				Str("currency", inst.Currency).
				Stringer("date", records[i].Day).
				Msg("no rate available, keeping original value")
			continue
		}
		records[i].Value = ConvertPrice(records[i].Value, rate)
		stats.Converted++
	}
	return stats
}
