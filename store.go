package visuate

import (
	"github.com/PahliAi/Visuate/timeseries"
)

// Instrument identifies one tracked share and its currency of denomination.
// Company and Ticker are also the workbook's metadata rows, preserved
// verbatim across rewrites.
type Instrument struct {
	Name     string // column header, e.g. "Allianz Share"
	Company  string // metadata row 1, e.g. "Allianz"
	Ticker   string // metadata row 2, e.g. "ALV.DE"
	Currency string // denomination of provider quotes, e.g. "EUR" or "USD"
}

// PriceBook holds the per-instrument price series for the duration of one
// reconciliation run. It is the single owner of the series: engines return
// records, the book commits them.
type PriceBook struct {
	instruments []Instrument
	prices      map[string]*timeseries.Series // keyed by instrument name
}

// NewPriceBook returns an empty book tracking the given instruments.
func NewPriceBook(instruments []Instrument) *PriceBook {
	b := &PriceBook{prices: make(map[string]*timeseries.Series)}
	for _, inst := range instruments {
		b.AddInstrument(inst)
	}
	return b
}

// AddInstrument registers a new instrument column. Re-adding a known name is
// a no-op.
func (b *PriceBook) AddInstrument(inst Instrument) {
	if _, ok := b.prices[inst.Name]; ok {
		return
	}
	b.instruments = append(b.instruments, inst)
	b.prices[inst.Name] = new(timeseries.Series)
}

// Instruments returns the tracked instruments in column order.
func (b *PriceBook) Instruments() []Instrument { return b.instruments }

// Instrument looks up a tracked instrument by name.
func (b *PriceBook) Instrument(name string) (Instrument, bool) {
	for _, inst := range b.instruments {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instrument{}, false
}

// Series returns the price series for the named instrument, or nil if the
// instrument is unknown.
func (b *PriceBook) Series(name string) *timeseries.Series { return b.prices[name] }

// Axis returns the sorted union of all dates carried by any instrument.
func (b *PriceBook) Axis() []timeseries.Date {
	all := make([]*timeseries.Series, 0, len(b.instruments))
	for _, inst := range b.instruments {
		all = append(all, b.prices[inst.Name])
	}
	return timeseries.Union(all...)
}

// Last returns the most recent date carried by any instrument, or a zero
// date when the book is empty.
func (b *PriceBook) Last() timeseries.Date {
	var last timeseries.Date
	for _, inst := range b.instruments {
		if on, _ := b.prices[inst.Name].Last(); on.After(last) {
			last = on
		}
	}
	return last
}

// Commit applies price records to the book, last write winning on a date
// collision.
func (b *PriceBook) Commit(records []FillRecord) {
	for _, r := range records {
		if s := b.prices[r.Key]; s != nil {
			s.Put(r.Day, r.Value)
		}
	}
}

// Records returns the total number of observations across instruments.
func (b *PriceBook) Records() int {
	n := 0
	for _, s := range b.prices {
		n += s.Len()
	}
	return n
}

// RateBook holds the per-currency exchange-rate series. Rates are expressed
// as units of currency per 1 EUR.
type RateBook struct {
	currencies []string
	rates      map[string]*timeseries.Series
}

// NewRateBook returns an empty book tracking the given currency codes.
func NewRateBook(currencies []string) *RateBook {
	b := &RateBook{rates: make(map[string]*timeseries.Series)}
	for _, c := range currencies {
		b.AddCurrency(c)
	}
	return b
}

// AddCurrency registers a new currency column. Re-adding is a no-op.
func (b *RateBook) AddCurrency(code string) {
	if _, ok := b.rates[code]; ok {
		return
	}
	b.currencies = append(b.currencies, code)
	b.rates[code] = new(timeseries.Series)
}

// Currencies returns the tracked currency codes in column order.
func (b *RateBook) Currencies() []string { return b.currencies }

// Series returns the rate series for a currency code, or nil if untracked.
func (b *RateBook) Series(code string) *timeseries.Series { return b.rates[code] }

// Axis returns the sorted union of all dates carrying at least one rate.
func (b *RateBook) Axis() []timeseries.Date {
	all := make([]*timeseries.Series, 0, len(b.currencies))
	for _, c := range b.currencies {
		all = append(all, b.rates[c])
	}
	return timeseries.Union(all...)
}

// Last returns the most recent date carried by any currency.
func (b *RateBook) Last() timeseries.Date {
	var last timeseries.Date
	for _, c := range b.currencies {
		if on, _ := b.rates[c].Last(); on.After(last) {
			last = on
		}
	}
	return last
}

// Has reports whether a rate exists for the given currency and date.
func (b *RateBook) Has(code string, day timeseries.Date) bool {
	s := b.rates[code]
	if s == nil {
		return false
	}
	_, ok := s.Get(day)
	return ok
}

// Put records a rate, last write winning.
func (b *RateBook) Put(code string, day timeseries.Date, rate float64) {
	if s := b.rates[code]; s != nil {
		s.Put(day, rate)
	}
}

// Records returns the number of dates on the book's axis.
func (b *RateBook) Records() int { return len(b.Axis()) }
