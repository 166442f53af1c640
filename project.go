package visuate

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/PahliAi/Visuate/timeseries"
)

// A Projection is one instrument's EUR price history fanned out into every
// tracked currency. A cell exists only where both the EUR price and the
// day's rate exist and the rate is positive; everything else stays absent
// rather than carried forward, so the projection never invents data the
// books do not hold.
type Projection struct {
	Instrument Instrument
	Currencies []string // "EUR" first, then the rate book's order
	days       []timeseries.Date
	cols       map[string]*timeseries.Series
}

// Days returns the projection's date axis: the instrument's own EUR dates.
func (p *Projection) Days() []timeseries.Date { return p.days }

// Value returns the cell for one currency and date.
func (p *Projection) Value(ccy string, day timeseries.Date) (float64, bool) {
	s := p.cols[ccy]
	if s == nil {
		return 0, false
	}
	return s.Get(day)
}

// BuildProjection computes one instrument's projection against the rate
// book. An instrument without any EUR history cannot be projected.
func BuildProjection(inst Instrument, eur *timeseries.Series, rates *RateBook) (*Projection, error) {
	if eur == nil || eur.Len() == 0 {
		return nil, fmt.Errorf("%s: no price history to project", inst.Name)
	}

	p := &Projection{
		Instrument: inst,
		Currencies: append([]string{"EUR"}, rates.Currencies()...),
		days:       eur.Dates(),
		cols:       map[string]*timeseries.Series{"EUR": eur},
	}
	for _, ccy := range rates.Currencies() {
		col := new(timeseries.Series)
		rs := rates.Series(ccy)
		for day, price := range eur.Values() {
			rate, ok := rs.Get(day)
			if !ok || rate <= 0 {
				continue
			}
			col.Put(day, ConvertPrice(price, rate))
		}
		p.cols[ccy] = col
	}
	return p, nil
}

// ProjectionStats summarizes one projection pass.
type ProjectionStats struct {
	Files    []string
	Failures int
}

// WriteProjections builds and writes one hist_<company>.xlsx per instrument
// into dir. A failing instrument is counted and logged, and never blocks
// the others.
func WriteProjections(prices *PriceBook, rates *RateBook, dir string, log zerolog.Logger) ProjectionStats {
	var stats ProjectionStats
	for _, inst := range prices.Instruments() {
		p, err := BuildProjection(inst, prices.Series(inst.Name), rates)
		if err != nil {
			stats.Failures++
			log.Error().Err(err).Str("instrument", inst.Name).Msg("projection skipped")
			continue
		}
		path, err := writeProjection(dir, p)
		if err != nil {
			stats.Failures++
			log.Error().Err(err).Str("instrument", inst.Name).Msg("projection write failed")
			continue
		}
		stats.Files = append(stats.Files, path)
		log.Info().Str("instrument", inst.Name).Str("path", path).
			Int("rows", len(p.Days())).Msg("projection written")
	}
	return stats
}

func writeProjection(dir string, p *Projection) (string, error) {
	stem := p.Instrument.Company
	if stem == "" {
		stem = p.Instrument.Name
	}
	path := filepath.Join(dir, fmt.Sprintf("hist_%s.xlsx", stem))

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Share"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", err
	}

	header := make([]interface{}, 0, len(p.Currencies)+1)
	header = append(header, dateHeader)
	for _, ccy := range p.Currencies {
		header = append(header, ccy)
	}
	row := 1
	if err := setRow(f, sheet, row, header); err != nil {
		return "", err
	}

	for _, day := range p.Days() {
		row++
		cells := make([]interface{}, 0, len(p.Currencies)+1)
		cells = append(cells, day.String())
		for _, ccy := range p.Currencies {
			if v, ok := p.Value(ccy, day); ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, nil)
			}
		}
		if err := setRow(f, sheet, row, cells); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
