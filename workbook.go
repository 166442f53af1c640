package visuate

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/PahliAi/Visuate/timeseries"
)

// The workbook is the system of record: a single xlsx file with a Shares
// sheet (instrument prices, plus Company and Ticker metadata rows above the
// data) and a Currency sheet (units-per-EUR rates). Dates are stored as
// dd-mm-yyyy text in the first column.

const (
	sharesSheet   = "Shares"
	currencySheet = "Currency"
	dateHeader    = "Date"

	companyRow = "Company"
	tickerRow  = "Ticker"
)

// LoadWorkbook reads the price and rate books from the workbook at path.
// Rows whose first cell does not parse as a date are metadata, not data:
// Company and Ticker rows are folded into the instrument descriptions and
// written back on save. A missing or unreadable workbook degrades to empty
// books seeded from the configuration, with a warning, so that a first run
// can bootstrap the file.
func LoadWorkbook(path string, cfg *Config, log zerolog.Logger) (*PriceBook, *RateBook, error) {
	prices := NewPriceBook(nil)
	rates := NewRateBook(nil)

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", path).Msg("workbook not found, starting empty")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("workbook unreadable, starting empty")
		}
		seedBooks(prices, rates, cfg)
		return prices, rates, nil
	}
	defer f.Close()

	if err := loadShares(f, prices, cfg, log); err != nil {
		return nil, nil, fmt.Errorf("loading %s sheet: %w", sharesSheet, err)
	}
	if err := loadRates(f, rates, log); err != nil {
		return nil, nil, fmt.Errorf("loading %s sheet: %w", currencySheet, err)
	}
	seedBooks(prices, rates, cfg)
	return prices, rates, nil
}

// seedBooks registers configured instruments and currencies that the
// workbook does not carry yet.
func seedBooks(prices *PriceBook, rates *RateBook, cfg *Config) {
	for _, ic := range cfg.Instruments {
		ccy := ic.Currency
		if ccy == "" {
			ccy = cfg.CurrencyFor(ic.Ticker)
		}
		prices.AddInstrument(Instrument{Name: ic.Name, Company: ic.Name, Ticker: ic.Ticker, Currency: ccy})
	}
	for _, c := range cfg.Currencies {
		rates.AddCurrency(c)
	}
}

func loadShares(f *excelize.File, book *PriceBook, cfg *Config, log zerolog.Logger) error {
	rows, err := f.GetRows(sharesSheet)
	if err != nil || len(rows) == 0 {
		log.Warn().Str("sheet", sharesSheet).Msg("sheet missing or empty")
		return nil
	}

	header := rows[0]
	names := make([]string, 0, len(header))
	for _, name := range header[1:] {
		names = append(names, strings.TrimSpace(name))
	}
	for _, name := range names {
		if name != "" {
			book.AddInstrument(Instrument{Name: name})
		}
	}

	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		day, err := timeseries.Parse(row[0])
		if err != nil {
			// metadata row: fold the known ones into the instruments
			applyMetadata(book, names, row)
			continue
		}
		for i, name := range names {
			if name == "" || i+1 >= len(row) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				continue
			}
			book.Series(name).Put(day, v)
		}
	}

	// resolve currencies: configuration first, ticker suffix as fallback
	for i := range book.instruments {
		inst := &book.instruments[i]
		for _, ic := range cfg.Instruments {
			if ic.Name == inst.Name {
				if inst.Ticker == "" {
					inst.Ticker = ic.Ticker
				}
				if ic.Currency != "" {
					inst.Currency = ic.Currency
				}
			}
		}
		if inst.Currency == "" {
			inst.Currency = cfg.CurrencyFor(inst.Ticker)
		}
		if inst.Company == "" {
			inst.Company = inst.Name
		}
	}
	return nil
}

// applyMetadata distributes one metadata row over the instrument columns.
func applyMetadata(book *PriceBook, names []string, row []string) {
	kind := strings.TrimSpace(row[0])
	for i, name := range names {
		if name == "" || i+1 >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i+1])
		if cell == "" {
			continue
		}
		for j := range book.instruments {
			if book.instruments[j].Name != name {
				continue
			}
			switch kind {
			case companyRow:
				book.instruments[j].Company = cell
			case tickerRow:
				book.instruments[j].Ticker = cell
			}
		}
	}
}

func loadRates(f *excelize.File, book *RateBook, log zerolog.Logger) error {
	rows, err := f.GetRows(currencySheet)
	if err != nil || len(rows) == 0 {
		log.Warn().Str("sheet", currencySheet).Msg("sheet missing or empty")
		return nil
	}

	header := rows[0]
	codes := make([]string, 0, len(header))
	for _, code := range header[1:] {
		codes = append(codes, strings.TrimSpace(code))
	}
	for _, code := range codes {
		if code != "" {
			book.AddCurrency(code)
		}
	}

	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		day, err := timeseries.Parse(row[0])
		if err != nil {
			continue
		}
		for i, code := range codes {
			if code == "" || i+1 >= len(row) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				continue
			}
			book.Put(code, day, v)
		}
	}
	return nil
}

// SaveWorkbook writes both books back to path, rows in ascending date
// order, with the Company and Ticker metadata rows re-emitted above the
// price data. If the full write fails it retries with a data-only workbook
// before giving up: losing metadata is recoverable, losing a day of prices
// is not.
func SaveWorkbook(path string, prices *PriceBook, rates *RateBook, log zerolog.Logger) error {
	if err := writeWorkbook(path, prices, rates, true); err != nil {
		log.Error().Err(err).Str("path", path).Msg("full save failed, retrying data-only")
		if err2 := writeWorkbook(path, prices, rates, false); err2 != nil {
			return fmt.Errorf("saving workbook %s: %w", path, err2)
		}
	}
	return nil
}

func writeWorkbook(path string, prices *PriceBook, rates *RateBook, withMeta bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sharesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(currencySheet); err != nil {
		return err
	}

	if err := writeShares(f, prices, withMeta); err != nil {
		return err
	}
	if err := writeRates(f, rates); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeShares(f *excelize.File, book *PriceBook, withMeta bool) error {
	instruments := book.Instruments()

	header := make([]interface{}, 0, len(instruments)+1)
	header = append(header, dateHeader)
	for _, inst := range instruments {
		header = append(header, inst.Name)
	}
	row := 1
	if err := setRow(f, sharesSheet, row, header); err != nil {
		return err
	}

	if withMeta {
		for _, meta := range []struct {
			kind string
			get  func(Instrument) string
		}{
			{companyRow, func(i Instrument) string { return i.Company }},
			{tickerRow, func(i Instrument) string { return i.Ticker }},
		} {
			row++
			cells := make([]interface{}, 0, len(instruments)+1)
			cells = append(cells, meta.kind)
			for _, inst := range instruments {
				cells = append(cells, meta.get(inst))
			}
			if err := setRow(f, sharesSheet, row, cells); err != nil {
				return err
			}
		}
	}

	for _, day := range book.Axis() {
		row++
		cells := make([]interface{}, 0, len(instruments)+1)
		cells = append(cells, day.String())
		for _, inst := range instruments {
			if v, ok := book.Series(inst.Name).Get(day); ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, nil)
			}
		}
		if err := setRow(f, sharesSheet, row, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRates(f *excelize.File, book *RateBook) error {
	codes := book.Currencies()

	header := make([]interface{}, 0, len(codes)+1)
	header = append(header, dateHeader)
	for _, code := range codes {
		header = append(header, code)
	}
	row := 1
	if err := setRow(f, currencySheet, row, header); err != nil {
		return err
	}

	for _, day := range book.Axis() {
		row++
		cells := make([]interface{}, 0, len(codes)+1)
		cells = append(cells, day.String())
		for _, code := range codes {
			if v, ok := book.Series(code).Get(day); ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, nil)
			}
		}
		if err := setRow(f, currencySheet, row, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
