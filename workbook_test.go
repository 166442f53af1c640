package visuate

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/PahliAi/Visuate/timeseries"
)

func testConfig(path string) *Config {
	cfg, err := DefaultConfig()
	if err != nil {
		panic(err)
	}
	cfg.WorkbookPath = path
	cfg.Currencies = []string{"USD"}
	return cfg
}

func TestLoadWorkbookMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")
	cfg := testConfig(path)
	cfg.Instruments = []InstrumentConfig{{Name: "Alpha Share", Ticker: "AAA.DE"}}

	prices, rates, err := LoadWorkbook(path, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}
	if got := len(prices.Instruments()); got != 1 {
		t.Fatalf("instruments = %d want 1 seeded from config", got)
	}
	if inst := prices.Instruments()[0]; inst.Currency != "EUR" {
		t.Errorf("currency for %s = %q want EUR via ticker suffix", inst.Ticker, inst.Currency)
	}
	if got := rates.Currencies(); len(got) != 1 || got[0] != "USD" {
		t.Errorf("currencies = %v want [USD]", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist_base.xlsx")
	cfg := testConfig(path)

	mon := timeseries.New(2026, 1, 5)
	tue := mon.Add(1)

	prices := NewPriceBook([]Instrument{
		{Name: "Alpha Share", Company: "Alpha", Ticker: "AAA.DE", Currency: "EUR"},
		{Name: "Beta Share", Company: "Beta", Ticker: "BBB", Currency: "USD"},
	})
	prices.Series("Alpha Share").Put(mon, 10.5)
	prices.Series("Alpha Share").Put(tue, 10.75)
	prices.Series("Beta Share").Put(tue, 20.25) // monday absent

	rates := NewRateBook([]string{"USD"})
	rates.Put("USD", mon, 1.0850)

	if err := SaveWorkbook(path, prices, rates, zerolog.Nop()); err != nil {
		t.Fatalf("SaveWorkbook: %v", err)
	}

	prices2, rates2, err := LoadWorkbook(path, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}

	inst, ok := prices2.Instrument("Alpha Share")
	if !ok || inst.Company != "Alpha" || inst.Ticker != "AAA.DE" || inst.Currency != "EUR" {
		t.Errorf("Alpha Share = %+v want metadata preserved", inst)
	}
	if v, ok := prices2.Series("Alpha Share").Get(mon); !ok || v != 10.5 {
		t.Errorf("Alpha[%s] = %v, %v want 10.5, true", mon, v, ok)
	}
	if _, ok := prices2.Series("Beta Share").Get(mon); ok {
		t.Errorf("Beta[%s] present, want absent cell preserved as absent", mon)
	}
	if v, ok := rates2.Series("USD").Get(mon); !ok || v != 1.0850 {
		t.Errorf("USD[%s] = %v, %v want 1.0850, true", mon, v, ok)
	}
}

func TestSaveWritesDateAscendingWithMetadataRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist_base.xlsx")

	mon := timeseries.New(2026, 1, 5)
	prices := NewPriceBook([]Instrument{
		{Name: "Alpha Share", Company: "Alpha", Ticker: "AAA.DE", Currency: "EUR"},
	})
	// inserted out of order
	prices.Series("Alpha Share").Put(mon.Add(1), 11)
	prices.Series("Alpha Share").Put(mon, 10)

	if err := SaveWorkbook(path, prices, NewRateBook(nil), zerolog.Nop()); err != nil {
		t.Fatalf("SaveWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Shares")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}

	want := [][2]string{
		{"Date", "Alpha Share"},
		{"Company", "Alpha"},
		{"Ticker", "AAA.DE"},
		{"05-01-2026", "10"},
		{"06-01-2026", "11"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d want %d: %v", len(rows), len(want), rows)
	}
	for i, w := range want {
		if rows[i][0] != w[0] || rows[i][1] != w[1] {
			t.Errorf("row %d = %v want %v", i, rows[i], w)
		}
	}
}

func TestLoadSkipsMetadataRowsFromData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist_base.xlsx")
	cfg := testConfig(path)

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sharesSheet)
	f.NewSheet(currencySheet)
	rows := [][]interface{}{
		{"Date", "Alpha Share"},
		{"Company", "Alpha"},
		{"Ticker", "AAA.DE"},
		{"notadate", "999"}, // unknown metadata row: excluded from data
		{"05-01-2026", 10.0},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		f.SetSheetRow(sharesSheet, cell, &r)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	prices, _, err := LoadWorkbook(path, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}
	s := prices.Series("Alpha Share")
	if s.Len() != 1 {
		t.Fatalf("Len = %d want 1 data row", s.Len())
	}
	if v, ok := s.Get(timeseries.New(2026, 1, 5)); !ok || v != 10 {
		t.Errorf("value = %v, %v want 10, true", v, ok)
	}
}
