package visuate

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/PahliAi/Visuate/timeseries"
)

// fakeSpot serves one canned snapshot.
type fakeSpot struct {
	rates map[string]float64
	calls int
}

func (f *fakeSpot) SpotRates() (map[string]float64, error) {
	f.calls++
	return f.rates, nil
}

func runConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.WorkbookPath = filepath.Join(dir, "hist_base.xlsx")
	cfg.OutputDir = dir
	cfg.Currencies = []string{"USD"}
	cfg.Instruments = []InstrumentConfig{
		{Name: "Euro Share", Ticker: "EEE.DE"},
		{Name: "Dollar Share", Ticker: "DDD"},
	}
	return cfg
}

// seedWorkbook persists a two-instrument book ending the day before 'today'.
func seedWorkbook(t *testing.T, cfg *Config, today timeseries.Date) {
	t.Helper()
	prices := NewPriceBook([]Instrument{
		{Name: "Euro Share", Company: "Euro", Ticker: "EEE.DE", Currency: "EUR"},
		{Name: "Dollar Share", Company: "Dollar", Ticker: "DDD", Currency: "USD"},
	})
	rates := NewRateBook([]string{"USD"})
	yesterday := today.Add(-1)
	prices.Series("Euro Share").Put(yesterday, 50)
	prices.Series("Dollar Share").Put(yesterday, 80)
	rates.Put("USD", yesterday, 1.25)
	if err := SaveWorkbook(cfg.WorkbookPath, prices, rates, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
}

func TestRunFetchesConvertsAndPersists(t *testing.T) {
	today := timeseries.New(2026, 1, 6) // a Tuesday
	cfg := runConfig(t)
	seedWorkbook(t, cfg, today)

	provider := &fakeProvider{series: map[string]*timeseries.Series{
		"EEE.DE": seriesOf(map[timeseries.Date]float64{today: 51}),
		"DDD":    seriesOf(map[timeseries.Date]float64{today: 100}),
		"USD":    seriesOf(map[timeseries.Date]float64{today: 1.25}),
	}}
	runner := NewRunner(cfg, provider, provider, nil, zerolog.Nop())
	runner.now = func() timeseries.Date { return today }

	summary, err := runner.Run(false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.NewPriceRecords != 2 {
		t.Errorf("NewPriceRecords = %d want 2", summary.NewPriceRecords)
	}
	if fails := summary.Failures(); len(fails) != 0 {
		t.Errorf("Failures = %v want none", fails)
	}

	// reload and check the persisted, converted values
	prices, rates, err := LoadWorkbook(cfg.WorkbookPath, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := prices.Series("Euro Share").Get(today); !ok || v != 51 {
		t.Errorf("Euro Share[%s] = %v, %v want unconverted 51", today, v, ok)
	}
	// 100 USD at 1.25 units per EUR is 80.00 EUR
	if v, ok := prices.Series("Dollar Share").Get(today); !ok || v != 80 {
		t.Errorf("Dollar Share[%s] = %v, %v want converted 80", today, v, ok)
	}
	if v, ok := rates.Series("USD").Get(today); !ok || v != 1.25 {
		t.Errorf("USD[%s] = %v, %v want 1.25", today, v, ok)
	}
	if len(summary.Projections.Files) != 2 {
		t.Errorf("projection files = %v want 2", summary.Projections.Files)
	}
	if summary.Report == nil || summary.Report.Health != Healthy {
		t.Errorf("Report = %+v want HEALTHY", summary.Report)
	}
}

func TestRunIdempotent(t *testing.T) {
	today := timeseries.New(2026, 1, 6)
	cfg := runConfig(t)
	seedWorkbook(t, cfg, today)

	provider := &fakeProvider{series: map[string]*timeseries.Series{
		"EEE.DE": seriesOf(map[timeseries.Date]float64{today: 51}),
		"DDD":    seriesOf(map[timeseries.Date]float64{today: 100}),
		"USD":    seriesOf(map[timeseries.Date]float64{today: 1.25}),
	}}
	runner := NewRunner(cfg, provider, provider, nil, zerolog.Nop())
	runner.now = func() timeseries.Date { return today }

	if _, err := runner.Run(false); err != nil {
		t.Fatal(err)
	}
	summary, err := runner.Run(false)
	if err != nil {
		t.Fatal(err)
	}

	// second run: data current, nothing re-fetched, nothing re-converted
	if !summary.DataWasCurrent {
		t.Errorf("DataWasCurrent = false want true")
	}
	if summary.NewPriceRecords != 0 || summary.Conversions.Converted != 0 {
		t.Errorf("summary = %+v want no new work", summary)
	}
	prices, _, err := LoadWorkbook(cfg.WorkbookPath, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := prices.Series("Dollar Share").Get(today); v != 80 {
		t.Errorf("Dollar Share[%s] = %v want 80, not converted twice", today, v)
	}
}

func TestRunSpotFallbackForToday(t *testing.T) {
	today := timeseries.New(2026, 1, 6)
	cfg := runConfig(t)
	seedWorkbook(t, cfg, today)

	// historical provider knows prices but has no rate for today
	provider := &fakeProvider{series: map[string]*timeseries.Series{
		"EEE.DE": seriesOf(map[timeseries.Date]float64{today: 51}),
		"DDD":    seriesOf(map[timeseries.Date]float64{today: 100}),
	}}
	spot := &fakeSpot{rates: map[string]float64{"USD": 1.25, "GBP": 0.85}}
	runner := NewRunner(cfg, provider, provider, spot, zerolog.Nop())
	runner.now = func() timeseries.Date { return today }

	summary, err := runner.Run(false)
	if err != nil {
		t.Fatal(err)
	}
	if summary.RateUpdates != 1 {
		t.Errorf("RateUpdates = %d want 1 from snapshot", summary.RateUpdates)
	}
	if spot.calls != 1 {
		t.Errorf("spot calls = %d want a single shared snapshot", spot.calls)
	}
	_, rates, err := LoadWorkbook(cfg.WorkbookPath, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := rates.Series("USD").Get(today); !ok || v != 1.25 {
		t.Errorf("USD[%s] = %v, %v want snapshot rate", today, v, ok)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	today := timeseries.New(2026, 1, 6)
	cfg := runConfig(t)
	seedWorkbook(t, cfg, today)

	provider := &fakeProvider{series: map[string]*timeseries.Series{
		"EEE.DE": seriesOf(map[timeseries.Date]float64{today: 51}),
		"DDD":    seriesOf(map[timeseries.Date]float64{today: 100}),
		"USD":    seriesOf(map[timeseries.Date]float64{today: 1.25}),
	}}
	runner := NewRunner(cfg, provider, provider, nil, zerolog.Nop())
	runner.now = func() timeseries.Date { return today }

	summary, err := runner.Run(true)
	if err != nil {
		t.Fatal(err)
	}
	if summary.NewPriceRecords != 2 {
		t.Errorf("NewPriceRecords = %d want the work still simulated", summary.NewPriceRecords)
	}
	if len(summary.Projections.Files) != 0 {
		t.Errorf("projection files = %v want none in dry run", summary.Projections.Files)
	}
	prices, _, err := LoadWorkbook(cfg.WorkbookPath, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := prices.Series("Euro Share").Get(today); ok {
		t.Errorf("workbook gained today's value in a dry run")
	}
}

func TestRunFunctionalFailureWhenProvidersEmpty(t *testing.T) {
	today := timeseries.New(2026, 1, 6)
	cfg := runConfig(t)
	seedWorkbook(t, cfg, today.Add(-3)) // stale data, fetch required

	provider := &fakeProvider{err: ErrNoData}
	runner := NewRunner(cfg, provider, provider, nil, zerolog.Nop())
	runner.now = func() timeseries.Date { return today }

	summary, err := runner.Run(false)
	if err != nil {
		t.Fatalf("Run: %v (provider outages are not technical failures)", err)
	}
	if fails := summary.Failures(); len(fails) == 0 {
		t.Errorf("Failures = none, want functional failure on zero new records")
	}
}
