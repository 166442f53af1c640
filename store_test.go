package visuate

import (
	"testing"

	"github.com/PahliAi/Visuate/timeseries"
)

func TestPriceBookAxisAndLast(t *testing.T) {
	mon := timeseries.New(2026, 1, 5)
	tue := mon.Add(1)

	book := NewPriceBook([]Instrument{{Name: "A"}, {Name: "B"}})
	book.Series("A").Put(mon, 1)
	book.Series("B").Put(tue, 2)
	book.Series("B").Put(mon, 3)

	axis := book.Axis()
	if len(axis) != 2 || axis[0] != mon || axis[1] != tue {
		t.Errorf("Axis = %v want [%s %s]", axis, mon, tue)
	}
	if got := book.Last(); got != tue {
		t.Errorf("Last = %s want %s", got, tue)
	}
	if got := book.Records(); got != 3 {
		t.Errorf("Records = %d want 3", got)
	}
}

func TestPriceBookCommitKeepLast(t *testing.T) {
	mon := timeseries.New(2026, 1, 5)
	book := NewPriceBook([]Instrument{{Name: "A"}})
	book.Series("A").Put(mon, 1)

	book.Commit([]FillRecord{
		{Key: "A", Day: mon, Value: 2},
		{Key: "A", Day: mon, Value: 3},
		{Key: "unknown", Day: mon, Value: 9}, // silently dropped
	})
	if v, _ := book.Series("A").Get(mon); v != 3 {
		t.Errorf("A[%s] = %v want the last committed 3", mon, v)
	}
}

func TestAddInstrumentIdempotent(t *testing.T) {
	book := NewPriceBook(nil)
	book.AddInstrument(Instrument{Name: "A", Ticker: "AAA"})
	book.AddInstrument(Instrument{Name: "A", Ticker: "OTHER"})
	if got := len(book.Instruments()); got != 1 {
		t.Errorf("instruments = %d want 1", got)
	}
	if inst, _ := book.Instrument("A"); inst.Ticker != "AAA" {
		t.Errorf("Ticker = %q want first registration kept", inst.Ticker)
	}
}

func TestRateBookHasAndPut(t *testing.T) {
	mon := timeseries.New(2026, 1, 5)
	book := NewRateBook([]string{"USD"})

	if book.Has("USD", mon) {
		t.Errorf("Has before Put = true")
	}
	book.Put("USD", mon, 1.08)
	book.Put("USD", mon, 1.09)
	if !book.Has("USD", mon) {
		t.Errorf("Has after Put = false")
	}
	if v, _ := book.Series("USD").Get(mon); v != 1.09 {
		t.Errorf("USD[%s] = %v want last write 1.09", mon, v)
	}
	book.Put("GBP", mon, 0.85) // untracked: dropped
	if book.Series("GBP") != nil {
		t.Errorf("untracked currency gained a series")
	}
}
